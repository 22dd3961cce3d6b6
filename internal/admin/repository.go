// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/blogspace/internal/core"
)

// ContentStats is a snapshot of platform activity for the admin
// dashboard.
type ContentStats struct {
	Users               int `db:"users" json:"users"`
	ActiveUsers         int `db:"active_users" json:"active_users"`
	Posts               int `db:"posts" json:"posts"`
	PublishedPosts      int `db:"published_posts" json:"published_posts"`
	PremiumPosts        int `db:"premium_posts" json:"premium_posts"`
	Comments            int `db:"comments" json:"comments"`
	PendingComments     int `db:"pending_comments" json:"pending_comments"`
	Follows             int `db:"follows" json:"follows"`
	Subscriptions       int `db:"subscriptions" json:"subscriptions"`
	ActiveSubscriptions int `db:"active_subscriptions" json:"active_subscriptions"`
}

type Repository interface {
	ContentStats(ctx context.Context) (*ContentStats, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) ContentStats(ctx context.Context) (*ContentStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM users WHERE is_active) AS active_users,
			(SELECT COUNT(*) FROM posts) AS posts,
			(SELECT COUNT(*) FROM posts WHERE is_published) AS published_posts,
			(SELECT COUNT(*) FROM posts WHERE is_premium) AS premium_posts,
			(SELECT COUNT(*) FROM comments) AS comments,
			(SELECT COUNT(*) FROM comments WHERE NOT is_approved) AS pending_comments,
			(SELECT COUNT(*) FROM follows) AS follows,
			(SELECT COUNT(*) FROM subscriptions) AS subscriptions,
			(SELECT COUNT(*) FROM subscriptions
			 WHERE updated_at + make_interval(months => duration_months) > NOW()
			) AS active_subscriptions`

	var stats ContentStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("content stats: %w", err)
	}

	return &stats, nil
}
