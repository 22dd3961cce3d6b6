// AngelaMos | 2026
// repository.go

package relationship

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/blogspace/internal/core"
)

type Repository interface {
	CreateFollow(ctx context.Context, follow *Follow) error
	DeleteFollow(ctx context.Context, followerID, authorID string) error
	ListFollowing(ctx context.Context, followerID string) ([]Follow, error)
	ListFollowers(ctx context.Context, authorID string) ([]Follow, error)
	CountFollowers(ctx context.Context, authorID string) (int, error)

	CreateSubscription(ctx context.Context, sub *Subscription) error
	GetSubscriptionByID(ctx context.Context, id string) (*Subscription, error)
	GetSubscriptionByPair(
		ctx context.Context,
		subscriberID, authorID string,
	) (*Subscription, error)
	RenewSubscription(
		ctx context.Context,
		id string,
		durationMonths int,
	) (*Subscription, error)
	ListSubscriptions(
		ctx context.Context,
		subscriberID string,
	) ([]Subscription, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) CreateFollow(ctx context.Context, follow *Follow) error {
	query := `
		INSERT INTO follows (id, follower_id, author_id)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &follow.CreatedAt, query,
		follow.ID,
		follow.FollowerID,
		follow.AuthorID,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create follow: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create follow: %w", err)
	}

	return nil
}

func (r *repository) DeleteFollow(
	ctx context.Context,
	followerID, authorID string,
) error {
	query := `
		DELETE FROM follows
		WHERE follower_id = $1 AND author_id = $2`

	result, err := r.db.ExecContext(ctx, query, followerID, authorID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete follow: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListFollowing(
	ctx context.Context,
	followerID string,
) ([]Follow, error) {
	query := `
		SELECT id, follower_id, author_id, created_at
		FROM follows
		WHERE follower_id = $1
		ORDER BY created_at DESC`

	var follows []Follow
	if err := r.db.SelectContext(ctx, &follows, query, followerID); err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}

	return follows, nil
}

func (r *repository) ListFollowers(
	ctx context.Context,
	authorID string,
) ([]Follow, error) {
	query := `
		SELECT id, follower_id, author_id, created_at
		FROM follows
		WHERE author_id = $1
		ORDER BY created_at DESC`

	var follows []Follow
	if err := r.db.SelectContext(ctx, &follows, query, authorID); err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}

	return follows, nil
}

func (r *repository) CountFollowers(
	ctx context.Context,
	authorID string,
) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM follows WHERE author_id = $1`

	if err := r.db.GetContext(ctx, &count, query, authorID); err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}

	return count, nil
}

const subscriptionColumns = `id, subscriber_id, author_id, duration_months,
			       created_at, updated_at`

func (r *repository) CreateSubscription(
	ctx context.Context,
	sub *Subscription,
) error {
	query := `
		INSERT INTO subscriptions (id, subscriber_id, author_id, duration_months)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, sub, query,
		sub.ID,
		sub.SubscriberID,
		sub.AuthorID,
		sub.DurationMonths,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create subscription: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create subscription: %w", err)
	}

	return nil
}

func (r *repository) GetSubscriptionByID(
	ctx context.Context,
	id string,
) (*Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE id = $1`

	var sub Subscription
	err := r.db.GetContext(ctx, &sub, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get subscription: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	return &sub, nil
}

func (r *repository) GetSubscriptionByPair(
	ctx context.Context,
	subscriberID, authorID string,
) (*Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE subscriber_id = $1 AND author_id = $2`

	var sub Subscription
	err := r.db.GetContext(ctx, &sub, query, subscriberID, authorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get subscription: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	return &sub, nil
}

// RenewSubscription rewrites the plan length and re-bases updated_at,
// which restarts the derived expiry window from now.
func (r *repository) RenewSubscription(
	ctx context.Context,
	id string,
	durationMonths int,
) (*Subscription, error) {
	query := `
		UPDATE subscriptions
		SET duration_months = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + subscriptionColumns

	var sub Subscription
	err := r.db.GetContext(ctx, &sub, query, id, durationMonths)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("renew subscription: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("renew subscription: %w", err)
	}

	return &sub, nil
}

func (r *repository) ListSubscriptions(
	ctx context.Context,
	subscriberID string,
) ([]Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE subscriber_id = $1
		ORDER BY created_at DESC`

	var subs []Subscription
	if err := r.db.SelectContext(ctx, &subs, query, subscriberID); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	return subs, nil
}
