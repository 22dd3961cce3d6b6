// AngelaMos | 2026
// entity.go

package blog

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID          string    `db:"id"`
	AuthorID    string    `db:"author_id"`
	CategoryID  *string   `db:"category_id"`
	Title       string    `db:"title"`
	Slug        string    `db:"slug"`
	Body        string    `db:"body"`
	IsPublished bool      `db:"is_published"`
	IsPremium   bool      `db:"is_premium"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type Comment struct {
	ID         string    `db:"id"`
	PostID     string    `db:"post_id"`
	AuthorID   string    `db:"author_id"`
	Body       string    `db:"body"`
	IsApproved bool      `db:"is_approved"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type Category struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
}

type Tag struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
}

type Like struct {
	ID        string    `db:"id"`
	PostID    string    `db:"post_id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

var slugStripRE = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases and hyphenates a title.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = slugStripRE.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NewPostSlug appends a short random suffix so two posts with the same
// title never collide.
func NewPostSlug(title string) string {
	base := Slugify(title)
	suffix := uuid.New().String()[:8]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
