// AngelaMos | 2026
// entity.go

package profile

import (
	"time"
)

// Profile holds the public-facing details of an account. One row per
// user, created lazily the first time the profile is read or edited.
type Profile struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	DisplayName string    `db:"display_name"`
	Bio         string    `db:"bio"`
	AvatarURL   string    `db:"avatar_url"`
	Website     string    `db:"website"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type SocialLink struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Platform  string    `db:"platform"`
	URL       string    `db:"url"`
	CreatedAt time.Time `db:"created_at"`
}
