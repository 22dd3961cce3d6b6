// AngelaMos | 2026
// entity.go

package relationship

import (
	"time"
)

type Follow struct {
	ID         string    `db:"id"`
	FollowerID string    `db:"follower_id"`
	AuthorID   string    `db:"author_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// Subscription is a time-boxed premium grant from a subscriber to an
// author. Expiry is never stored: it is always derived from the last
// payment instant (UpdatedAt) plus the purchased duration, so renewing
// re-bases the window instead of stacking it.
type Subscription struct {
	ID             string    `db:"id"`
	SubscriberID   string    `db:"subscriber_id"`
	AuthorID       string    `db:"author_id"`
	DurationMonths int       `db:"duration_months"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// ValidDuration reports whether months is a purchasable plan length.
func ValidDuration(months int) bool {
	switch months {
	case 1, 3, 6, 12:
		return true
	}
	return false
}

func (s *Subscription) ExpiresAt() time.Time {
	return s.UpdatedAt.AddDate(0, s.DurationMonths, 0)
}

// Active reports whether the grant covers the given instant. The expiry
// instant itself is outside the window.
func (s *Subscription) Active(now time.Time) bool {
	return now.Before(s.ExpiresAt())
}
