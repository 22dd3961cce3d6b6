// AngelaMos | 2026
// entity.go

package otp

import (
	"time"
)

// Code is one row of the append-only code ledger. Rows are never updated
// or consumed: a code simply stops matching once its window passes, and
// history is kept for auditing.
type Code struct {
	ID        string    `db:"id"`
	Phone     string    `db:"phone"`
	Code      string    `db:"code"`
	CreatedAt time.Time `db:"created_at"`
}

// Expired reports whether the code's window has passed. The boundary
// instant itself still counts as valid.
func (c *Code) Expired(ttl time.Duration, now time.Time) bool {
	return now.After(c.CreatedAt.Add(ttl))
}
