// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// RefreshToken is the persisted half of a session pair. The raw token never
// touches the database; only its sha256 hash is stored. AccessTokenID keeps
// the jti of the paired access token so revoking the session can blacklist
// both credentials at once.
type RefreshToken struct {
	ID            string     `db:"id"`
	UserID        string     `db:"user_id"`
	TokenHash     string     `db:"token_hash"`
	AccessTokenID string     `db:"access_token_id"`
	ExpiresAt     time.Time  `db:"expires_at"`
	CreatedAt     time.Time  `db:"created_at"`
	RevokedAt     *time.Time `db:"revoked_at"`
}

func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

func (t *RefreshToken) IsValid() bool {
	return !t.IsExpired() && !t.IsRevoked()
}
