// AngelaMos | 2026
// entity.go

package user

import (
	"regexp"
	"time"
)

// PhoneRE is the canonical phone format: 11 digits starting with 09.
var PhoneRE = regexp.MustCompile(`^09\d{9}$`)

type User struct {
	ID           string    `db:"id"`
	Phone        string    `db:"phone"`
	Email        string    `db:"email"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	IsActive     bool      `db:"is_active"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func ValidPhone(phone string) bool {
	return PhoneRE.MatchString(phone)
}
