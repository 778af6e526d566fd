package entity

import "time"

type UserRole string

const (
	RoleRegular UserRole = "regular"
	RolePremium UserRole = "premium"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	Base
	FirstName      string     `db:"first_name"`
	LastName       string     `db:"last_name"`
	Email          string     `db:"email"`
	PasswordHash   string     `db:"password"`
	Age            int        `db:"age"`
	Role           UserRole   `db:"role"`
	CartID         string     `db:"cart_id"`
	LastConnection time.Time  `db:"last_connection"`
	ResetToken     *string    `db:"reset_token"`
	ResetExpiresAt *time.Time `db:"reset_expires_at"`
}

// HasResetToken reports whether a pending password-reset token exists.
func (u *User) HasResetToken() bool {
	return u.ResetToken != nil && u.ResetExpiresAt != nil
}
