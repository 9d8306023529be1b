package entity

import (
	"strings"
	"time"
)

// User is the identity aggregate. Credential fields (PasswordHash,
// SecurityStamp) are owned by the auth subsystem; the rest is
// application-visible profile state.
type User struct {
	ID            string     `db:"id" json:"id"`
	Email         string     `db:"email" json:"email"`
	UserName      string     `db:"user_name" json:"userName"`
	FirstName     string     `db:"first_name" json:"firstName"`
	LastName      string     `db:"last_name" json:"lastName"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	SecurityStamp string     `db:"security_stamp" json:"-"`
	IsActive      bool       `db:"is_active" json:"isActive"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	LastLoginAt   *time.Time `db:"last_login_at" json:"lastLoginAt"`

	// Role names, loaded via user_roles.
	Roles []string `db:"-" json:"roles"`
}

// FullName joins first and last name, trimming when either is empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UpdateLastLogin stamps the last successful login time.
func (u *User) UpdateLastLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
}
