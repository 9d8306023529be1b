package entity

import "time"

// Default role names. Administrator and Manager guard product mutations;
// User is assigned on registration.
const (
	RoleAdministrator = "Administrator"
	RoleManager       = "Manager"
	RoleUser          = "User"
)

// Role represents an authorization role, many-to-many with User.
type Role struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
