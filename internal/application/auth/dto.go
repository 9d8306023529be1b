package auth

import (
	"time"

	"go-clean-api/internal/domain/entity"
)

type LoginDto struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type RegisterDto struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,strongpwd"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	FirstName       string `json:"firstName" validate:"required,max=100"`
	LastName        string `json:"lastName" validate:"required,max=100"`
}

type ChangePasswordDto struct {
	CurrentPassword    string `json:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required,strongpwd"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}

type ForgotPasswordDto struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordDto struct {
	Email              string `json:"email" validate:"required,email"`
	Token              string `json:"token" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required,strongpwd"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	UserName  string    `json:"userName"`
	FullName  string    `json:"fullName"`
	Roles     []string  `json:"roles"`
	ExpiresOn time.Time `json:"expiresOn"`
}

// UserDto is the public user projection returned by /auth/me.
type UserDto struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	UserName    string     `json:"userName"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	FullName    string     `json:"fullName"`
	IsActive    bool       `json:"isActive"`
	Roles       []string   `json:"roles"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toUserDto(u *entity.User) *UserDto {
	return &UserDto{
		ID:          u.ID,
		Email:       u.Email,
		UserName:    u.UserName,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		IsActive:    u.IsActive,
		Roles:       u.Roles,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
