package repository

import (
	"context"

	"go-clean-api/internal/domain/entity"
)

// UserRepository is the identity store contract. Identity writes are
// immediate (no unit of work); the auth subsystem owns its own fields.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	AddToRole(ctx context.Context, userID, roleName string) error

	UpdateLastLogin(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash, securityStamp string) error
	UpdateSecurityStamp(ctx context.Context, userID, securityStamp string) error
}
