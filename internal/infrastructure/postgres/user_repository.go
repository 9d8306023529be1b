package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-clean-api/internal/domain/entity"
	"go-clean-api/internal/domain/repository"
)

// UserRepository is the identity store. Unlike the audited product store,
// identity writes hit the database immediately: credential and login-state
// fields belong to the auth subsystem, not to the request unit of work.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userSelect = `
	SELECT id, email, user_name, first_name, last_name,
	       password_hash, security_stamp, is_active, created_at, last_login_at
	FROM users
`

func (r *UserRepository) scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Email, &u.UserName, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.SecurityStamp, &u.IsActive, &u.CreatedAt, &u.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) loadRoles(ctx context.Context, u *entity.User) error {
	rows, err := r.pool.Query(ctx, `
		SELECT ro.name
		FROM roles ro
		JOIN user_roles ur ON ur.role_id = ro.id
		WHERE ur.user_id = $1
		ORDER BY ro.name
	`, u.ID)
	if err != nil {
		return err
	}
	roles, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return err
	}
	u.Roles = roles
	return nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, user_name, first_name, last_name,
		                   password_hash, security_stamp, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, u.Email, u.UserName, u.FirstName, u.LastName,
		u.PasswordHash, u.SecurityStamp, u.IsActive)
	return row.Scan(&u.ID, &u.CreatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := r.scanUser(r.pool.QueryRow(ctx, userSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadRoles(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := r.scanUser(r.pool.QueryRow(ctx, userSelect+` WHERE email = $1`, email))
	if err != nil {
		return nil, err
	}
	if err := r.loadRoles(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) AddToRole(ctx context.Context, userID, roleName string) error {
	res, err := r.pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
		ON CONFLICT DO NOTHING
	`, userID, roleName)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, u *entity.User) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login_at = $1 WHERE id = $2`, u.LastLoginAt, u.ID)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash, securityStamp string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, security_stamp = $2 WHERE id = $3
	`, passwordHash, securityStamp, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateSecurityStamp(ctx context.Context, userID, securityStamp string) error {
	res, err := r.pool.Exec(ctx,
		`UPDATE users SET security_stamp = $1 WHERE id = $2`, securityStamp, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
