package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Repository is the generic CRUD contract over one entity type. Reads are
// untracked; Create, Update and Delete only stage the mutation, and nothing
// touches the database until the owning unit of work commits.
type Repository[T any] interface {
	GetAll(ctx context.Context) ([]*T, error)
	GetByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, e *T) error
	Update(ctx context.Context, e *T) error
	Delete(ctx context.Context, e *T) error
}

// UnitOfWork tracks staged entity mutations and commits them atomically,
// stamping audit fields from the caller's identity. One unit of work serves
// exactly one request and must not be shared across requests.
type UnitOfWork interface {
	Commit(ctx context.Context) error
}
