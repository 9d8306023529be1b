package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-clean-api/internal/domain/entity"
	"go-clean-api/pkg/helpers"
)

// ChangeState classifies a staged mutation for audit stamping.
type ChangeState int

const (
	StateAdded ChangeState = iota
	StateModified
	StateRemoved
)

// ErrCommitted is returned when a unit of work is committed twice.
var ErrCommitted = errors.New("unit of work already committed")

type change struct {
	state ChangeState
	audit *entity.Audit
	exec  func(ctx context.Context, tx pgx.Tx) error
}

// UnitOfWork collects staged entity mutations for one request and commits
// them in a single transaction. Before executing, each staged entity gets
// its audit fields stamped from the request actor: newly added entities
// receive creation fields, modified entities receive modification fields
// with their creation fields protected. Removed entities are not stamped;
// they are hard-deleted.
//
// A UnitOfWork serves exactly one request and is not safe for concurrent use.
type UnitOfWork struct {
	pool      *pgxpool.Pool
	changes   []change
	committed bool
}

func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// Pool exposes the underlying pool for untracked reads.
func (u *UnitOfWork) Pool() *pgxpool.Pool { return u.pool }

// Stage records a pending mutation. exec runs inside the commit transaction
// after audit stamping.
func (u *UnitOfWork) Stage(state ChangeState, a *entity.Audit, exec func(ctx context.Context, tx pgx.Tx) error) {
	u.changes = append(u.changes, change{state: state, audit: a, exec: exec})
}

// Pending reports the number of staged mutations.
func (u *UnitOfWork) Pending() int { return len(u.changes) }

// Commit stamps audit fields and executes all staged mutations in one
// transaction. Committing with nothing staged is a no-op.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.committed {
		return ErrCommitted
	}
	u.committed = true
	if len(u.changes) == 0 {
		return nil
	}

	stampChanges(u.changes, time.Now().UTC(), resolveActor(ctx))

	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, ch := range u.changes {
		if err := ch.exec(ctx, tx); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	u.changes = nil
	return nil
}

// stampChanges applies audit stamps in place based on each change state.
func stampChanges(changes []change, now time.Time, actor string) {
	for _, ch := range changes {
		switch ch.state {
		case StateAdded:
			ch.audit.StampCreated(now, actor)
		case StateModified:
			ch.audit.StampModified(now, actor)
		case StateRemoved:
			// Hard delete; stamping a row about to disappear would be
			// write-only noise.
		}
	}
}

func resolveActor(ctx context.Context) string {
	if actor := helpers.ActorFrom(ctx); actor != "" {
		return actor
	}
	return entity.SystemActor
}
