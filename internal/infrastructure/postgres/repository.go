package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"go-clean-api/internal/domain/entity"
	"go-clean-api/internal/domain/repository"
)

// auditablePtr constrains PT to *T with an embedded audit block.
type auditablePtr[T any] interface {
	*T
	entity.Auditable
}

// Repository is the generic CRUD implementation over one audited table.
// Reads run directly against the pool (untracked); mutations are staged
// into the owning unit of work and execute at commit. Audit columns are
// never part of the caller-supplied column list: creation fields travel
// with inserts, modification fields with updates, and updates can never
// overwrite creation fields.
type Repository[T any, PT auditablePtr[T]] struct {
	uow     *UnitOfWork
	table   string
	columns []string
	values  func(PT) []any

	selectCols string
	insertSQL  string
	updateSQL  string
}

// NewRepository builds a repository for table with the given entity columns
// (id and audit columns excluded). values must yield arguments in column
// order.
func NewRepository[T any, PT auditablePtr[T]](uow *UnitOfWork, table string, columns []string, values func(PT) []any) *Repository[T, PT] {
	r := &Repository[T, PT]{uow: uow, table: table, columns: columns, values: values}
	r.selectCols = strings.Join(append(append([]string{"id"}, columns...),
		"date_created", "created_by", "date_modified", "modified_by"), ", ")
	r.insertSQL = buildInsert(table, append(columns, "date_created", "created_by"))
	r.updateSQL = buildUpdate(table, append(columns, "date_modified", "modified_by"))
	return r
}

func buildInsert(table string, cols []string) string {
	ph := make([]string, len(cols))
	for i := range cols {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		table, strings.Join(cols, ", "), strings.Join(ph, ", "))
}

func buildUpdate(table string, cols []string) string {
	set := make([]string, len(cols))
	for i, c := range cols {
		set[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		table, strings.Join(set, ", "), len(cols)+1)
}

// GetAll returns every row, untracked.
func (r *Repository[T, PT]) GetAll(ctx context.Context) ([]*T, error) {
	rows, err := r.uow.Pool().Query(ctx,
		fmt.Sprintf("SELECT %s FROM %s ORDER BY id", r.selectCols, r.table))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[T])
}

// GetByID returns one row, untracked, or repository.ErrNotFound.
func (r *Repository[T, PT]) GetByID(ctx context.Context, id int64) (*T, error) {
	rows, err := r.uow.Pool().Query(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", r.selectCols, r.table), id)
	if err != nil {
		return nil, err
	}
	e, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// Create stages an insert. The generated id is written back through the
// entity pointer when the unit of work commits.
func (r *Repository[T, PT]) Create(_ context.Context, e *T) error {
	a := PT(e).AuditFields()
	r.uow.Stage(StateAdded, a, func(ctx context.Context, tx pgx.Tx) error {
		args := append(r.values(e), a.DateCreated, a.CreatedBy)
		return tx.QueryRow(ctx, r.insertSQL, args...).Scan(&a.ID)
	})
	return nil
}

// Update stages a full replacement of the row. Creation audit columns are
// not part of the statement, so they cannot be overwritten.
func (r *Repository[T, PT]) Update(_ context.Context, e *T) error {
	a := PT(e).AuditFields()
	r.uow.Stage(StateModified, a, func(ctx context.Context, tx pgx.Tx) error {
		args := append(r.values(e), a.DateModified, a.ModifiedBy, a.ID)
		res, err := tx.Exec(ctx, r.updateSQL, args...)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return fmt.Errorf("%s %d: %w", r.table, a.ID, repository.ErrNotFound)
		}
		return nil
	})
	return nil
}

// Delete stages a hard delete.
func (r *Repository[T, PT]) Delete(_ context.Context, e *T) error {
	a := PT(e).AuditFields()
	r.uow.Stage(StateRemoved, a, func(ctx context.Context, tx pgx.Tx) error {
		res, err := tx.Exec(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table), a.ID)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return fmt.Errorf("%s %d: %w", r.table, a.ID, repository.ErrNotFound)
		}
		return nil
	})
	return nil
}
