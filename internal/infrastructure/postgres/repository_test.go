package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"go-clean-api/internal/domain/entity"
)

func TestBuildStatements(t *testing.T) {
	t.Parallel()

	t.Run("insert appends creation audit columns", func(t *testing.T) {
		sql := buildInsert("products", []string{"name", "price", "date_created", "created_by"})
		require.Equal(t,
			"INSERT INTO products (name, price, date_created, created_by) VALUES ($1, $2, $3, $4) RETURNING id",
			sql)
	})

	t.Run("update appends modification audit columns and keys on id", func(t *testing.T) {
		sql := buildUpdate("products", []string{"name", "price", "date_modified", "modified_by"})
		require.Equal(t,
			"UPDATE products SET name = $1, price = $2, date_modified = $3, modified_by = $4 WHERE id = $5",
			sql)
	})
}

func TestRepositoryStaging(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	newRepo := func(uow *UnitOfWork) *ProductRepository {
		return NewProductRepository(uow)
	}

	t.Run("create stages one addition", func(t *testing.T) {
		uow := NewUnitOfWork(nil)
		repo := newRepo(uow)

		require.NoError(t, repo.Create(ctx, &entity.Product{Name: "Keyboard", Price: 10}))
		require.Equal(t, 1, uow.Pending())
	})

	t.Run("update statement excludes creation columns", func(t *testing.T) {
		uow := NewUnitOfWork(nil)
		repo := newRepo(uow)

		require.NotContains(t, repo.updateSQL, "date_created")
		require.NotContains(t, repo.updateSQL, "created_by")
	})

	t.Run("mutations accumulate until commit", func(t *testing.T) {
		uow := NewUnitOfWork(nil)
		repo := newRepo(uow)

		p := &entity.Product{Name: "Keyboard", Price: 10}
		require.NoError(t, repo.Create(ctx, p))
		require.NoError(t, repo.Update(ctx, p))
		require.NoError(t, repo.Delete(ctx, p))
		require.Equal(t, 3, uow.Pending())
	})
}
