package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"go-clean-api/internal/domain/entity"
	"go-clean-api/internal/domain/repository"
)

var productColumns = []string{
	"name", "description", "price", "stock_quantity", "sku", "is_active", "created_at", "image_url",
}

func productValues(p *entity.Product) []any {
	return []any{p.Name, p.Description, p.Price, p.StockQuantity, p.SKU, p.IsActive, p.CreatedAt, p.ImageURL}
}

// ProductRepository is the product store: generic CRUD plus SKU lookup.
type ProductRepository struct {
	*Repository[entity.Product, *entity.Product]
}

func NewProductRepository(uow *UnitOfWork) *ProductRepository {
	return &ProductRepository{
		Repository: NewRepository[entity.Product](uow, "products", productColumns, productValues),
	}
}

// GetBySKU returns the product carrying sku, or repository.ErrNotFound.
func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	rows, err := r.uow.Pool().Query(ctx,
		"SELECT "+r.selectCols+" FROM products WHERE sku = $1", sku)
	if err != nil {
		return nil, err
	}
	p, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[entity.Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
