package repository

import (
	"context"

	"go-clean-api/internal/domain/entity"
)

// ProductRepository extends the generic contract with SKU lookup, used by
// the create/update validators to enforce SKU uniqueness.
type ProductRepository interface {
	Repository[entity.Product]

	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
}
