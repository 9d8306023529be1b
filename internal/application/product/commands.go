package product

// CreateProductCommand creates a new product. Numeric bounds and lengths
// are enforced by validation before the entity is built.
type CreateProductCommand struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Description   string  `json:"description" validate:"max=500"`
	Price         float64 `json:"price" validate:"gt=0"`
	StockQuantity int     `json:"stockQuantity" validate:"gte=0"`
	SKU           *string `json:"sku" validate:"omitempty,max=50"`
	IsActive      bool    `json:"isActive"`
}

// UpdateProductCommand fully replaces an existing product. The id must
// match the route id; the controller rejects mismatches before dispatch.
type UpdateProductCommand struct {
	ID            int64   `json:"id" validate:"required"`
	Name          string  `json:"name" validate:"required,max=200"`
	Description   string  `json:"description" validate:"max=500"`
	Price         float64 `json:"price" validate:"gt=0"`
	StockQuantity int     `json:"stockQuantity" validate:"gte=0"`
	SKU           *string `json:"sku" validate:"omitempty,max=50"`
	IsActive      bool    `json:"isActive"`
}

// DeleteProductCommand removes a product by id. Hard delete, no tombstone.
type DeleteProductCommand struct {
	ID int64 `json:"id" validate:"required"`
}
