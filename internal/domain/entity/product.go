package entity

import "time"

// Product is the sample catalog entity managed through the command pipeline.
// Price and stock bounds are enforced at validation time, not here.
type Product struct {
	Audit

	Name          string     `db:"name" json:"name"`
	Description   string     `db:"description" json:"description"`
	Price         float64    `db:"price" json:"price"`
	StockQuantity int        `db:"stock_quantity" json:"stockQuantity"`
	SKU           *string    `db:"sku" json:"sku"`
	IsActive      bool       `db:"is_active" json:"isActive"`
	CreatedAt     *time.Time `db:"created_at" json:"createdAt"`
	ImageURL      *string    `db:"image_url" json:"imageUrl"`
}

// InStock reports whether the product can currently be sold.
func (p *Product) InStock() bool {
	return p.IsActive && p.StockQuantity > 0
}
