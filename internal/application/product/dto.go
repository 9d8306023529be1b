package product

import "time"

// Dto is the product response shape, including the audit trail.
type Dto struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	StockQuantity int        `json:"stockQuantity"`
	SKU           *string    `json:"sku"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     *time.Time `json:"createdAt"`
	ImageURL      *string    `json:"imageUrl"`
	DateCreated   *time.Time `json:"dateCreated"`
	CreatedBy     *string    `json:"createdBy"`
	DateModified  *time.Time `json:"dateModified"`
	ModifiedBy    *string    `json:"modifiedBy"`
}
