package product

import "go-clean-api/internal/domain/entity"

// Explicit field-to-field mapping between commands, entities and DTOs.
// Server-controlled fields (id, audit trail, image URL) are deliberately
// not mapped from commands.

func toEntity(cmd CreateProductCommand) *entity.Product {
	return &entity.Product{
		Name:          cmd.Name,
		Description:   cmd.Description,
		Price:         cmd.Price,
		StockQuantity: cmd.StockQuantity,
		SKU:           cmd.SKU,
		IsActive:      cmd.IsActive,
	}
}

// applyUpdate overwrites the mutable fields of p with the full replacement
// payload, leaving identity, audit and image fields untouched.
func applyUpdate(p *entity.Product, cmd UpdateProductCommand) {
	p.Name = cmd.Name
	p.Description = cmd.Description
	p.Price = cmd.Price
	p.StockQuantity = cmd.StockQuantity
	p.SKU = cmd.SKU
	p.IsActive = cmd.IsActive
}

func toDto(p *entity.Product) Dto {
	return Dto{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		SKU:           p.SKU,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		ImageURL:      p.ImageURL,
		DateCreated:   p.DateCreated,
		CreatedBy:     p.CreatedBy,
		DateModified:  p.DateModified,
		ModifiedBy:    p.ModifiedBy,
	}
}

func toDtos(ps []*entity.Product) []Dto {
	out := make([]Dto, 0, len(ps))
	for _, p := range ps {
		out = append(out, toDto(p))
	}
	return out
}
