package product

import (
	"context"
	"errors"
	"time"

	"go-clean-api/internal/application/apperrors"
	"go-clean-api/internal/domain/entity"
	"go-clean-api/internal/domain/repository"
	"go-clean-api/pkg/validation"
)

// CreateProductHandler handles CreateProductCommand: validate, map, stage
// the insert. It never commits; the unit of work commits once per request.
type CreateProductHandler struct {
	Repo repository.ProductRepository
}

func NewCreateProductHandler(repo repository.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{Repo: repo}
}

// Handle returns the staged entity; its id is populated when the unit of
// work commits.
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*entity.Product, error) {
	errs := validation.Check(cmd)
	errs, err := checkSKUUnique(ctx, h.Repo, cmd.SKU, 0, errs)
	if err != nil {
		return nil, err
	}
	if errs != nil {
		return nil, apperrors.NewValidation("Invalid Product", errs)
	}

	p := toEntity(cmd)
	now := time.Now().UTC()
	p.CreatedAt = &now

	if err := h.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// checkSKUUnique appends a field error when another product (excluding
// excludeID) already carries the SKU. No-op for empty SKUs.
func checkSKUUnique(ctx context.Context, repo repository.ProductRepository, sku *string, excludeID int64, errs map[string][]string) (map[string][]string, error) {
	if sku == nil || *sku == "" {
		return errs, nil
	}
	existing, err := repo.GetBySKU(ctx, *sku)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errs, nil
		}
		return nil, err
	}
	if existing.ID != excludeID {
		if errs == nil {
			errs = map[string][]string{}
		}
		errs["sku"] = append(errs["sku"], "must be unique")
	}
	return errs, nil
}
