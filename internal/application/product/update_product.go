package product

import (
	"context"
	"errors"

	"go-clean-api/internal/application/apperrors"
	"go-clean-api/internal/domain/repository"
	"go-clean-api/pkg/validation"
)

// UpdateProductHandler handles UpdateProductCommand as a full replacement
// of the existing row.
type UpdateProductHandler struct {
	Repo repository.ProductRepository
}

func NewUpdateProductHandler(repo repository.ProductRepository) *UpdateProductHandler {
	return &UpdateProductHandler{Repo: repo}
}

func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) error {
	errs := validation.Check(cmd)
	errs, err := checkSKUUnique(ctx, h.Repo, cmd.SKU, cmd.ID, errs)
	if err != nil {
		return err
	}
	if errs != nil {
		return apperrors.NewValidation("Invalid Product", errs)
	}

	p, err := h.Repo.GetByID(ctx, cmd.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("Product", cmd.ID)
		}
		return err
	}

	applyUpdate(p, cmd)
	return h.Repo.Update(ctx, p)
}
