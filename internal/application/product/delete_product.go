package product

import (
	"context"
	"errors"

	"go-clean-api/internal/application/apperrors"
	"go-clean-api/internal/domain/repository"
)

// DeleteProductHandler handles DeleteProductCommand. Hard delete.
type DeleteProductHandler struct {
	Repo repository.ProductRepository
}

func NewDeleteProductHandler(repo repository.ProductRepository) *DeleteProductHandler {
	return &DeleteProductHandler{Repo: repo}
}

func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) error {
	p, err := h.Repo.GetByID(ctx, cmd.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("Product", cmd.ID)
		}
		return err
	}
	return h.Repo.Delete(ctx, p)
}
