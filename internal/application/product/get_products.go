package product

import (
	"context"
	"errors"

	"go-clean-api/internal/application/apperrors"
	"go-clean-api/internal/domain/repository"
)

// GetAllProductsHandler returns every product. No filtering or paging.
type GetAllProductsHandler struct {
	Repo repository.ProductRepository
}

func NewGetAllProductsHandler(repo repository.ProductRepository) *GetAllProductsHandler {
	return &GetAllProductsHandler{Repo: repo}
}

func (h *GetAllProductsHandler) Handle(ctx context.Context) ([]Dto, error) {
	products, err := h.Repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return toDtos(products), nil
}

// GetProductByIDHandler returns one product by id.
type GetProductByIDHandler struct {
	Repo repository.ProductRepository
}

func NewGetProductByIDHandler(repo repository.ProductRepository) *GetProductByIDHandler {
	return &GetProductByIDHandler{Repo: repo}
}

func (h *GetProductByIDHandler) Handle(ctx context.Context, id int64) (*Dto, error) {
	p, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Product", id)
		}
		return nil, err
	}
	dto := toDto(p)
	return &dto, nil
}
