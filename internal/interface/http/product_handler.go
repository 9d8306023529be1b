package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"

	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"go-clean-api/internal/application/apperrors"
	"go-clean-api/internal/application/product"
	"go-clean-api/internal/domain/repository"
	"go-clean-api/internal/infrastructure/postgres"
	"go-clean-api/pkg/helpers"
)

func badPayload(c *gin.Context) {
	_ = c.Error(apperrors.NewBadRequest("Malformed request payload"))
}

// ProductHandler exposes the product endpoints. Each mutating request runs
// against its own unit of work, committed exactly once before the response
// renders; the search index is refreshed best-effort after commit.
type ProductHandler struct {
	Pool    *pgxpool.Pool
	Indexer *product.Indexer
	Storage *storage.Client
	Bucket  string
	Logger  *logrus.Logger
}

func NewProductHandler(pool *pgxpool.Pool, indexer *product.Indexer, gcs *storage.Client, bucket string, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Pool: pool, Indexer: indexer, Storage: gcs, Bucket: bucket, Logger: logger}
}

func (h *ProductHandler) repo() *postgres.ProductRepository {
	return postgres.NewProductRepository(postgres.NewUnitOfWork(h.Pool))
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		_ = c.Error(apperrors.NewBadRequest("Invalid product id"))
		return 0, false
	}
	return id, true
}

func (h *ProductHandler) List(c *gin.Context) {
	dtos, err := product.NewGetAllProductsHandler(h.repo()).Handle(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dtos)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	dto, err := product.NewGetProductByIDHandler(h.repo()).Handle(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var cmd product.CreateProductCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badPayload(c)
		return
	}

	ctx := c.Request.Context()
	uow := postgres.NewUnitOfWork(h.Pool)
	repo := postgres.NewProductRepository(uow)

	p, err := product.NewCreateProductHandler(repo).Handle(ctx, cmd)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := uow.Commit(ctx); err != nil {
		_ = c.Error(err)
		return
	}

	h.reindex(c, p.ID)
	c.JSON(http.StatusCreated, gin.H{"id": p.ID})
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	var cmd product.UpdateProductCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badPayload(c)
		return
	}
	// Route and payload must agree before anything is dispatched.
	if cmd.ID != id {
		_ = c.Error(apperrors.NewBadRequest("Route id does not match payload id"))
		return
	}

	ctx := c.Request.Context()
	uow := postgres.NewUnitOfWork(h.Pool)
	repo := postgres.NewProductRepository(uow)

	if err := product.NewUpdateProductHandler(repo).Handle(ctx, cmd); err != nil {
		_ = c.Error(err)
		return
	}
	if err := uow.Commit(ctx); err != nil {
		_ = c.Error(err)
		return
	}

	h.reindex(c, id)
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	uow := postgres.NewUnitOfWork(h.Pool)
	repo := postgres.NewProductRepository(uow)

	if err := product.NewDeleteProductHandler(repo).Handle(ctx, product.DeleteProductCommand{ID: id}); err != nil {
		_ = c.Error(err)
		return
	}
	if err := uow.Commit(ctx); err != nil {
		_ = c.Error(err)
		return
	}

	if h.Indexer != nil {
		h.Indexer.RemoveProduct(ctx, id)
	}
	c.Status(http.StatusNoContent)
}

// UploadImage stores the uploaded file in the bucket and records its public
// URL on the product.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	if h.Storage == nil || h.Bucket == "" {
		_ = c.Error(apperrors.NewBadRequest("Image storage is not configured"))
		return
	}
	id, ok := productID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		_ = c.Error(apperrors.NewBadRequest("An image file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	uow := postgres.NewUnitOfWork(h.Pool)
	repo := postgres.NewProductRepository(uow)

	ent, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = apperrors.NewNotFound("Product", id)
		}
		_ = c.Error(err)
		return
	}

	object := fmt.Sprintf("products/%d/%s%s", id, uuid.NewString(), path.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")
	url, err := helpers.UploadObject(ctx, h.Storage, h.Bucket, object, contentType, file)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ent.ImageURL = &url
	if err := repo.Update(ctx, ent); err != nil {
		_ = c.Error(err)
		return
	}
	if err := uow.Commit(ctx); err != nil {
		_ = c.Error(err)
		return
	}

	h.reindex(c, id)
	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}

// Search queries the product index. Falls back to an empty result set when
// search is not configured.
func (h *ProductHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		_ = c.Error(apperrors.NewBadRequest("Query parameter q is required"))
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Indexer.Search(c.Request.Context(), q, size)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if hits == nil {
		hits = []map[string]any{}
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "results": hits})
}

// reindex refreshes the search document after a committed write. Failures
// are logged inside the indexer and never fail the request.
func (h *ProductHandler) reindex(c *gin.Context, id int64) {
	if h.Indexer == nil {
		return
	}
	ctx := c.Request.Context()
	dto, err := product.NewGetProductByIDHandler(h.repo()).Handle(ctx, id)
	if err != nil {
		h.Logger.WithError(err).WithField("product_id", id).Warn("reindex lookup failed")
		return
	}
	h.Indexer.IndexProduct(ctx, *dto)
}
