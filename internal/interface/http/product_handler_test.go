package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"go-clean-api/internal/application/product"
	"go-clean-api/internal/interface/middleware"
)

func newTestRouter(t *testing.T, h *ProductHandler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	r := gin.New()
	r.Use(middleware.ErrorHandler(logger, false))
	r.PUT("/api/products/:id", h.Update)
	r.GET("/api/products/search", h.Search)
	r.GET("/api/products/:id", h.Get)
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) middleware.ErrorBody {
	t.Helper()
	var body middleware.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestProductHandlerGuards(t *testing.T) {
	t.Parallel()
	h := NewProductHandler(nil, nil, nil, "", logrus.New())

	t.Run("update rejects id mismatch before dispatch", func(t *testing.T) {
		r := newTestRouter(t, h)
		payload := `{"id":2,"name":"Keyboard","price":10,"stockQuantity":1,"isActive":true}`
		req := httptest.NewRequest(http.MethodPut, "/api/products/1", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		require.Equal(t, http.StatusBadRequest, body.Status)
		require.Equal(t, "Bad Request", body.Error)
		require.Equal(t, "/api/products/1", body.Path)
		require.Contains(t, body.Message, "does not match")
		require.False(t, body.Timestamp.IsZero())
	})

	t.Run("update rejects malformed json", func(t *testing.T) {
		r := newTestRouter(t, h)
		req := httptest.NewRequest(http.MethodPut, "/api/products/1", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-numeric id is a bad request", func(t *testing.T) {
		r := newTestRouter(t, h)
		req := httptest.NewRequest(http.MethodGet, "/api/products/abc", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("search requires a query", func(t *testing.T) {
		r := newTestRouter(t, h)
		req := httptest.NewRequest(http.MethodGet, "/api/products/search", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("search degrades to empty results without an index", func(t *testing.T) {
		withIndexer := NewProductHandler(nil, product.NewIndexer(nil, "", logrus.New()), nil, "", logrus.New())
		r := newTestRouter(t, withIndexer)
		req := httptest.NewRequest(http.MethodGet, "/api/products/search?q=keyboard", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Query   string           `json:"query"`
			Results []map[string]any `json:"results"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "keyboard", body.Query)
		require.Empty(t, body.Results)
	})
}
