package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-clean-api/internal/application/apperrors"
)

// ErrorBody is the uniform error payload every failed request renders.
type ErrorBody struct {
	Timestamp        time.Time           `json:"timestamp"`
	Path             string              `json:"path"`
	Status           int                 `json:"status"`
	Error            string              `json:"error"`
	Message          string              `json:"message"`
	ValidationErrors map[string][]string `json:"validationErrors,omitempty"`
}

func writeError(c *gin.Context, status int, message string, validationErrors map[string][]string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Timestamp:        time.Now().UTC(),
		Path:             c.Request.URL.Path,
		Status:           status,
		Error:            http.StatusText(status),
		Message:          message,
		ValidationErrors: validationErrors,
	})
}

// ErrorHandler converts errors attached to the gin context into the uniform
// error body, and recovers panics into a 500. Internal error detail leaks
// into the message only in development.
func ErrorHandler(logger *logrus.Logger, development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(logrus.Fields{
					"panic": r,
					"path":  c.Request.URL.Path,
				}).Error("panic recovered")
				writeError(c, http.StatusInternalServerError, "An unexpected error occurred", nil)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		renderError(c, logger, development, err)
	}
}

func renderError(c *gin.Context, logger *logrus.Logger, development bool, err error) {
	var badReq *apperrors.BadRequestError
	var notFound *apperrors.NotFoundError
	var unauthorized *apperrors.UnauthorizedError

	switch {
	case errors.As(err, &badReq):
		writeError(c, http.StatusBadRequest, badReq.Message, badReq.ValidationErrors)
	case errors.As(err, &notFound):
		writeError(c, http.StatusNotFound, notFound.Error(), nil)
	case errors.As(err, &unauthorized):
		writeError(c, http.StatusUnauthorized, unauthorized.Error(), nil)
	default:
		logger.WithError(err).WithField("path", c.Request.URL.Path).Error("unhandled error")
		msg := "An unexpected error occurred"
		if development {
			msg = err.Error()
		}
		writeError(c, http.StatusInternalServerError, msg, nil)
	}
}
