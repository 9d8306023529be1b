package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-clean-api/pkg/helpers"
)

// Context keys populated by RequireAuth.
const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
	CtxUserName  = "userName"
	CtxUserRoles = "userRoles"
)

// RequireAuth validates the Authorization bearer token and loads the caller's
// identity into the gin context. The authenticated user id also becomes the
// audit actor on the request context.
func RequireAuth(jwtm *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			writeError(c, http.StatusUnauthorized, "Missing or malformed authorization header", nil)
			return
		}
		claims, err := jwtm.Parse(token)
		if err != nil {
			writeError(c, http.StatusUnauthorized, "Invalid or expired token", nil)
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxUserEmail, claims.Email)
		c.Set(CtxUserName, claims.FullName)
		c.Set(CtxUserRoles, claims.Roles)

		c.Request = c.Request.WithContext(helpers.WithActor(c.Request.Context(), claims.Subject))
		c.Next()
	}
}

// RequireRoles allows the request through when the caller holds at least one
// of the given roles. Must run after RequireAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		held, _ := c.Get(CtxUserRoles)
		heldRoles, _ := held.([]string)
		for _, want := range roles {
			for _, have := range heldRoles {
				if have == want {
					c.Next()
					return
				}
			}
		}
		writeError(c, http.StatusForbidden, "Insufficient permissions", nil)
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
