package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/informs-api/internal/models"
	appErrors "github.com/noah-isme/informs-api/pkg/errors"
	"github.com/noah-isme/informs-api/pkg/response"
)

// ContextClaimsKey is the gin context key storing JWT claims.
const ContextClaimsKey = "tokenClaims"

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// RequireWriteToken demands a valid bearer token on mutating requests.
// Reads always pass. When enabled is false the middleware is a no-op.
func RequireWriteToken(validator tokenValidator, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled || validator == nil || isReadOnly(c.Request.Method) {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

func isReadOnly(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
