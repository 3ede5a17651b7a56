package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/sadeem-labs/staffing-api/internal/models"
	appErrors "github.com/sadeem-labs/staffing-api/pkg/errors"
	"github.com/sadeem-labs/staffing-api/pkg/response"
)

// RequireRoles enforces role-based access for a route. Runs after JWT.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claims := CurrentUser(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
