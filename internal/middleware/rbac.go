package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/campusforge/timetable-scheduler/internal/models"
	appErrors "github.com/campusforge/timetable-scheduler/pkg/errors"
	"github.com/campusforge/timetable-scheduler/pkg/response"
)

// RBAC enforces role-based access control for routes, given the roles
// permitted to call them.
func RBAC(allowed ...models.ServiceRole) gin.HandlerFunc {
	permitted := make(map[models.ServiceRole]struct{}, len(allowed))
	for _, r := range allowed {
		permitted[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := claimsValue.(*models.ServiceClaims)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := permitted[claims.Role]; ok {
			c.Next()
			return
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}
