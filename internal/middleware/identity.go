package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/taskboardhq/taskboard-api/internal/constants"
	apierrors "github.com/taskboardhq/taskboard-api/internal/errors"
	"github.com/taskboardhq/taskboard-api/internal/models"
)

// RequireIdentity reads the caller-supplied identity headers and stores the
// identity in the request context. There is no authentication here; the
// caller is trusted to have done that.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(constants.HeaderUserID)
		if userID == "" {
			apierrors.Unauthorized(c, "Missing "+constants.HeaderUserID+" header")
			c.Abort()
			return
		}

		role := models.UserRole(c.GetHeader(constants.HeaderUserRole))
		if role != models.RoleAdmin {
			role = models.RoleMember
		}

		c.Set(constants.ContextKeyIdentity, models.Identity{
			ID:   userID,
			Name: c.GetHeader(constants.HeaderUserName),
			Role: role,
		})
		c.Next()
	}
}

// GetIdentity returns the identity stored by RequireIdentity.
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := value.(models.Identity)
	return identity, ok
}
