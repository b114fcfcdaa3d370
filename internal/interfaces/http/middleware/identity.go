package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/lifeos/backend/internal/application/identity"
	"github.com/lifeos/backend/internal/infrastructure/logger"
	"github.com/lifeos/backend/internal/interfaces/http/dto"
)

// UserIDKey is the gin context key for the resolved local user id
const UserIDKey = "user_id"

// ResolveUser exchanges validated token claims for a local user, creating
// the account on first contact. Runs after TokenAuth; requests that skipped
// authentication pass through untouched.
func ResolveUser(userService *appidentity.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.Next()
			return
		}

		user, err := userService.Provision(c.Request.Context(), claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.ErrCodeInternal, "Failed to resolve user account"))
			return
		}

		c.Set(UserIDKey, user.ID)
		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), user.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetUserID returns the resolved local user id for the request
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	if v, ok := c.Get(UserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}
