package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopstock/internal/models"
	"shopstock/internal/service"
	"shopstock/internal/token"
)

// AuthMiddleware verifies the bearer token and threads the user identity
// through the request context for the service layer.
func AuthMiddleware(tokens *token.HSProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, newError("unauthorized", "authorization header missing"))
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		uid, role, err := tokens.ParseAccess(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, newError("unauthorized", "invalid or expired token"))
			return
		}

		ctx := service.WithUserID(c.Request.Context(), uid)
		ctx = service.WithRole(ctx, models.Role(role))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
