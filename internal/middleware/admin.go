package middleware

import (
	"net/http"

	portssvc "github.com/goldenlabs/golden_gold_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// AdminOnly gates the approval console: the authenticated user must resolve
// to a seeded identity with the admin role. Runs after AuthMiddleware.
func AdminOnly(userService portssvc.UserSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			logger.Error("User ID not found in context for admin check")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		user, err := userService.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			logger.Warn("Admin check failed to resolve user")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !user.IsAdmin() {
			logger.Warn("Non-admin attempted admin operation")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Next()
	}
}
