package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// RequireUser pulls the authenticated user id injected by the upstream
// identity proxy. This service never authenticates on its own.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-ID header"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// HealthCheck is the GET /health endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
