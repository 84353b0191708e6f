package middleware

import (
	"net/http"
	"strings"

	"coursecatalog/internal/infrastructure/security"

	"github.com/gin-gonic/gin"
)

// AdminAuth gates the authoring endpoints behind the admin credential
// from config (stored as a bcrypt hash).
func AdminAuth(hasher *security.PasswordHasher, passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if passwordHash == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access not configured"})
			return
		}

		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		if err := hasher.Compare(passwordHash, parts[1]); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.Next()
	}
}
