package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const ViewerEmailKey = "viewerEmail"

// SessionValidator checks a viewer session token and returns the
// verified email behind it.
type SessionValidator interface {
	ValidateSession(token string) (string, error)
}

// ViewerSession extracts an optional viewer session from the
// Authorization header. Public pages stay reachable without one; the
// handlers decide what a gated viewer gets to see.
func ViewerSession(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		email, err := validator.ValidateSession(parts[1])
		if err == nil && email != "" {
			c.Set(ViewerEmailKey, email)
		}
		c.Next()
	}
}
