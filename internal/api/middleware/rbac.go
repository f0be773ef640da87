package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NewTime-Creator/radio-app/internal/models"
)

// RequireRole gates a route on the caller's role claim. Admins pass
// every gate. Must run after RequireAuth, which sets user_role.
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Value("user_role").(string)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Role context missing"})
			return
		}

		if role == models.RoleAdmin || contains(allowed, role) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
	}
}

func contains(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
