package middleware

import (
	"net/http"
	"strings"

	"autocare/models"
	"autocare/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	ContextActorID   = "actorID"
	ContextActorRole = "actorRole"
)

// AuthMiddleware validates the bearer token and stores the actor's
// identity and role on the request context. Session issuance and account
// management live in the identity service; this only verifies the claims
// the booking engine needs.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subject, role, err := utils.ExtractIdentityFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if !models.Role(role).Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown role in token"})
			return
		}

		c.Set(ContextActorID, subject)
		c.Set(ContextActorRole, role)
		c.Next()
	}
}

// RequireRole allows only the given roles past this point.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := models.Role(c.GetString(ContextActorRole))
		for _, r := range roles {
			if current == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
	}
}
