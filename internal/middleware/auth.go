package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/harentsoaR/dentist-platform/internal/models"
	"github.com/harentsoaR/dentist-platform/internal/utils"
)

const identityKey = "identity"

// Authenticate requires a valid bearer token and stores the caller's
// identity on the request context.
func Authenticate(jwt *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := jwt.ValidateJWT(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(identityKey, claims.Identity())
		c.Next()
	}
}

// RequireRole must run after Authenticate.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	names := lo.Map(roles, func(r models.Role, _ int) string { return string(r) })
	return func(c *gin.Context) {
		id := CurrentIdentity(c)
		if !lo.Contains(roles, id.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Access restricted to: " + strings.Join(names, ", "),
			})
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the authenticated caller, or the zero Identity on
// public routes.
func CurrentIdentity(c *gin.Context) models.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(models.Identity); ok {
			return id
		}
	}
	return models.Identity{}
}
