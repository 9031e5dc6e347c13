package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spazahub/spaza_api/internal/models"
	"github.com/spazahub/spaza_api/internal/utils"
)

type JWTMiddleware struct{}

func NewJWTMiddleware() *JWTMiddleware {
	return &JWTMiddleware{}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("account_id", claims.AccountID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole rejects requests whose token does not carry the given role.
// It must run after Handle.
func (m *JWTMiddleware) RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != string(role) {
			utils.Error(c, 403, "FORBIDDEN", "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Actor returns the policy actor for the authenticated request.
func Actor(c *gin.Context) (int, models.Role) {
	return c.GetInt("account_id"), models.Role(c.GetString("role"))
}
