package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"realtyflow/internal/domain"
	"realtyflow/internal/pkg/jwt"
	"realtyflow/internal/pkg/response"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

type tokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// JWTAuth authenticates the bearer token and stores the identity on the
// context under "user_id" and "role".
func JWTAuth(tokens tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		claims, err := tokens.ValidateToken(tokenStr)
		if tokenStr == "" || err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		if !domain.UserRole(claims.Role).Valid() {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Unknown role in token")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)

		c.Next()
	}
}

// Actor returns the authenticated identity set by JWTAuth.
func Actor(c *gin.Context) domain.Actor {
	return domain.Actor{
		UserID: c.GetString(ctxUserID),
		Role:   domain.UserRole(c.GetString(ctxRole)),
	}
}
