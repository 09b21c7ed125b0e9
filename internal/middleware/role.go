package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realtyflow/internal/domain"
	"realtyflow/internal/pkg/response"
)

// RequireRoles ensures that the authenticated user has one of roles.
func RequireRoles(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxRole)
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		actor := domain.Actor{Role: domain.UserRole(role.(string))}
		if !actor.HasRole(roles...) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

var (
	// ManagerRoles may change projects, towers and partners.
	ManagerRoles = []domain.UserRole{domain.RoleMaster, domain.RoleDeveloperHQ}
	// ApproverRoles may close deals and delete records.
	ApproverRoles = []domain.UserRole{domain.RoleMaster, domain.RoleDeveloperHQ, domain.RoleSalesAdmin}
)

func Managers() gin.HandlerFunc {
	return RequireRoles(ManagerRoles...)
}

func Approvers() gin.HandlerFunc {
	return RequireRoles(ApproverRoles...)
}
