package middleware

import (
	"net/http"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/response"
	"github.com/gin-gonic/gin"
)

// RequirePermission checks that the JWT grants the permission.
func RequirePermission(code model.Permission) gin.HandlerFunc {
	return RequireAnyPermission(code)
}

// RequireAnyPermission checks that the JWT grants at least one of the permissions.
func RequireAnyPermission(codes ...model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, code := range codes {
			if model.HasPermission(claims.Permissions, code) {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
	}
}
