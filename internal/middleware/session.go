package middleware

import (
	"errors"
	"net/http"

	"github.com/campusdesk/erp-backend/internal/response"
	"github.com/campusdesk/erp-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// RejectRevokedTokens refuses tokens that were logged out before expiring.
// It must run after RequireJWT or RequireWSAuth.
func RejectRevokedTokens(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		err := authService.CheckNotRevoked(c.Request.Context(), claims)
		if errors.Is(err, service.ErrTokenRevoked) {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRevoked)
			return
		}
		if err != nil {
			response.AbortFail(c, http.StatusServiceUnavailable, response.ErrInternal)
			return
		}

		c.Next()
	}
}
