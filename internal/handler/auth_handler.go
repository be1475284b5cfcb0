package handler

import (
	"net/http"

	"github.com/campusdesk/erp-backend/internal/middleware"
	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/response"
	"github.com/campusdesk/erp-backend/internal/service"
	"github.com/campusdesk/erp-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService    *service.AuthService
	accountService *service.AccountService
	log            zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, accountService *service.AccountService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		accountService: accountService,
		log:            log.With().Str("component", "auth_handler").Logger(),
	}
}

// Login godoc
// POST /api/v1/auth/login
// Validates email + password, returns a JWT carrying the role's permissions.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, err := h.accountService.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(account.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	permissions, err := h.accountService.GetPermissions(c.Request.Context(), account.RoleID)
	if err != nil {
		h.log.Error().Err(err).Int("account_id", account.ID).Msg("Failed to load permissions")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	token, expiresAt, err := h.authService.GenerateToken(account, permissions)
	if err != nil {
		h.log.Error().Err(err).Int("account_id", account.ID).Msg("Failed to sign token")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.log.Info().Int("account_id", account.ID).Str("role", account.RoleName).Msg("Account signed in")
	response.Success(c, http.StatusOK, model.LoginResponse{
		Token:       token,
		ExpiresAt:   expiresAt,
		Account:     *account,
		Permissions: permissions,
	})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the profile and permissions of the signed-in account.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	account, err := h.accountService.GetByID(c.Request.Context(), claims.AccountID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, model.AccountProfile{
		Account:     *account,
		Permissions: claims.Permissions,
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Revokes the presented token until it would have expired.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.RevokeToken(c.Request.Context(), claims); err != nil {
		h.log.Error().Err(err).Int("account_id", claims.AccountID).Msg("Failed to revoke token")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
