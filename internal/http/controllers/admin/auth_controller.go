package admin

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/backoffice/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/backoffice/internal/http/errors"
	"github.com/dropDatabas3/backoffice/internal/http/helpers"
	svc "github.com/dropDatabas3/backoffice/internal/http/services/admin"
	"github.com/dropDatabas3/backoffice/internal/observability/logger"
)

// AuthController maneja /admin/auth.
type AuthController struct {
	service svc.AuthService
}

// NewAuthController crea un nuevo controller de auth.
func NewAuthController(service svc.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Login maneja POST /admin/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("AuthController.Login"),
	)

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("email and password are required"))
		return
	}

	token, exp, err := c.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, svc.ErrInvalidCredentials) {
			httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
			return
		}
		log.Error("login failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
	})
}
