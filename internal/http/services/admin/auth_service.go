package admin

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/backoffice/internal/domain/repository"
	jwtx "github.com/dropDatabas3/backoffice/internal/jwt"
	"github.com/dropDatabas3/backoffice/internal/observability/logger"
	"github.com/dropDatabas3/backoffice/internal/security/password"
)

// ErrInvalidCredentials cubre email inexistente, password incorrecta y
// cuenta deshabilitada, sin distinguirlos hacia afuera.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService emite access tokens para el back office.
type AuthService interface {
	Login(ctx context.Context, email, plainPassword string) (token string, expiresAt time.Time, err error)
}

const componentAuth = "admin.auth"

type authService struct {
	users  repository.UserRepository
	issuer *jwtx.Issuer
}

// NewAuthService crea un nuevo servicio de autenticación.
func NewAuthService(users repository.UserRepository, issuer *jwtx.Issuer) AuthService {
	return &authService{users: users, issuer: issuer}
}

func (s *authService) Login(ctx context.Context, email, plainPassword string) (string, time.Time, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentAuth),
		logger.Op("Login"),
		logger.Email(email),
	)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Warn("login failed: unknown email")
			return "", time.Time{}, ErrInvalidCredentials
		}
		log.Error("user lookup failed", logger.Err(err))
		return "", time.Time{}, err
	}

	if user.Disabled || !password.Verify(plainPassword, user.PasswordHash) {
		log.Warn("login failed: bad password or disabled account")
		return "", time.Time{}, ErrInvalidCredentials
	}

	// El token lleva los permisos materializados del ledger: un login
	// posterior a una sincronización ya ve los permisos nuevos.
	token, exp, err := s.issuer.Sign(user.ID, user.Email, user.Permissions())
	if err != nil {
		log.Error("token sign failed", logger.Err(err))
		return "", time.Time{}, err
	}

	log.Info("login ok", logger.UserID(user.ID.String()))
	return token, exp, nil
}
