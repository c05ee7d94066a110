// Package admin contiene los services administrativos.
package admin

import (
	"github.com/dropDatabas3/backoffice/internal/cache"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
	jwtx "github.com/dropDatabas3/backoffice/internal/jwt"
)

// Deps contiene las dependencias para crear los services admin.
type Deps struct {
	Roles  repository.RoleRepository
	Users  repository.UserRepository
	Menus  repository.MenuRepository
	Cache  cache.Client
	Issuer *jwtx.Issuer
}

// Services agrupa todos los services del dominio admin.
type Services struct {
	Auth  AuthService
	Roles RoleService
	Users UserService
	Menus MenuService
}

// NewServices crea el agregador de services admin.
func NewServices(d Deps) Services {
	return Services{
		Auth:  NewAuthService(d.Users, d.Issuer),
		Roles: NewRoleService(d.Roles, d.Menus),
		Users: NewUserService(d.Users, d.Roles),
		Menus: NewMenuService(d.Menus, d.Cache),
	}
}
