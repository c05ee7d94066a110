// Package admin contiene los controllers del admin API.
package admin

import svc "github.com/dropDatabas3/backoffice/internal/http/services/admin"

// Controllers agrupa todos los controllers del dominio admin.
type Controllers struct {
	Auth  *AuthController
	Roles *RolesController
	Users *UsersController
	Menus *MenusController
}

// NewControllers crea el agregador de controllers admin.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Auth:  NewAuthController(s.Auth),
		Roles: NewRolesController(s.Roles),
		Users: NewUsersController(s.Users),
		Menus: NewMenusController(s.Menus),
	}
}
