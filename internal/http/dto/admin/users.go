package admin

import "time"

// UserCreateRequest es el body de POST /admin/users.
type UserCreateRequest struct {
	Email       string   `json:"email"`
	FullName    string   `json:"full_name"`
	Password    string   `json:"password"`
	RoleIDs     []string `json:"role_ids"`
	DirectPerms []string `json:"direct_permissions"`
}

// UserRolesRequest es el body de PUT /admin/users/{id}/roles.
type UserRolesRequest struct {
	RoleIDs []string `json:"role_ids"`
}

// UserDirectPermsRequest es el body de PUT /admin/users/{id}/permissions.
type UserDirectPermsRequest struct {
	Codes []string `json:"codes"`
}

// UserDisableRequest es el body de PATCH /admin/users/{id}/status.
type UserDisableRequest struct {
	Disabled bool `json:"disabled"`
}

// UserRoleResponse es un rol asignado visto desde el usuario (con el
// nombre/estado cacheado al momento de la última sincronización).
type UserRoleResponse struct {
	RoleID   string `json:"role_id"`
	Name     string `json:"name"`
	Disabled bool   `json:"disabled"`
}

// UserPermissionResponse es una entrada del ledger de permisos, con la
// atribución a los roles que la aportan.
type UserPermissionResponse struct {
	Code    string   `json:"code"`
	Direct  bool     `json:"direct"`
	Sources []string `json:"source_role_ids"`
}

// UserResponse representa un usuario en responses.
type UserResponse struct {
	ID          string                   `json:"id"`
	Email       string                   `json:"email"`
	FullName    string                   `json:"full_name"`
	Disabled    bool                     `json:"disabled"`
	Roles       []UserRoleResponse       `json:"roles"`
	Permissions []UserPermissionResponse `json:"permissions"`
	CreatedAt   time.Time                `json:"created_at"`
}
