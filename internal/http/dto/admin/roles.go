// Package admin define los DTOs del admin API.
package admin

import "time"

// GrantPayload es un permiso (menú, código) en requests y responses.
type GrantPayload struct {
	MenuID string `json:"menu_id"`
	Code   string `json:"code"`
}

// RoleCreateRequest es el body de POST /admin/roles.
type RoleCreateRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Grants      []GrantPayload `json:"grants"`
}

// RoleUpdateRequest es el body de PUT /admin/roles/{id}.
type RoleUpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Disabled    *bool  `json:"disabled,omitempty"`
}

// RoleGrantsRequest es el body de PUT /admin/roles/{id}/grants.
type RoleGrantsRequest struct {
	Grants []GrantPayload `json:"grants"`
}

// RoleResponse representa un rol en responses.
type RoleResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Disabled    bool           `json:"disabled"`
	Grants      []GrantPayload `json:"grants"`
	CreatedAt   time.Time      `json:"created_at"`
}
