package admin

import "time"

// MenuRequest es el body de POST /admin/menus y PUT /admin/menus/{id}.
type MenuRequest struct {
	Name      string  `json:"name"`
	ParentID  *string `json:"parent_id,omitempty"`
	Path      string  `json:"path"`
	Icon      string  `json:"icon"`
	SortOrder int     `json:"sort_order"`
	Hidden    bool    `json:"hidden"`
}

// MenuResponse representa un menú en responses.
type MenuResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ParentID  *string `json:"parent_id,omitempty"`
	Path      string  `json:"path"`
	Icon      string  `json:"icon"`
	SortOrder int     `json:"sort_order"`
	Hidden    bool    `json:"hidden"`
	CreatedAt time.Time `json:"created_at"`
}
