package admin

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dropDatabas3/backoffice/internal/domain"
	dto "github.com/dropDatabas3/backoffice/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/backoffice/internal/http/errors"
)

func toRoleResponse(r *domain.Role) dto.RoleResponse {
	grants := r.Grants.List()
	gs := make([]dto.GrantPayload, 0, len(grants))
	for _, g := range grants {
		gs = append(gs, dto.GrantPayload{MenuID: g.MenuID.String(), Code: g.Code})
	}
	return dto.RoleResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		Disabled:    r.Disabled,
		Grants:      gs,
		CreatedAt:   r.CreatedAt,
	}
}

func toUserResponse(u *domain.User) dto.UserResponse {
	roles := make([]dto.UserRoleResponse, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, dto.UserRoleResponse{
			RoleID:   r.RoleID.String(),
			Name:     r.Name,
			Disabled: r.Disabled,
		})
	}

	entries := u.Ledger.Entries()
	perms := make([]dto.UserPermissionResponse, 0, len(entries))
	for _, e := range entries {
		srcs := e.Sources()
		ids := make([]string, 0, len(srcs))
		for _, s := range srcs {
			ids = append(ids, s.String())
		}
		perms = append(perms, dto.UserPermissionResponse{
			Code:    e.Code,
			Direct:  e.Direct,
			Sources: ids,
		})
	}

	return dto.UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		FullName:    u.FullName,
		Disabled:    u.Disabled,
		Roles:       roles,
		Permissions: perms,
		CreatedAt:   u.CreatedAt,
	}
}

func toMenuResponse(m *domain.Menu) dto.MenuResponse {
	var parent *string
	if m.ParentID != nil {
		s := m.ParentID.String()
		parent = &s
	}
	return dto.MenuResponse{
		ID:        m.ID.String(),
		Name:      m.Name,
		ParentID:  parent,
		Path:      m.Path,
		Icon:      m.Icon,
		SortOrder: m.SortOrder,
		Hidden:    m.Hidden,
		CreatedAt: m.CreatedAt,
	}
}

// parseGrants convierte los payloads (menu_id string) a domain.Grant.
func parseGrants(in []dto.GrantPayload) ([]domain.Grant, error) {
	out := make([]domain.Grant, 0, len(in))
	for _, p := range in {
		id, err := uuid.Parse(p.MenuID)
		if err != nil {
			return nil, httperrors.ErrValidation.WithDetail(fmt.Sprintf("invalid menu_id %q", p.MenuID))
		}
		out = append(out, domain.Grant{MenuID: id, Code: p.Code})
	}
	return out, nil
}

// parseUUIDs convierte una lista de IDs string, rechazando los malformados.
func parseUUIDs(in []string, field string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(in))
	for _, s := range in {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, httperrors.ErrValidation.WithDetail(fmt.Sprintf("invalid %s %q", field, s))
		}
		out = append(out, id)
	}
	return out, nil
}

// pathID extrae y valida el parámetro de ruta {id}.
func pathID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, httperrors.ErrBadRequest.WithDetail(fmt.Sprintf("invalid id %q", raw))
	}
	return id, nil
}
