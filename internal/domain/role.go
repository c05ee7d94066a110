package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxRoleNameLen        = 50
	maxRoleDescriptionLen = 200
)

// Role es el aggregate que representa un rol administrable: la fuente de
// verdad normalizada de qué permisos confiere sobre qué menús.
//
// Las mutaciones emiten RoleEvents que quedan buffereados en el aggregate;
// el service los drena con PullEvents() y los persiste en el outbox dentro
// de la misma transacción que el Save. La unicidad del nombre entre roles
// no eliminados la valida el service contra el read model, no el aggregate.
type Role struct {
	ID          uuid.UUID
	Name        string
	Description string
	Disabled    bool
	Grants      GrantSet
	Deleted     bool
	CreatedAt   time.Time

	events []RoleEvent
}

// NewRole crea un rol con su set inicial de grants (dedup last-wins).
// No emite evento: un rol recién creado no tiene usuarios que sincronizar.
func NewRole(name, description string, grants []Grant) (*Role, error) {
	name = strings.TrimSpace(name)
	if err := validateRoleFields(name, description); err != nil {
		return nil, err
	}
	return &Role{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Grants:      NewGrantSet(grants),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// UpdateInfo sobrescribe nombre y descripción; si disabled no es nil,
// también el flag. Siempre emite RoleInfoChanged, aunque ningún campo
// difiera: cada llamada exitosa se trata como un cambio y el downstream
// es idempotente.
func (r *Role) UpdateInfo(name, description string, disabled *bool) error {
	if r.Deleted {
		return ErrRoleDeleted
	}
	name = strings.TrimSpace(name)
	if err := validateRoleFields(name, description); err != nil {
		return err
	}
	r.Name = name
	r.Description = description
	if disabled != nil {
		r.Disabled = *disabled
	}
	r.raise(RoleEventInfoChanged)
	return nil
}

// ReplaceGrants reconstruye el GrantSet desde la entrada (dedup last-wins
// de nuevo), reemplazando por completo el set anterior. Emite
// RolePermissionChanged.
func (r *Role) ReplaceGrants(grants []Grant) error {
	if r.Deleted {
		return ErrRoleDeleted
	}
	r.Grants = NewGrantSet(grants)
	r.raise(RoleEventPermissionChanged)
	return nil
}

// Delete marca el rol como eliminado (soft-delete) y emite RoleDeleted.
// Falla con ErrRoleDeleted si ya estaba eliminado. Los grants no se
// limpian: el rol queda lógicamente fuera pero sus filas persisten.
func (r *Role) Delete() error {
	if r.Deleted {
		return ErrRoleDeleted
	}
	r.Deleted = true
	r.raise(RoleEventDeleted)
	return nil
}

// PullEvents drena los eventos buffereados. El caller (service) los escribe
// en el outbox junto con el Save del aggregate.
func (r *Role) PullEvents() []RoleEvent {
	evs := r.events
	r.events = nil
	return evs
}

// Snapshot retorna la foto actual del rol para eventos.
func (r *Role) Snapshot() RoleSnapshot {
	return RoleSnapshot{
		ID:       r.ID,
		Name:     r.Name,
		Disabled: r.Disabled,
		Grants:   r.Grants.List(),
	}
}

func (r *Role) raise(kind RoleEventKind) {
	r.events = append(r.events, RoleEvent{
		Kind:       kind,
		Role:       r.Snapshot(),
		OccurredAt: time.Now().UTC(),
	})
}

func validateRoleFields(name, description string) error {
	if name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxRoleNameLen {
		return ErrNameTooLong
	}
	if utf8.RuneCountInString(description) > maxRoleDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}
