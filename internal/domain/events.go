package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoleEventKind identifica el tipo de cambio sobre un rol.
// Los tres tipos se despachan con un switch exhaustivo en el synchronizer;
// no hay jerarquía de handlers.
type RoleEventKind string

const (
	// RoleEventDeleted se emite cuando un rol se elimina (soft-delete).
	RoleEventDeleted RoleEventKind = "role.deleted"

	// RoleEventInfoChanged se emite en cada UpdateInfo exitoso, incluso si
	// ningún campo cambió realmente. La sincronización downstream es
	// idempotente, así que no hay dirty-check.
	RoleEventInfoChanged RoleEventKind = "role.info_changed"

	// RoleEventPermissionChanged se emite cuando se reemplaza el GrantSet.
	RoleEventPermissionChanged RoleEventKind = "role.permission_changed"
)

// RoleSnapshot es la foto del rol al momento del evento. El evento viaja
// por el outbox como JSON, por eso no referencia al aggregate vivo.
type RoleSnapshot struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Disabled bool      `json:"disabled"`
	Grants   []Grant   `json:"grants,omitempty"`
}

// RoleEvent es la notificación de cambio que emite el aggregate Role.
// Se entrega al synchronizer at-least-once, después de que la mutación
// del rol fue persistida.
type RoleEvent struct {
	Kind       RoleEventKind `json:"kind"`
	Role       RoleSnapshot  `json:"role"`
	OccurredAt time.Time     `json:"occurred_at"`
}
