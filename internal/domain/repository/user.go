package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropDatabas3/backoffice/internal/domain"
)

// UserRepository define load/save del aggregate User, incluyendo sus
// membresías y su ledger de permisos. Save reemplaza transaccionalmente
// las filas propiedad del aggregate (last-write-wins, suficiente porque
// toda sincronización es idempotente).
type UserRepository interface {
	// Get carga un usuario por ID. Retorna ErrNotFound si no existe o está
	// eliminado.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail carga un usuario por email (lowercased).
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Save persiste el usuario, sus membresías y su ledger atómicamente.
	Save(ctx context.Context, user *domain.User) error

	// List retorna los usuarios no eliminados, ordenados por email.
	List(ctx context.Context) ([]*domain.User, error)
}

// MembershipReader resuelve la relación rol → usuarios por query, no por
// back-reference en el aggregate. El resultado refleja membresías
// comiteadas al momento de la llamada; un snapshot levemente viejo es
// aceptable (el usuario que entra/sale después queda cubierto por el path
// de cambio de membresía).
type MembershipReader interface {
	UsersHoldingRole(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error)
}
