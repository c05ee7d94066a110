package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropDatabas3/backoffice/internal/domain"
)

// RoleRepository define load/save del aggregate Role.
//
// Save persiste el aggregate y encola sus eventos drenados en el outbox
// dentro de la misma transacción: o se comitea todo (rol + eventos) o nada.
// Así el relay puede entregar at-least-once sin perder eventos.
type RoleRepository interface {
	// Get carga un rol por ID. Retorna ErrNotFound si no existe o está
	// eliminado.
	Get(ctx context.Context, id uuid.UUID) (*domain.Role, error)

	// Save persiste el rol y sus eventos pendientes atómicamente.
	Save(ctx context.Context, role *domain.Role, events []domain.RoleEvent) error

	// NameTaken verifica si otro rol no eliminado ya usa el nombre.
	// excludeID permite excluir al propio rol en updates (uuid.Nil en create).
	NameTaken(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	// List retorna los roles no eliminados, ordenados por nombre.
	List(ctx context.Context) ([]*domain.Role, error)
}
