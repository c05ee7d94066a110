package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropDatabas3/backoffice/internal/domain"
)

// MenuRepository define el CRUD de menús, los targets de los grants.
type MenuRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Menu, error)
	Save(ctx context.Context, menu *domain.Menu) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List retorna todos los menús ordenados por (parent, sort_order).
	List(ctx context.Context) ([]*domain.Menu, error)
	// Exist verifica que todos los IDs referencien menús existentes.
	Exist(ctx context.Context, ids []uuid.UUID) (bool, error)
}
