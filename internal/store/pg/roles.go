package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/backoffice/internal/domain"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
)

// RoleStore implementa repository.RoleRepository.
type RoleStore struct{ s *Store }

// Roles retorna el repositorio de roles.
func (s *Store) Roles() *RoleStore { return &RoleStore{s: s} }

func (r *RoleStore) Get(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	const q = `
		SELECT id, name, description, disabled, created_at
		  FROM role
		 WHERE id = $1 AND NOT deleted`

	role := &domain.Role{}
	err := r.s.pool.QueryRow(ctx, q, id).Scan(
		&role.ID, &role.Name, &role.Description, &role.Disabled, &role.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	grants, err := r.loadGrants(ctx, id)
	if err != nil {
		return nil, err
	}
	role.Grants = domain.NewGrantSet(grants)
	return role, nil
}

func (r *RoleStore) loadGrants(ctx context.Context, roleID uuid.UUID) ([]domain.Grant, error) {
	const q = `
		SELECT menu_id, code
		  FROM role_grant
		 WHERE role_id = $1
		 ORDER BY position`

	rows, err := r.s.pool.Query(ctx, q, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Grant
	for rows.Next() {
		var g domain.Grant
		if err := rows.Scan(&g.MenuID, &g.Code); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Save persiste el rol y encola sus eventos en el outbox en la misma
// transacción. El reemplazo de role_grant es wholesale: refleja exactamente
// el GrantSet del aggregate.
func (r *RoleStore) Save(ctx context.Context, role *domain.Role, events []domain.RoleEvent) error {
	tx, err := r.s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const upsert = `
		INSERT INTO role (id, name, description, disabled, deleted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		   SET name = EXCLUDED.name,
		       description = EXCLUDED.description,
		       disabled = EXCLUDED.disabled,
		       deleted = EXCLUDED.deleted`
	if _, err := tx.Exec(ctx, upsert,
		role.ID, role.Name, role.Description, role.Disabled, role.Deleted, role.CreatedAt,
	); err != nil {
		return fmt.Errorf("upsert role: %w", conflictErr(err))
	}

	if _, err := tx.Exec(ctx, `DELETE FROM role_grant WHERE role_id = $1`, role.ID); err != nil {
		return fmt.Errorf("clear grants: %w", err)
	}
	for i, g := range role.Grants.List() {
		if _, err := tx.Exec(ctx,
			`INSERT INTO role_grant (role_id, menu_id, code, position) VALUES ($1, $2, $3, $4)`,
			role.ID, g.MenuID, g.Code, i,
		); err != nil {
			return fmt.Errorf("insert grant: %w", err)
		}
	}

	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO role_event_outbox (payload) VALUES ($1)`, payload,
		); err != nil {
			return fmt.Errorf("enqueue event: %w", err)
		}
	}

	return conflictErr(tx.Commit(ctx))
}

func (r *RoleStore) NameTaken(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM role
			 WHERE lower(name) = lower($1) AND NOT deleted AND id <> $2
		)`
	var taken bool
	if err := r.s.pool.QueryRow(ctx, q, name, excludeID).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

func (r *RoleStore) List(ctx context.Context) ([]*domain.Role, error) {
	const q = `
		SELECT id, name, description, disabled, created_at
		  FROM role
		 WHERE NOT deleted
		 ORDER BY name`

	rows, err := r.s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Role
	for rows.Next() {
		role := &domain.Role{}
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.Disabled, &role.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, role := range out {
		grants, err := r.loadGrants(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		role.Grants = domain.NewGrantSet(grants)
	}
	return out, nil
}
