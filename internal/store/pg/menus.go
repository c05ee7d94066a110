package pg

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/backoffice/internal/domain"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
)

// MenuStore implementa repository.MenuRepository.
type MenuStore struct{ s *Store }

// Menus retorna el repositorio de menús.
func (s *Store) Menus() *MenuStore { return &MenuStore{s: s} }

func (m *MenuStore) Get(ctx context.Context, id uuid.UUID) (*domain.Menu, error) {
	const q = `
		SELECT id, name, parent_id, path, icon, sort_order, hidden, created_at
		  FROM menu
		 WHERE id = $1`

	menu := &domain.Menu{}
	err := m.s.pool.QueryRow(ctx, q, id).Scan(
		&menu.ID, &menu.Name, &menu.ParentID, &menu.Path, &menu.Icon,
		&menu.SortOrder, &menu.Hidden, &menu.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return menu, nil
}

func (m *MenuStore) Save(ctx context.Context, menu *domain.Menu) error {
	const q = `
		INSERT INTO menu (id, name, parent_id, path, icon, sort_order, hidden, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		   SET name = EXCLUDED.name,
		       parent_id = EXCLUDED.parent_id,
		       path = EXCLUDED.path,
		       icon = EXCLUDED.icon,
		       sort_order = EXCLUDED.sort_order,
		       hidden = EXCLUDED.hidden`
	_, err := m.s.pool.Exec(ctx, q,
		menu.ID, menu.Name, menu.ParentID, menu.Path, menu.Icon,
		menu.SortOrder, menu.Hidden, menu.CreatedAt,
	)
	return err
}

func (m *MenuStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := m.s.pool.Exec(ctx, `DELETE FROM menu WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (m *MenuStore) List(ctx context.Context) ([]*domain.Menu, error) {
	const q = `
		SELECT id, name, parent_id, path, icon, sort_order, hidden, created_at
		  FROM menu
		 ORDER BY parent_id NULLS FIRST, sort_order, name`

	rows, err := m.s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Menu
	for rows.Next() {
		menu := &domain.Menu{}
		if err := rows.Scan(
			&menu.ID, &menu.Name, &menu.ParentID, &menu.Path, &menu.Icon,
			&menu.SortOrder, &menu.Hidden, &menu.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, menu)
	}
	return out, rows.Err()
}

func (m *MenuStore) Exist(ctx context.Context, ids []uuid.UUID) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	const q = `SELECT count(*) FROM menu WHERE id = ANY($1::uuid[])`
	var n int
	if err := m.s.pool.QueryRow(ctx, q, raw).Scan(&n); err != nil {
		return false, err
	}
	return n == len(uniqueIDs(ids)), nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
