package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/backoffice/internal/domain"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
)

// UserStore implementa repository.UserRepository y
// repository.MembershipReader.
type UserStore struct{ s *Store }

// Users retorna el repositorio de usuarios.
func (s *Store) Users() *UserStore { return &UserStore{s: s} }

func (u *UserStore) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const q = `
		SELECT id, email, full_name, password_hash, disabled, created_at
		  FROM app_user
		 WHERE id = $1 AND NOT deleted`
	return u.scanUser(ctx, q, id)
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
		SELECT id, email, full_name, password_hash, disabled, created_at
		  FROM app_user
		 WHERE lower(email) = lower($1) AND NOT deleted`
	return u.scanUser(ctx, q, strings.TrimSpace(email))
}

func (u *UserStore) scanUser(ctx context.Context, q string, arg any) (*domain.User, error) {
	usr := &domain.User{}
	err := u.s.pool.QueryRow(ctx, q, arg).Scan(
		&usr.ID, &usr.Email, &usr.FullName, &usr.PasswordHash, &usr.Disabled, &usr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if err := u.loadRolesAndLedger(ctx, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

func (u *UserStore) loadRolesAndLedger(ctx context.Context, usr *domain.User) error {
	rows, err := u.s.pool.Query(ctx,
		`SELECT role_id, role_name, role_disabled FROM user_role WHERE user_id = $1 ORDER BY role_name`,
		usr.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r domain.RoleRef
		if err := rows.Scan(&r.RoleID, &r.Name, &r.Disabled); err != nil {
			return err
		}
		usr.Roles = append(usr.Roles, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	prows, err := u.s.pool.Query(ctx,
		`SELECT code, source_role_ids, is_direct FROM user_permission WHERE user_id = $1 ORDER BY code`,
		usr.ID,
	)
	if err != nil {
		return err
	}
	defer prows.Close()

	var entries []domain.PermissionEntry
	for prows.Next() {
		var (
			code    string
			rawIDs  []string
			direct  bool
			sources []uuid.UUID
		)
		if err := prows.Scan(&code, &rawIDs, &direct); err != nil {
			return err
		}
		for _, raw := range rawIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return fmt.Errorf("user %s permission %q: bad source role id %q: %w", usr.ID, code, raw, err)
			}
			sources = append(sources, id)
		}
		entries = append(entries, domain.RestoreEntry(code, direct, sources))
	}
	if err := prows.Err(); err != nil {
		return err
	}
	usr.Ledger = domain.RestoreLedger(entries)
	return nil
}

// Save persiste el usuario y reemplaza sus membresías y su ledger en una
// transacción.
func (u *UserStore) Save(ctx context.Context, usr *domain.User) error {
	tx, err := u.s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const upsert = `
		INSERT INTO app_user (id, email, full_name, password_hash, disabled, deleted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		   SET email = EXCLUDED.email,
		       full_name = EXCLUDED.full_name,
		       password_hash = EXCLUDED.password_hash,
		       disabled = EXCLUDED.disabled,
		       deleted = EXCLUDED.deleted`
	if _, err := tx.Exec(ctx, upsert,
		usr.ID, usr.Email, usr.FullName, usr.PasswordHash, usr.Disabled, usr.Deleted, usr.CreatedAt,
	); err != nil {
		return fmt.Errorf("upsert user: %w", conflictErr(err))
	}

	if _, err := tx.Exec(ctx, `DELETE FROM user_role WHERE user_id = $1`, usr.ID); err != nil {
		return fmt.Errorf("clear roles: %w", err)
	}
	for _, r := range usr.Roles {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_role (user_id, role_id, role_name, role_disabled) VALUES ($1, $2, $3, $4)`,
			usr.ID, r.RoleID, r.Name, r.Disabled,
		); err != nil {
			return fmt.Errorf("insert role ref: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM user_permission WHERE user_id = $1`, usr.ID); err != nil {
		return fmt.Errorf("clear permissions: %w", err)
	}
	for _, e := range usr.Ledger.Entries() {
		ids := e.Sources()
		raw := make([]string, len(ids))
		for i, id := range ids {
			raw[i] = id.String()
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_permission (user_id, code, source_role_ids, is_direct) VALUES ($1, $2, $3, $4)`,
			usr.ID, e.Code, raw, e.Direct,
		); err != nil {
			return fmt.Errorf("insert permission: %w", err)
		}
	}

	return conflictErr(tx.Commit(ctx))
}

func (u *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	const q = `
		SELECT id, email, full_name, password_hash, disabled, created_at
		  FROM app_user
		 WHERE NOT deleted
		 ORDER BY email`

	rows, err := u.s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		usr := &domain.User{}
		if err := rows.Scan(&usr.ID, &usr.Email, &usr.FullName, &usr.PasswordHash, &usr.Disabled, &usr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, usr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, usr := range out {
		if err := u.loadRolesAndLedger(ctx, usr); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UsersHoldingRole retorna los IDs de usuarios con membresía comiteada del
// rol. Snapshot al momento de la query; la staleness es aceptable.
func (u *UserStore) UsersHoldingRole(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	const q = `
		SELECT ur.user_id
		  FROM user_role ur
		  JOIN app_user au ON au.id = ur.user_id AND NOT au.deleted
		 WHERE ur.role_id = $1`

	rows, err := u.s.pool.Query(ctx, q, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
