package admin_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/backoffice/internal/domain"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
	svc "github.com/dropDatabas3/backoffice/internal/http/services/admin"
	"github.com/dropDatabas3/backoffice/internal/security/password"
)

func seedRole(t *testing.T, roles *fakeRoleRepo, name string, grants ...domain.Grant) *domain.Role {
	t.Helper()
	role, err := domain.NewRole(name, "", grants)
	require.NoError(t, err)
	require.NoError(t, roles.Save(context.Background(), role, nil))
	return role
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	menu := uuid.New()
	roles := newFakeRoleRepo()
	users := newFakeUserRepo()
	role := seedRole(t, roles, "ops", domain.Grant{MenuID: menu, Code: "orders:view"})

	s := svc.NewUserService(users, roles)

	u, err := s.Create(ctx, "Ana@Example.com", "Ana", "hunter2!", []uuid.UUID{role.ID}, []string{"reports:view"})
	require.NoError(t, err)

	require.Equal(t, "ana@example.com", u.Email)
	require.True(t, u.HasRole(role.ID))
	require.True(t, password.Verify("hunter2!", u.PasswordHash))

	// El ledger nace materializado: permisos del rol con atribución, más el directo.
	require.ElementsMatch(t, []string{"orders:view", "reports:view"}, u.Permissions())
	entry := u.Ledger.Get("orders:view")
	require.NotNil(t, entry)
	require.True(t, entry.HasSource(role.ID))
	require.True(t, u.Ledger.Get("reports:view").Direct)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := svc.NewUserService(newFakeUserRepo(), newFakeRoleRepo())

	_, err := s.Create(ctx, "ana@example.com", "", "pw", nil, nil)
	require.NoError(t, err)

	// Mismo repo compartido entre llamadas del mismo service.
	_, err = s.Create(ctx, "ana@example.com", "", "pw", nil, nil)
	require.Error(t, err)
}

func TestUserService_Create_UnknownRole(t *testing.T) {
	s := svc.NewUserService(newFakeUserRepo(), newFakeRoleRepo())

	_, err := s.Create(context.Background(), "x@example.com", "", "pw", []uuid.UUID{uuid.New()}, nil)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserService_AssignRoles(t *testing.T) {
	ctx := context.Background()
	menu := uuid.New()
	roles := newFakeRoleRepo()
	users := newFakeUserRepo()
	r1 := seedRole(t, roles, "viewers", domain.Grant{MenuID: menu, Code: "a"})
	r2 := seedRole(t, roles, "editors", domain.Grant{MenuID: menu, Code: "b"})

	s := svc.NewUserService(users, roles)
	u, err := s.Create(ctx, "ana@example.com", "", "pw", []uuid.UUID{r1.ID}, nil)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a"}, u.Permissions())

	// r1 sale, r2 entra: el ledger sigue el cambio de membresía.
	u, err = s.AssignRoles(ctx, u.ID, []uuid.UUID{r2.ID})
	require.NoError(t, err)

	require.False(t, u.HasRole(r1.ID))
	require.True(t, u.HasRole(r2.ID))
	require.ElementsMatch(t, []string{"b"}, u.Permissions())

	// Reaplicar el mismo target es idempotente.
	u, err = s.AssignRoles(ctx, u.ID, []uuid.UUID{r2.ID})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"b"}, u.Permissions())
}

func TestUserService_SetDirectGrants(t *testing.T) {
	ctx := context.Background()
	menu := uuid.New()
	roles := newFakeRoleRepo()
	users := newFakeUserRepo()
	role := seedRole(t, roles, "ops", domain.Grant{MenuID: menu, Code: "derived"})

	s := svc.NewUserService(users, roles)
	u, err := s.Create(ctx, "ana@example.com", "", "pw", []uuid.UUID{role.ID}, nil)
	require.NoError(t, err)

	// Duplicar un código derivado es conflicto.
	_, err = s.SetDirectGrants(ctx, u.ID, []string{"derived"})
	require.ErrorIs(t, err, domain.ErrDuplicatePermission)

	u, err = s.SetDirectGrants(ctx, u.ID, []string{"extra"})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"derived", "extra"}, u.Permissions())
}

func TestUserService_SetDisabledAndDelete(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	s := svc.NewUserService(users, newFakeRoleRepo())

	u, err := s.Create(ctx, "ana@example.com", "", "pw", nil, nil)
	require.NoError(t, err)

	u, err = s.SetDisabled(ctx, u.ID, true)
	require.NoError(t, err)
	require.True(t, u.Disabled)

	require.NoError(t, s.Delete(ctx, u.ID))
	_, err = s.Get(ctx, u.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
