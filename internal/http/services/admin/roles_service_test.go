package admin_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/backoffice/internal/domain"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
	svc "github.com/dropDatabas3/backoffice/internal/http/services/admin"
)

func newMenu(t *testing.T, name string) *domain.Menu {
	t.Helper()
	m, err := domain.NewMenu(name, "/"+name, "", nil, 0)
	require.NoError(t, err)
	return m
}

func TestRoleService_Create(t *testing.T) {
	ctx := context.Background()
	menu := newMenu(t, "orders")
	roles := newFakeRoleRepo()
	s := svc.NewRoleService(roles, newFakeMenuRepo(menu))

	role, err := s.Create(ctx, "ops", "operations", []domain.Grant{{MenuID: menu.ID, Code: "view"}})
	require.NoError(t, err)
	require.Equal(t, "ops", role.Name)
	require.True(t, role.Grants.Contains(menu.ID, "view"))

	// Crear no encola eventos: no hay usuarios que sincronizar.
	require.Empty(t, roles.outbox)

	// Nombre duplicado (case-insensitive) rechazado.
	_, err = s.Create(ctx, "OPS", "", nil)
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestRoleService_Create_PaddedNameConflict(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoleRepo()
	s := svc.NewRoleService(roles, newFakeMenuRepo())

	_, err := s.Create(ctx, "ops", "", nil)
	require.NoError(t, err)

	// El chequeo de unicidad ve el nombre recortado, igual que el aggregate.
	_, err = s.Create(ctx, "  ops  ", "", nil)
	require.ErrorIs(t, err, repository.ErrConflict)

	role, err := s.Create(ctx, "  admin  ", "", nil)
	require.NoError(t, err)
	_, err = s.UpdateInfo(ctx, role.ID, " ops ", "", nil)
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestRoleService_Create_UnknownMenu(t *testing.T) {
	s := svc.NewRoleService(newFakeRoleRepo(), newFakeMenuRepo())

	_, err := s.Create(context.Background(), "ops", "", []domain.Grant{{MenuID: uuid.New(), Code: "view"}})
	require.ErrorIs(t, err, domain.ErrMenuNotFound)
}

func TestRoleService_UpdateInfo_EnqueuesEvent(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoleRepo()
	s := svc.NewRoleService(roles, newFakeMenuRepo())

	role, err := s.Create(ctx, "ops", "", nil)
	require.NoError(t, err)

	updated, err := s.UpdateInfo(ctx, role.ID, "operators", "renamed", nil)
	require.NoError(t, err)
	require.Equal(t, "operators", updated.Name)

	require.Len(t, roles.outbox, 1)
	require.Equal(t, domain.RoleEventInfoChanged, roles.outbox[0].Kind)
	require.Equal(t, "operators", roles.outbox[0].Role.Name)
}

func TestRoleService_UpdateInfo_NameConflictExcludesSelf(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoleRepo()
	s := svc.NewRoleService(roles, newFakeMenuRepo())

	a, err := s.Create(ctx, "ops", "", nil)
	require.NoError(t, err)
	_, err = s.Create(ctx, "audit", "", nil)
	require.NoError(t, err)

	// Mantener el propio nombre es válido.
	_, err = s.UpdateInfo(ctx, a.ID, "ops", "new description", nil)
	require.NoError(t, err)

	// Tomar el nombre del otro rol no.
	_, err = s.UpdateInfo(ctx, a.ID, "audit", "", nil)
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestRoleService_ReplaceGrants(t *testing.T) {
	ctx := context.Background()
	menu := newMenu(t, "orders")
	roles := newFakeRoleRepo()
	s := svc.NewRoleService(roles, newFakeMenuRepo(menu))

	role, err := s.Create(ctx, "ops", "", []domain.Grant{{MenuID: menu.ID, Code: "view"}})
	require.NoError(t, err)

	updated, err := s.ReplaceGrants(ctx, role.ID, []domain.Grant{{MenuID: menu.ID, Code: "edit"}})
	require.NoError(t, err)
	require.False(t, updated.Grants.Contains(menu.ID, "view"))
	require.True(t, updated.Grants.Contains(menu.ID, "edit"))

	require.Len(t, roles.outbox, 1)
	require.Equal(t, domain.RoleEventPermissionChanged, roles.outbox[0].Kind)
}

func TestRoleService_Delete(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoleRepo()
	s := svc.NewRoleService(roles, newFakeMenuRepo())

	role, err := s.Create(ctx, "ops", "", nil)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, role.ID))
	require.Len(t, roles.outbox, 1)
	require.Equal(t, domain.RoleEventDeleted, roles.outbox[0].Kind)

	// El rol eliminado deja de ser visible.
	_, err = s.Get(ctx, role.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	// Y su nombre queda libre para un rol nuevo.
	_, err = s.Create(ctx, "ops", "", nil)
	require.NoError(t, err)
}
