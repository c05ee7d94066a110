package permsync_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/dropDatabas3/backoffice/internal/domain"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
	"github.com/dropDatabas3/backoffice/internal/permsync"
)

// fakeUserRepo es un repositorio en memoria que además implementa
// MembershipReader, como hace el store real.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User

	failSaveFor map[uuid.UUID]error
	saves       int
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*domain.User), failSaveFor: make(map[uuid.UUID]error)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.Deleted {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && !u.Deleted {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Save(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failSaveFor[u.ID]; ok {
		return err
	}
	r.users[u.ID] = u
	r.saves++
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) UsersHoldingRole(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uuid.UUID
	for id, u := range r.users {
		if !u.Deleted && u.HasRole(roleID) {
			out = append(out, id)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	revoked []string // "email/roleName"
}

func (n *recordingNotifier) NotifyRoleRevoked(_ context.Context, email, roleName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.revoked = append(n.revoked, email+"/"+roleName)
}

func mustUser(t *testing.T, email string, roles []domain.RoleRef, direct []string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(email, "", "hash", roles, direct)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func roleEvent(kind domain.RoleEventKind, id uuid.UUID, name string, grants ...domain.Grant) domain.RoleEvent {
	return domain.RoleEvent{
		Kind: kind,
		Role: domain.RoleSnapshot{ID: id, Name: name, Grants: grants},
	}
}

func TestHandle_RoleDeleted(t *testing.T) {
	roleID := uuid.New()
	menu := uuid.New()

	holder := mustUser(t, "holder@example.com", []domain.RoleRef{{RoleID: roleID, Name: "ops"}}, []string{"direct:perm"})
	holder.AddOrMergeGrants([]domain.AttributedGrant{{Code: "orders:view", RoleID: roleID}})
	bystander := mustUser(t, "other@example.com", nil, nil)

	repo := newFakeUserRepo(holder, bystander)
	notifier := &recordingNotifier{}
	s := permsync.New(repo, repo, permsync.WithNotifier(notifier))

	ev := roleEvent(domain.RoleEventDeleted, roleID, "ops", domain.Grant{MenuID: menu, Code: "orders:view"})
	if err := s.Handle(context.Background(), ev); err != nil {
		t.Fatal(err)
	}

	if holder.HasRole(roleID) {
		t.Fatal("membership must be removed")
	}
	if holder.Ledger.Has("orders:view") {
		t.Fatal("role-sourced grant must be withdrawn")
	}
	if !holder.Ledger.Has("direct:perm") {
		t.Fatal("direct grant must survive role deletion")
	}
	if got := notifier.revoked; !reflect.DeepEqual(got, []string{"holder@example.com/ops"}) {
		t.Fatalf("notifications = %v", got)
	}
}

func TestHandle_RoleInfoChanged(t *testing.T) {
	roleID := uuid.New()
	holder := mustUser(t, "a@example.com", []domain.RoleRef{{RoleID: roleID, Name: "old name"}}, nil)
	holder.AddOrMergeGrants([]domain.AttributedGrant{{Code: "x", RoleID: roleID}})

	repo := newFakeUserRepo(holder)
	s := permsync.New(repo, repo)

	ev := roleEvent(domain.RoleEventInfoChanged, roleID, "new name")
	ev.Role.Disabled = true
	if err := s.Handle(context.Background(), ev); err != nil {
		t.Fatal(err)
	}

	if holder.Roles[0].Name != "new name" || !holder.Roles[0].Disabled {
		t.Fatalf("role ref = %+v, want refreshed label", holder.Roles[0])
	}
	if !holder.Ledger.Has("x") {
		t.Fatal("info change must not touch the ledger")
	}
}

func TestHandle_RolePermissionChanged_Idempotent(t *testing.T) {
	roleID := uuid.New()
	menuA, menuB := uuid.New(), uuid.New()
	holder := mustUser(t, "a@example.com", []domain.RoleRef{{RoleID: roleID, Name: "ops"}}, nil)
	holder.AddOrMergeGrants([]domain.AttributedGrant{{Code: "old", RoleID: roleID}})

	repo := newFakeUserRepo(holder)
	s := permsync.New(repo, repo)

	ev := roleEvent(domain.RoleEventPermissionChanged, roleID, "ops",
		domain.Grant{MenuID: menuA, Code: "new"},
		domain.Grant{MenuID: menuB, Code: "new"}, // mismo código vía otro menú
	)

	// Entrega doble: el replay tiene que dejar el mismo estado.
	for i := 0; i < 2; i++ {
		if err := s.Handle(context.Background(), ev); err != nil {
			t.Fatal(err)
		}
	}

	if holder.Ledger.Has("old") {
		t.Fatal("replaced code must be gone")
	}
	e := holder.Ledger.Get("new")
	if e == nil || e.SourceCount() != 1 || !e.HasSource(roleID) {
		t.Fatalf("entry = %+v, want single attribution to the role", e)
	}
}

func TestHandle_FanoutIsolatesFailures(t *testing.T) {
	roleID := uuid.New()
	var users []*domain.User
	for i := 0; i < 5; i++ {
		users = append(users, mustUser(t, fmt.Sprintf("u%d@example.com", i), []domain.RoleRef{{RoleID: roleID, Name: "ops"}}, nil))
	}

	repo := newFakeUserRepo(users...)
	bad := users[2]
	repo.failSaveFor[bad.ID] = errors.New("boom")

	s := permsync.New(repo, repo, permsync.WithWorkers(2))

	err := s.Handle(context.Background(), roleEvent(domain.RoleEventDeleted, roleID, "ops"))
	if err == nil {
		t.Fatal("expected aggregated error")
	}

	// Los otros cuatro usuarios se procesaron a pesar del fallo.
	for _, u := range users {
		if u.ID == bad.ID {
			continue
		}
		if u.HasRole(roleID) {
			t.Fatalf("user %s not processed despite another user's failure", u.Email)
		}
	}
}

func TestHandle_HolderGoneIsSkipped(t *testing.T) {
	roleID := uuid.New()
	// El usuario tiene la membresía pero ya no existe al momento del load:
	// el snapshot de holders quedó viejo.
	ghost := mustUser(t, "ghost@example.com", []domain.RoleRef{{RoleID: roleID, Name: "ops"}}, nil)
	repo := newFakeUserRepo(ghost)

	s := permsync.New(repo, &staticMembers{ids: []uuid.UUID{ghost.ID, uuid.New()}})

	if err := s.Handle(context.Background(), roleEvent(domain.RoleEventDeleted, roleID, "ops")); err != nil {
		t.Fatalf("missing holder must be skipped, got %v", err)
	}
}

func TestHandle_DeletedWithoutMembershipIsSkipped(t *testing.T) {
	roleID := uuid.New()
	// Holder reportado por la query pero que ya dejó el rol: sin membresía no
	// hay Save ni aviso de revocación.
	u := mustUser(t, "left@example.com", nil, []string{"direct:perm"})
	repo := newFakeUserRepo(u)
	notifier := &recordingNotifier{}

	s := permsync.New(repo, &staticMembers{ids: []uuid.UUID{u.ID}}, permsync.WithNotifier(notifier))

	if err := s.Handle(context.Background(), roleEvent(domain.RoleEventDeleted, roleID, "ops")); err != nil {
		t.Fatalf("holder without membership must be skipped, got %v", err)
	}
	if repo.saves != 0 {
		t.Fatalf("saves = %d, want 0 for a stale holder", repo.saves)
	}
	if len(notifier.revoked) != 0 {
		t.Fatalf("revocation notices = %v, want none", notifier.revoked)
	}
}

func TestHandle_InfoChangedWithoutMembershipIsSkipped(t *testing.T) {
	roleID := uuid.New()
	// Holder reportado por la query pero que ya dejó el rol.
	u := mustUser(t, "left@example.com", nil, nil)
	repo := newFakeUserRepo(u)

	s := permsync.New(repo, &staticMembers{ids: []uuid.UUID{u.ID}})

	if err := s.Handle(context.Background(), roleEvent(domain.RoleEventInfoChanged, roleID, "x")); err != nil {
		t.Fatalf("holder without membership must be skipped, got %v", err)
	}
}

func TestHandle_UnknownKind(t *testing.T) {
	repo := newFakeUserRepo()
	s := permsync.New(repo, repo)

	err := s.Handle(context.Background(), domain.RoleEvent{Kind: "role.exploded"})
	if err == nil {
		t.Fatal("unknown event kind must error")
	}
}

type staticMembers struct{ ids []uuid.UUID }

func (m *staticMembers) UsersHoldingRole(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return m.ids, nil
}
