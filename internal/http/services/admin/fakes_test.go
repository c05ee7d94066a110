package admin_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/backoffice/internal/cache"
	"github.com/dropDatabas3/backoffice/internal/domain"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
)

type fakeRoleRepo struct {
	mu    sync.Mutex
	roles map[uuid.UUID]*domain.Role
	// outbox acumula los eventos que Save habría encolado.
	outbox []domain.RoleEvent
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[uuid.UUID]*domain.Role)}
}

func (r *fakeRoleRepo) Get(_ context.Context, id uuid.UUID) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok || role.Deleted {
		return nil, fmt.Errorf("role %s: %w", id, repository.ErrNotFound)
	}
	return role, nil
}

func (r *fakeRoleRepo) Save(_ context.Context, role *domain.Role, events []domain.RoleEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[role.ID] = role
	r.outbox = append(r.outbox, events...)
	return nil
}

func (r *fakeRoleRepo) NameTaken(_ context.Context, name string, excludeID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, role := range r.roles {
		if id != excludeID && !role.Deleted && strings.EqualFold(role.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRoleRepo) List(_ context.Context) ([]*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Role
	for _, role := range r.roles {
		if !role.Deleted {
			out = append(out, role)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.Deleted {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email && !u.Deleted {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Save(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if !u.Deleted {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

type fakeMenuRepo struct {
	mu    sync.Mutex
	menus map[uuid.UUID]*domain.Menu
}

func newFakeMenuRepo(menus ...*domain.Menu) *fakeMenuRepo {
	r := &fakeMenuRepo{menus: make(map[uuid.UUID]*domain.Menu)}
	for _, m := range menus {
		r.menus[m.ID] = m
	}
	return r
}

func (r *fakeMenuRepo) Get(_ context.Context, id uuid.UUID) (*domain.Menu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.menus[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

func (r *fakeMenuRepo) Save(_ context.Context, m *domain.Menu) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menus[m.ID] = m
	return nil
}

func (r *fakeMenuRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.menus[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.menus, id)
	return nil
}

func (r *fakeMenuRepo) List(_ context.Context) ([]*domain.Menu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Menu
	for _, m := range r.menus {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeMenuRepo) Exist(_ context.Context, ids []uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if _, ok := r.menus[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// fakeCache es un cache.Client en memoria que cuenta hits de lectura.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	gets int
	hits int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return "", fmt.Errorf("key %q: %w", key, cache.ErrNotFound)
	}
	c.hits++
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }
func (c *fakeCache) Close() error               { return nil }
