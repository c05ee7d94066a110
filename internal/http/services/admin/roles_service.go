package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/backoffice/internal/audit"
	"github.com/dropDatabas3/backoffice/internal/domain"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
	"github.com/dropDatabas3/backoffice/internal/observability/logger"
)

// RoleService define las operaciones administrativas sobre roles.
type RoleService interface {
	Create(ctx context.Context, name, description string, grants []domain.Grant) (*domain.Role, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
	UpdateInfo(ctx context.Context, id uuid.UUID, name, description string, disabled *bool) (*domain.Role, error)
	ReplaceGrants(ctx context.Context, id uuid.UUID, grants []domain.Grant) (*domain.Role, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const componentRoles = "admin.roles"

type roleService struct {
	roles repository.RoleRepository
	menus repository.MenuRepository
}

// NewRoleService crea un nuevo servicio de roles.
func NewRoleService(roles repository.RoleRepository, menus repository.MenuRepository) RoleService {
	return &roleService{roles: roles, menus: menus}
}

func (s *roleService) Create(ctx context.Context, name, description string, grants []domain.Grant) (*domain.Role, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentRoles),
		logger.Op("Create"),
	)

	if err := s.validateGrantTargets(ctx, grants); err != nil {
		return nil, err
	}

	// Mismo recorte que aplica el aggregate: el chequeo de unicidad debe ver
	// el nombre que se va a persistir.
	name = strings.TrimSpace(name)
	taken, err := s.roles.NameTaken(ctx, name, uuid.Nil)
	if err != nil {
		log.Error("name check failed", logger.Err(err))
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("role name %q already in use: %w", name, repository.ErrConflict)
	}

	role, err := domain.NewRole(name, description, grants)
	if err != nil {
		return nil, err
	}

	if err := s.roles.Save(ctx, role, role.PullEvents()); err != nil {
		log.Error("save failed", logger.Err(err))
		return nil, err
	}

	log.Info("role created", logger.RoleID(role.ID.String()), logger.RoleName(role.Name))
	audit.Log(ctx, "role.created", map[string]any{"role_id": role.ID.String(), "name": role.Name})
	return role, nil
}

func (s *roleService) Get(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	return s.roles.Get(ctx, id)
}

func (s *roleService) List(ctx context.Context) ([]*domain.Role, error) {
	return s.roles.List(ctx)
}

func (s *roleService) UpdateInfo(ctx context.Context, id uuid.UUID, name, description string, disabled *bool) (*domain.Role, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentRoles),
		logger.Op("UpdateInfo"),
		logger.RoleID(id.String()),
	)

	role, err := s.roles.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	taken, err := s.roles.NameTaken(ctx, name, id)
	if err != nil {
		log.Error("name check failed", logger.Err(err))
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("role name %q already in use: %w", name, repository.ErrConflict)
	}

	if err := role.UpdateInfo(name, description, disabled); err != nil {
		return nil, err
	}

	if err := s.roles.Save(ctx, role, role.PullEvents()); err != nil {
		log.Error("save failed", logger.Err(err))
		return nil, err
	}

	log.Info("role info updated", logger.RoleName(role.Name))
	audit.Log(ctx, "role.info_updated", map[string]any{"role_id": id.String(), "name": role.Name})
	return role, nil
}

func (s *roleService) ReplaceGrants(ctx context.Context, id uuid.UUID, grants []domain.Grant) (*domain.Role, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentRoles),
		logger.Op("ReplaceGrants"),
		logger.RoleID(id.String()),
	)

	if err := s.validateGrantTargets(ctx, grants); err != nil {
		return nil, err
	}

	role, err := s.roles.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := role.ReplaceGrants(grants); err != nil {
		return nil, err
	}

	if err := s.roles.Save(ctx, role, role.PullEvents()); err != nil {
		log.Error("save failed", logger.Err(err))
		return nil, err
	}

	log.Info("role grants replaced", logger.Count(role.Grants.Len()))
	audit.Log(ctx, "role.grants_replaced", map[string]any{"role_id": id.String(), "grants": role.Grants.Len()})
	return role, nil
}

func (s *roleService) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentRoles),
		logger.Op("Delete"),
		logger.RoleID(id.String()),
	)

	role, err := s.roles.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := role.Delete(); err != nil {
		return err
	}

	if err := s.roles.Save(ctx, role, role.PullEvents()); err != nil {
		log.Error("save failed", logger.Err(err))
		return err
	}

	log.Info("role deleted", logger.RoleName(role.Name))
	audit.Log(ctx, "role.deleted", map[string]any{"role_id": id.String(), "name": role.Name})
	return nil
}

// validateGrantTargets verifica que todos los menús referenciados existan.
func (s *roleService) validateGrantTargets(ctx context.Context, grants []domain.Grant) error {
	if len(grants) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(grants))
	for _, g := range grants {
		ids = append(ids, g.MenuID)
	}
	ok, err := s.menus.Exist(ctx, ids)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("grant references unknown menu: %w", domain.ErrMenuNotFound)
	}
	return nil
}
