package admin

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dropDatabas3/backoffice/internal/audit"
	"github.com/dropDatabas3/backoffice/internal/domain"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
	"github.com/dropDatabas3/backoffice/internal/observability/logger"
	"github.com/dropDatabas3/backoffice/internal/security/password"
)

// UserService define las operaciones administrativas sobre usuarios.
type UserService interface {
	Create(ctx context.Context, email, fullName, plainPassword string, roleIDs []uuid.UUID, directCodes []string) (*domain.User, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	AssignRoles(ctx context.Context, id uuid.UUID, roleIDs []uuid.UUID) (*domain.User, error)
	SetDirectGrants(ctx context.Context, id uuid.UUID, codes []string) (*domain.User, error)
	SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const componentUsers = "admin.users"

type userService struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

// NewUserService crea un nuevo servicio de usuarios.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository) UserService {
	return &userService{users: users, roles: roles}
}

func (s *userService) Create(ctx context.Context, email, fullName, plainPassword string, roleIDs []uuid.UUID, directCodes []string) (*domain.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentUsers),
		logger.Op("Create"),
		logger.Email(email),
	)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email %q already in use: %w", email, repository.ErrConflict)
	} else if !repository.IsNotFound(err) {
		log.Error("email check failed", logger.Err(err))
		return nil, err
	}

	roles, err := s.loadRoles(ctx, roleIDs)
	if err != nil {
		return nil, err
	}

	hash, err := password.HashDefault(plainPassword)
	if err != nil {
		log.Error("password hash failed", logger.Err(err))
		return nil, err
	}

	refs := make([]domain.RoleRef, 0, len(roles))
	for _, r := range roles {
		refs = append(refs, domain.RoleRef{RoleID: r.ID, Name: r.Name, Disabled: r.Disabled})
	}

	user, err := domain.NewUser(email, fullName, hash, refs, directCodes)
	if err != nil {
		return nil, err
	}
	for _, r := range roles {
		user.AddOrMergeGrants(attributedGrants(r))
	}

	if err := s.users.Save(ctx, user); err != nil {
		log.Error("save failed", logger.Err(err))
		return nil, err
	}

	log.Info("user created", logger.UserID(user.ID.String()), logger.Count(len(refs)))
	audit.Log(ctx, "user.created", map[string]any{"user_id": user.ID.String(), "email": user.Email})
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.Get(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) AssignRoles(ctx context.Context, id uuid.UUID, roleIDs []uuid.UUID) (*domain.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentUsers),
		logger.Op("AssignRoles"),
		logger.UserID(id.String()),
	)

	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	roles, err := s.loadRoles(ctx, roleIDs)
	if err != nil {
		return nil, err
	}

	target := make([]domain.RoleRef, 0, len(roles))
	for _, r := range roles {
		target = append(target, domain.RoleRef{RoleID: r.ID, Name: r.Name, Disabled: r.Disabled})
	}

	// AssignRoles ajusta membresías y retira los grants de los roles que
	// salen; los grants de los roles vigentes se mergean acá (idempotente).
	user.AssignRoles(target)
	for _, r := range roles {
		user.AddOrMergeGrants(attributedGrants(r))
	}

	if err := s.users.Save(ctx, user); err != nil {
		log.Error("save failed", logger.Err(err))
		return nil, err
	}

	log.Info("roles assigned", logger.Count(len(target)))
	audit.Log(ctx, "user.roles_assigned", map[string]any{"user_id": id.String(), "roles": len(target)})
	return user, nil
}

func (s *userService) SetDirectGrants(ctx context.Context, id uuid.UUID, codes []string) (*domain.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentUsers),
		logger.Op("SetDirectGrants"),
		logger.UserID(id.String()),
	)

	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.SetDirectGrants(codes); err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		log.Error("save failed", logger.Err(err))
		return nil, err
	}

	log.Info("direct grants set", logger.Count(len(codes)))
	audit.Log(ctx, "user.direct_grants_set", map[string]any{"user_id": id.String(), "codes": len(codes)})
	return user, nil
}

func (s *userService) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) (*domain.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentUsers),
		logger.Op("SetDisabled"),
		logger.UserID(id.String()),
	)

	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Disabled = disabled

	if err := s.users.Save(ctx, user); err != nil {
		log.Error("save failed", logger.Err(err))
		return nil, err
	}

	log.Info("user status changed", logger.Bool("disabled", disabled))
	audit.Log(ctx, "user.status_changed", map[string]any{"user_id": id.String(), "disabled": disabled})
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentUsers),
		logger.Op("Delete"),
		logger.UserID(id.String()),
	)

	user, err := s.users.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := user.Delete(); err != nil {
		return err
	}

	if err := s.users.Save(ctx, user); err != nil {
		log.Error("save failed", logger.Err(err))
		return err
	}

	log.Info("user deleted", logger.Email(user.Email))
	audit.Log(ctx, "user.deleted", map[string]any{"user_id": id.String(), "email": user.Email})
	return nil
}

// loadRoles resuelve los IDs a roles vivos. Un ID inexistente corta la
// operación completa.
func (s *userService) loadRoles(ctx context.Context, ids []uuid.UUID) ([]*domain.Role, error) {
	roles := make([]*domain.Role, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		r, err := s.roles.Get(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, fmt.Errorf("role %s: %w", id, err)
			}
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}

// attributedGrants proyecta los códigos del rol etiquetados con su origen.
func attributedGrants(r *domain.Role) []domain.AttributedGrant {
	codes := r.Grants.Codes()
	out := make([]domain.AttributedGrant, 0, len(codes))
	for _, c := range codes {
		out = append(out, domain.AttributedGrant{Code: c, RoleID: r.ID})
	}
	return out
}
