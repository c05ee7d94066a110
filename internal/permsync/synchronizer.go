// Package permsync mantiene consistente el ledger materializado de cada
// usuario cuando un rol cambia. Reacciona a los RoleEvents entregados
// at-least-once por el relay: consulta qué usuarios tienen el rol y aplica
// a cada uno el primitivo de mutación correspondiente.
package permsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/backoffice/internal/domain"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
	"github.com/dropDatabas3/backoffice/internal/observability/logger"
)

const defaultWorkers = 8

// Notifier avisa a un usuario que su acceso cambió. Best-effort: un fallo
// de notificación se loguea y nunca bloquea la sincronización.
type Notifier interface {
	NotifyRoleRevoked(ctx context.Context, email, roleName string)
}

// Synchronizer aplica las reacciones a eventos de rol sobre los usuarios
// afectados. Cada unidad de trabajo (un usuario) es independiente; el
// fan-out corre en paralelo acotado por Workers. El fallo de un usuario no
// bloquea al resto: se juntan los errores y el evento queda para replay
// (toda reacción es idempotente).
type Synchronizer struct {
	users    repository.UserRepository
	members  repository.MembershipReader
	notifier Notifier
	workers  int
}

// Option configura el Synchronizer.
type Option func(*Synchronizer)

// WithWorkers acota la concurrencia del fan-out.
func WithWorkers(n int) Option {
	return func(s *Synchronizer) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithNotifier agrega un notificador best-effort para revocaciones.
func WithNotifier(n Notifier) Option {
	return func(s *Synchronizer) { s.notifier = n }
}

// New crea un Synchronizer.
func New(users repository.UserRepository, members repository.MembershipReader, opts ...Option) *Synchronizer {
	s := &Synchronizer{users: users, members: members, workers: defaultWorkers}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handle despacha un evento de rol a su reacción. El switch es exhaustivo
// sobre los tres tipos; un tipo desconocido es un error de programación y
// se reporta, no se ignora.
func (s *Synchronizer) Handle(ctx context.Context, ev domain.RoleEvent) error {
	start := time.Now()
	var err error

	switch ev.Kind {
	case domain.RoleEventDeleted:
		err = s.onRoleDeleted(ctx, ev.Role)
	case domain.RoleEventInfoChanged:
		err = s.onRoleInfoChanged(ctx, ev.Role)
	case domain.RoleEventPermissionChanged:
		err = s.onRolePermissionChanged(ctx, ev.Role)
	default:
		err = fmt.Errorf("unknown role event kind %q", ev.Kind)
	}

	observeEvent(string(ev.Kind), err, time.Since(start))
	return err
}

// onRoleDeleted quita la membresía del rol eliminado a cada usuario que lo
// tenía. AssignRoles con el rol fuera del target dispara WithdrawRole, que
// borra del ledger las entradas atribuidas solamente a ese rol.
func (s *Synchronizer) onRoleDeleted(ctx context.Context, role domain.RoleSnapshot) error {
	return s.forEachHolder(ctx, role.ID, "onRoleDeleted", func(ctx context.Context, u *domain.User) error {
		if !u.HasRole(role.ID) {
			// El snapshot de holders puede estar viejo: el usuario ya dejó el
			// rol. Sin membresía no hay nada que quitar ni que notificar.
			logger.From(ctx).Warn("holder without membership, skipping",
				logger.Component("permsync"),
				logger.RoleID(role.ID.String()),
				logger.UserID(u.ID.String()),
			)
			return nil
		}
		target := make([]domain.RoleRef, 0, len(u.Roles))
		for _, r := range u.Roles {
			if r.RoleID != role.ID {
				target = append(target, r)
			}
		}
		u.AssignRoles(target)
		if err := s.users.Save(ctx, u); err != nil {
			return err
		}
		if s.notifier != nil {
			s.notifier.NotifyRoleRevoked(ctx, u.Email, role.Name)
		}
		return nil
	})
}

// onRoleInfoChanged refresca el label cacheado (nombre, disabled) en cada
// membresía. No toca el ledger.
func (s *Synchronizer) onRoleInfoChanged(ctx context.Context, role domain.RoleSnapshot) error {
	return s.forEachHolder(ctx, role.ID, "onRoleInfoChanged", func(ctx context.Context, u *domain.User) error {
		if err := u.UpdateCachedRoleLabel(role.ID, role.Name, role.Disabled); err != nil {
			if errors.Is(err, domain.ErrRoleNotAssigned) {
				// El snapshot de holders puede estar viejo: el usuario dejó
				// el rol entre la query y el load. El path de cambio de
				// membresía ya lo cubrió.
				logger.From(ctx).Warn("holder without membership, skipping",
					logger.Component("permsync"),
					logger.RoleID(role.ID.String()),
					logger.UserID(u.ID.String()),
				)
				return nil
			}
			return err
		}
		return s.users.Save(ctx, u)
	})
}

// onRolePermissionChanged reemplaza la contribución completa del rol en el
// ledger de cada usuario que lo tiene.
func (s *Synchronizer) onRolePermissionChanged(ctx context.Context, role domain.RoleSnapshot) error {
	codes := uniqueCodes(role.Grants)
	return s.forEachHolder(ctx, role.ID, "onRolePermissionChanged", func(ctx context.Context, u *domain.User) error {
		u.ReplaceRoleGrants(role.ID, codes)
		return s.users.Save(ctx, u)
	})
}

// forEachHolder consulta los usuarios que tienen el rol y aplica fn a cada
// uno en paralelo acotado. Los fallos por usuario se acumulan y se retornan
// juntos; ninguno corta el fan-out.
func (s *Synchronizer) forEachHolder(ctx context.Context, roleID uuid.UUID, op string, fn func(context.Context, *domain.User) error) error {
	log := logger.From(ctx).With(
		logger.Layer("sync"),
		logger.Component("permsync"),
		logger.Op(op),
		logger.RoleID(roleID.String()),
	)

	ids, err := s.members.UsersHoldingRole(ctx, roleID)
	if err != nil {
		log.Error("holders query failed", logger.Err(err))
		return fmt.Errorf("users holding role %s: %w", roleID, err)
	}
	if len(ids) == 0 {
		log.Debug("no holders, nothing to sync")
		return nil
	}
	observeFanout(len(ids))

	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := s.syncOne(gctx, id, fn); err != nil {
				observeUserFailure(op)
				log.Error("user sync failed", logger.UserID(id.String()), logger.Err(err))
				mu.Lock()
				errs = append(errs, fmt.Errorf("user %s: %w", id, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		log.Warn("fan-out finished with failures",
			logger.Count(len(errs)),
			logger.Int("holders", len(ids)),
		)
		return errors.Join(errs...)
	}
	log.Info("fan-out complete", logger.Count(len(ids)))
	return nil
}

func (s *Synchronizer) syncOne(ctx context.Context, id uuid.UUID, fn func(context.Context, *domain.User) error) error {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			// Usuario borrado después del snapshot de holders: no hay nada
			// que sincronizar.
			return nil
		}
		return fmt.Errorf("load: %w", err)
	}
	return fn(ctx, u)
}

func uniqueCodes(grants []domain.Grant) []string {
	seen := make(map[string]struct{}, len(grants))
	out := make([]string, 0, len(grants))
	for _, g := range grants {
		if _, ok := seen[g.Code]; ok {
			continue
		}
		seen[g.Code] = struct{}{}
		out = append(out, g.Code)
	}
	return out
}
