package admin

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/backoffice/internal/audit"
	"github.com/dropDatabas3/backoffice/internal/cache"
	"github.com/dropDatabas3/backoffice/internal/domain"
	"github.com/dropDatabas3/backoffice/internal/domain/repository"
	"github.com/dropDatabas3/backoffice/internal/observability/logger"
)

// MenuService define el CRUD de menús y la vista de árbol cacheada.
type MenuService interface {
	Create(ctx context.Context, name, path, icon string, parentID *uuid.UUID, sortOrder int, hidden bool) (*domain.Menu, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Menu, error)
	Update(ctx context.Context, id uuid.UUID, name, path, icon string, parentID *uuid.UUID, sortOrder int, hidden bool) (*domain.Menu, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Menu, error)
	Tree(ctx context.Context) ([]*MenuNode, error)
}

// MenuNode es un menú con sus hijos anidados, para la vista de árbol.
type MenuNode struct {
	Menu     *domain.Menu `json:"menu"`
	Children []*MenuNode  `json:"children,omitempty"`
}

const (
	componentMenus = "admin.menus"

	menuTreeCacheKey = "menu:tree"
	menuTreeCacheTTL = 5 * time.Minute
)

type menuService struct {
	menus repository.MenuRepository
	cache cache.Client
}

// NewMenuService crea un nuevo servicio de menús.
func NewMenuService(menus repository.MenuRepository, c cache.Client) MenuService {
	return &menuService{menus: menus, cache: c}
}

func (s *menuService) Create(ctx context.Context, name, path, icon string, parentID *uuid.UUID, sortOrder int, hidden bool) (*domain.Menu, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentMenus),
		logger.Op("Create"),
	)

	if err := s.validateParent(ctx, parentID); err != nil {
		return nil, err
	}

	menu, err := domain.NewMenu(name, path, icon, parentID, sortOrder)
	if err != nil {
		return nil, err
	}
	menu.Hidden = hidden

	if err := s.menus.Save(ctx, menu); err != nil {
		log.Error("save failed", logger.Err(err))
		return nil, err
	}

	s.invalidateTree(ctx)
	log.Info("menu created", logger.MenuID(menu.ID.String()), logger.String("name", menu.Name))
	audit.Log(ctx, "menu.created", map[string]any{"menu_id": menu.ID.String(), "name": menu.Name})
	return menu, nil
}

func (s *menuService) Get(ctx context.Context, id uuid.UUID) (*domain.Menu, error) {
	return s.menus.Get(ctx, id)
}

func (s *menuService) Update(ctx context.Context, id uuid.UUID, name, path, icon string, parentID *uuid.UUID, sortOrder int, hidden bool) (*domain.Menu, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentMenus),
		logger.Op("Update"),
		logger.MenuID(id.String()),
	)

	menu, err := s.menus.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateParent(ctx, parentID); err != nil {
		return nil, err
	}

	if err := menu.Rename(name, path); err != nil {
		return nil, err
	}
	menu.Path = path
	menu.Icon = icon
	menu.ParentID = parentID
	menu.SortOrder = sortOrder
	menu.Hidden = hidden

	if err := s.menus.Save(ctx, menu); err != nil {
		log.Error("save failed", logger.Err(err))
		return nil, err
	}

	s.invalidateTree(ctx)
	log.Info("menu updated")
	audit.Log(ctx, "menu.updated", map[string]any{"menu_id": id.String(), "name": menu.Name})
	return menu, nil
}

func (s *menuService) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentMenus),
		logger.Op("Delete"),
		logger.MenuID(id.String()),
	)

	if err := s.menus.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateTree(ctx)
	log.Info("menu deleted")
	audit.Log(ctx, "menu.deleted", map[string]any{"menu_id": id.String()})
	return nil
}

func (s *menuService) List(ctx context.Context) ([]*domain.Menu, error) {
	return s.menus.List(ctx)
}

// Tree devuelve el árbol de menús, sirviendo del cache cuando hay hit.
// Los menús cuyo parent no existe se tratan como raíces.
func (s *menuService) Tree(ctx context.Context) ([]*MenuNode, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentMenus),
		logger.Op("Tree"),
	)

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, menuTreeCacheKey); err == nil {
			var tree []*MenuNode
			if err := json.Unmarshal([]byte(raw), &tree); err == nil {
				return tree, nil
			}
			// Entrada corrupta: se descarta y se reconstruye.
			_ = s.cache.Delete(ctx, menuTreeCacheKey)
		} else if !cache.IsNotFound(err) {
			log.Warn("cache read failed", logger.Err(err))
		}
	}

	menus, err := s.menus.List(ctx)
	if err != nil {
		return nil, err
	}
	tree := buildTree(menus)

	if s.cache != nil {
		if raw, err := json.Marshal(tree); err == nil {
			if err := s.cache.Set(ctx, menuTreeCacheKey, string(raw), menuTreeCacheTTL); err != nil {
				log.Warn("cache write failed", logger.Err(err))
			}
		}
	}
	return tree, nil
}

func (s *menuService) invalidateTree(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, menuTreeCacheKey); err != nil && !cache.IsNotFound(err) {
		logger.From(ctx).Warn("cache invalidation failed",
			logger.Component(componentMenus), logger.Err(err))
	}
}

func (s *menuService) validateParent(ctx context.Context, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	ok, err := s.menus.Exist(ctx, []uuid.UUID{*parentID})
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrMenuNotFound
	}
	return nil
}

func buildTree(menus []*domain.Menu) []*MenuNode {
	nodes := make(map[uuid.UUID]*MenuNode, len(menus))
	for _, m := range menus {
		nodes[m.ID] = &MenuNode{Menu: m}
	}

	var roots []*MenuNode
	for _, m := range menus {
		node := nodes[m.ID]
		if m.ParentID != nil {
			if parent, ok := nodes[*m.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	var sortNodes func([]*MenuNode)
	sortNodes = func(ns []*MenuNode) {
		sort.SliceStable(ns, func(i, j int) bool {
			if ns[i].Menu.SortOrder != ns[j].Menu.SortOrder {
				return ns[i].Menu.SortOrder < ns[j].Menu.SortOrder
			}
			return ns[i].Menu.Name < ns[j].Menu.Name
		})
		for _, n := range ns {
			sortNodes(n.Children)
		}
	}
	sortNodes(roots)
	return roots
}
