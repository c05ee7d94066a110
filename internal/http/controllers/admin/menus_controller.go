package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	dto "github.com/dropDatabas3/backoffice/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/backoffice/internal/http/errors"
	"github.com/dropDatabas3/backoffice/internal/http/helpers"
	svc "github.com/dropDatabas3/backoffice/internal/http/services/admin"
	"github.com/dropDatabas3/backoffice/internal/observability/logger"
)

// MenusController maneja las rutas /admin/menus.
type MenusController struct {
	service svc.MenuService
}

// NewMenusController crea un nuevo controller de menús.
func NewMenusController(service svc.MenuService) *MenusController {
	return &MenusController{service: service}
}

// List maneja GET /admin/menus
func (c *MenusController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	menus, err := c.service.List(ctx)
	if err != nil {
		logger.From(ctx).Error("menu list failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}

	resp := make([]dto.MenuResponse, 0, len(menus))
	for _, m := range menus {
		resp = append(resp, toMenuResponse(m))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Tree maneja GET /admin/menus/tree
func (c *MenusController) Tree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tree, err := c.service.Tree(ctx)
	if err != nil {
		logger.From(ctx).Error("menu tree failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, tree)
}

// Get maneja GET /admin/menus/{id}
func (c *MenusController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	menu, err := c.service.Get(r.Context(), id)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toMenuResponse(menu))
}

// Create maneja POST /admin/menus
func (c *MenusController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("MenusController.Create"),
	)

	var req dto.MenuRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	parentID, err := parseParent(req.ParentID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	menu, err := c.service.Create(ctx, req.Name, req.Path, req.Icon, parentID, req.SortOrder, req.Hidden)
	if err != nil {
		log.Warn("create failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, toMenuResponse(menu))
}

// Update maneja PUT /admin/menus/{id}
func (c *MenusController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("MenusController.Update"),
	)

	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	var req dto.MenuRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	parentID, err := parseParent(req.ParentID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	menu, err := c.service.Update(ctx, id, req.Name, req.Path, req.Icon, parentID, req.SortOrder, req.Hidden)
	if err != nil {
		log.Warn("update failed", logger.MenuID(id.String()), logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toMenuResponse(menu))
}

// Delete maneja DELETE /admin/menus/{id}
func (c *MenusController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("MenusController.Delete"),
	)

	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	if err := c.service.Delete(ctx, id); err != nil {
		log.Warn("delete failed", logger.MenuID(id.String()), logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseParent(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, httperrors.ErrValidation.WithDetail("invalid parent_id")
	}
	return &id, nil
}
