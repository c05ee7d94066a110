package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/backoffice/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/backoffice/internal/http/errors"
	"github.com/dropDatabas3/backoffice/internal/http/helpers"
	svc "github.com/dropDatabas3/backoffice/internal/http/services/admin"
	"github.com/dropDatabas3/backoffice/internal/observability/logger"
)

// RolesController maneja las rutas /admin/roles.
type RolesController struct {
	service svc.RoleService
}

// NewRolesController crea un nuevo controller de roles.
func NewRolesController(service svc.RoleService) *RolesController {
	return &RolesController{service: service}
}

// List maneja GET /admin/roles
func (c *RolesController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	roles, err := c.service.List(ctx)
	if err != nil {
		logger.From(ctx).Error("role list failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}

	resp := make([]dto.RoleResponse, 0, len(roles))
	for _, role := range roles {
		resp = append(resp, toRoleResponse(role))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Get maneja GET /admin/roles/{id}
func (c *RolesController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	role, err := c.service.Get(r.Context(), id)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toRoleResponse(role))
}

// Create maneja POST /admin/roles
func (c *RolesController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("RolesController.Create"),
	)

	var req dto.RoleCreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	grants, err := parseGrants(req.Grants)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	role, err := c.service.Create(ctx, req.Name, req.Description, grants)
	if err != nil {
		log.Warn("create failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, toRoleResponse(role))
}

// Update maneja PUT /admin/roles/{id}
func (c *RolesController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("RolesController.Update"),
	)

	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	var req dto.RoleUpdateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	role, err := c.service.UpdateInfo(ctx, id, req.Name, req.Description, req.Disabled)
	if err != nil {
		log.Warn("update failed", logger.RoleID(id.String()), logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toRoleResponse(role))
}

// ReplaceGrants maneja PUT /admin/roles/{id}/grants
func (c *RolesController) ReplaceGrants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("RolesController.ReplaceGrants"),
	)

	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	var req dto.RoleGrantsRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	grants, err := parseGrants(req.Grants)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	role, err := c.service.ReplaceGrants(ctx, id, grants)
	if err != nil {
		log.Warn("replace grants failed", logger.RoleID(id.String()), logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toRoleResponse(role))
}

// Delete maneja DELETE /admin/roles/{id}
func (c *RolesController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("RolesController.Delete"),
	)

	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	if err := c.service.Delete(ctx, id); err != nil {
		log.Warn("delete failed", logger.RoleID(id.String()), logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
