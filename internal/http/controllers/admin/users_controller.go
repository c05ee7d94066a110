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

// UsersController maneja las rutas /admin/users.
type UsersController struct {
	service svc.UserService
}

// NewUsersController crea un nuevo controller de usuarios.
func NewUsersController(service svc.UserService) *UsersController {
	return &UsersController{service: service}
}

// List maneja GET /admin/users
func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := c.service.List(ctx)
	if err != nil {
		logger.From(ctx).Error("user list failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Get maneja GET /admin/users/{id}
func (c *UsersController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	user, err := c.service.Get(r.Context(), id)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// Create maneja POST /admin/users
func (c *UsersController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("UsersController.Create"),
	)

	var req dto.UserCreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Password == "" {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("password is required"))
		return
	}

	roleIDs, err := parseUUIDs(req.RoleIDs, "role_id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	user, err := c.service.Create(ctx, req.Email, req.FullName, req.Password, roleIDs, req.DirectPerms)
	if err != nil {
		log.Warn("create failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// AssignRoles maneja PUT /admin/users/{id}/roles
func (c *UsersController) AssignRoles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("UsersController.AssignRoles"),
	)

	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	var req dto.UserRolesRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	roleIDs, err := parseUUIDs(req.RoleIDs, "role_id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	user, err := c.service.AssignRoles(ctx, id, roleIDs)
	if err != nil {
		log.Warn("assign roles failed", logger.UserID(id.String()), logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// SetDirectGrants maneja PUT /admin/users/{id}/permissions
func (c *UsersController) SetDirectGrants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("UsersController.SetDirectGrants"),
	)

	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	var req dto.UserDirectPermsRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	user, err := c.service.SetDirectGrants(ctx, id, req.Codes)
	if err != nil {
		log.Warn("set direct grants failed", logger.UserID(id.String()), logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// SetStatus maneja PATCH /admin/users/{id}/status
func (c *UsersController) SetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("UsersController.SetStatus"),
	)

	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	var req dto.UserDisableRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	user, err := c.service.SetDisabled(ctx, id, req.Disabled)
	if err != nil {
		log.Warn("status change failed", logger.UserID(id.String()), logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// Delete maneja DELETE /admin/users/{id}
func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("UsersController.Delete"),
	)

	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	if err := c.service.Delete(ctx, id); err != nil {
		log.Warn("delete failed", logger.UserID(id.String()), logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
