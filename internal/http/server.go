// Package http arma el handler del admin API y el servidor.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	ctrl "github.com/dropDatabas3/backoffice/internal/http/controllers/admin"
	"github.com/dropDatabas3/backoffice/internal/http/helpers"
	mw "github.com/dropDatabas3/backoffice/internal/http/middlewares"
	jwtx "github.com/dropDatabas3/backoffice/internal/jwt"
)

// Deps contiene lo necesario para armar el handler completo.
type Deps struct {
	Controllers *ctrl.Controllers
	Issuer      *jwtx.Issuer
	CORSOrigins []string
	Registry    prometheus.Registerer
}

// NewHandler construye el router del admin API con middlewares, métricas y
// todas las rutas registradas.
func NewHandler(d Deps) (http.Handler, error) {
	metricsHandler, err := RegisterMetrics(d.Registry)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(
		mw.WithRequestID(),
		mw.WithRecover(),
		mw.WithLogging(),
		WithMetrics,
		mw.WithCORS(d.CORSOrigins),
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metricsHandler)

	c := d.Controllers

	r.Route("/admin", func(r chi.Router) {
		r.Post("/auth/login", c.Auth.Login)

		// Todo lo demás requiere token.
		r.Group(func(r chi.Router) {
			r.Use(mw.WithAuth(d.Issuer))

			r.Route("/roles", func(r chi.Router) {
				r.With(perm("roles:read")).Get("/", c.Roles.List)
				r.With(perm("roles:read")).Get("/{id}", c.Roles.Get)
				r.With(perm("roles:write")).Post("/", c.Roles.Create)
				r.With(perm("roles:write")).Put("/{id}", c.Roles.Update)
				r.With(perm("roles:write")).Put("/{id}/grants", c.Roles.ReplaceGrants)
				r.With(perm("roles:write")).Delete("/{id}", c.Roles.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.With(perm("users:read")).Get("/", c.Users.List)
				r.With(perm("users:read")).Get("/{id}", c.Users.Get)
				r.With(perm("users:write")).Post("/", c.Users.Create)
				r.With(perm("users:write")).Put("/{id}/roles", c.Users.AssignRoles)
				r.With(perm("users:write")).Put("/{id}/permissions", c.Users.SetDirectGrants)
				r.With(perm("users:write")).Patch("/{id}/status", c.Users.SetStatus)
				r.With(perm("users:write")).Delete("/{id}", c.Users.Delete)
			})

			r.Route("/menus", func(r chi.Router) {
				r.With(perm("menus:read")).Get("/", c.Menus.List)
				r.With(perm("menus:read")).Get("/tree", c.Menus.Tree)
				r.With(perm("menus:read")).Get("/{id}", c.Menus.Get)
				r.With(perm("menus:write")).Post("/", c.Menus.Create)
				r.With(perm("menus:write")).Put("/{id}", c.Menus.Update)
				r.With(perm("menus:write")).Delete("/{id}", c.Menus.Delete)
			})
		})
	})

	return r, nil
}

func perm(code string) func(http.Handler) http.Handler {
	return mw.RequirePermission(code)
}

// Server envuelve http.Server con timeouts sanos y shutdown prolijo.
type Server struct {
	srv *http.Server
}

// NewServer crea el servidor HTTP sobre el handler dado.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start bloquea sirviendo requests hasta Shutdown.
func (s *Server) Start() error {
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drena conexiones en curso respetando el contexto.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
