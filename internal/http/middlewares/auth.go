package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/backoffice/internal/http/errors"
	jwtx "github.com/dropDatabas3/backoffice/internal/jwt"
	"github.com/dropDatabas3/backoffice/internal/observability/logger"
)

// WithAuth valida el bearer token y deja las claims en el contexto.
// Sin token o con token inválido responde 401.
func WithAuth(issuer *jwtx.Issuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
				errors.WriteError(w, errors.ErrUnauthorized.WithDetail("missing bearer token"))
				return
			}

			claims, err := issuer.Parse(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				errors.WriteError(w, errors.ErrUnauthorized.WithDetail("invalid or expired token"))
				return
			}

			ctx := withClaims(r.Context(), claims)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(claims.Subject)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission exige que las claims incluyan el código de permiso dado.
// Debe aplicarse después de WithAuth.
func RequirePermission(code string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cl := GetClaims(r.Context())
			if cl == nil {
				errors.WriteError(w, errors.ErrUnauthorized.WithDetail("no claims in context"))
				return
			}
			if !cl.HasPerm(code) {
				errors.WriteError(w, errors.ErrForbidden.WithDetail("missing permission: "+code))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
