package middlewares

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dropDatabas3/backoffice/internal/observability/logger"
)

const requestIDHeader = "X-Request-ID"

// WithRequestID asegura que toda request tenga un request ID: respeta el
// header entrante si viene, o genera uno nuevo. Lo propaga en el contexto,
// en el logger del contexto y en el header de respuesta.
func WithRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get(requestIDHeader)
			if rid == "" {
				rid = uuid.NewString()
			}

			ctx := setRequestID(r.Context(), rid)
			ctx = logger.ToContext(ctx, logger.L().With(logger.RequestID(rid)))

			w.Header().Set(requestIDHeader, rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
