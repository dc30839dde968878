package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/petcare/internal/logging"
	"github.com/dmitrijs2005/petcare/internal/server/services"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const callerKey ctxKey = "caller"

// CallerFrom returns the identity attached by Authenticate, or nil for an
// anonymous request.
func CallerFrom(ctx context.Context) *services.Identity {
	id, _ := ctx.Value(callerKey).(*services.Identity)
	return id
}

func WithCaller(ctx context.Context, id *services.Identity) context.Context {
	return context.WithValue(ctx, callerKey, id)
}

// Authenticate resolves an optional bearer token. Requests without one pass
// through anonymously; a present but invalid or expired token is rejected.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := h.identity.Session(r.Context(), token)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), id)))
	})
}

// RequestLogger logs one line per request.
func RequestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			}
			if id := CallerFrom(r.Context()); id != nil {
				args = append(args, "user_id", id.UserID)
			}
			logger.Info(r.Context(), "http request", args...)
		})
	}
}
