package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every route of the API. reg receives the HTTP metrics and
// is served back on /metrics.
func NewRouter(h *Handler, reg *prometheus.Registry) http.Handler {
	m := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Route("/api", func(r chi.Router) {
		r.Use(h.Authenticate)
		r.Use(RequestLogger(h.logger))

		r.Post("/auth/signup", h.SignUp)
		r.Post("/auth/signin", h.SignIn)
		r.Post("/auth/refresh", h.Refresh)
		r.Post("/auth/signout", h.SignOut)
		r.Get("/auth/session", h.Session)

		r.Route("/collections/{collection}/documents", func(r chi.Router) {
			r.Post("/", h.InsertDocument)
			r.Get("/", h.QueryDocuments)
			r.Delete("/{id}", h.DeleteDocument)
		})

		r.Put("/blobs/*", h.PutBlob)
		r.Get("/blobs/*", h.GetBlob)
	})

	return r
}
