package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"travelgate/internal/platform/middleware"
)

// HealthCheck reports whether a dependency is usable. A nil check is
// treated as always healthy.
type HealthCheck func(ctx context.Context) error

// NewRouter wires all routes with the shared middleware chain.
func NewRouter(h *Handler, log *slog.Logger, timeout time.Duration, health HealthCheck) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if health != nil {
			if err := health(req.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/identity", h.GetIdentity)
		r.Post("/identity", h.CreateIdentity)
		r.Patch("/identity/{id}", h.UpdateIdentity)

		r.Get("/travel-profiles", h.ListProfileSummaries)
		r.Get("/travel-profiles/{loginID}", h.GetTravelProfile)
		r.Post("/travel-profiles/{loginID}", h.UpdateTravelProfile)
		r.Post("/travel-profiles/{loginID}/loyalty", h.UpdateLoyaltyProgram)

		r.Get("/audit-events", h.ListAuditEvents)
	})

	return r
}
