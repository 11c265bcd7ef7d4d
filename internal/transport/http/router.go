package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	synchandler "basecamp/internal/cloudsync/handler"
	operatorhandler "basecamp/internal/operator/handler"
	"basecamp/internal/platform/health"
	"basecamp/internal/platform/middleware"
	reghandler "basecamp/internal/registration/handler"
	sethandler "basecamp/internal/settings/handler"
)

// Handlers bundles the per-feature HTTP handlers the router mounts.
type Handlers struct {
	Health       *health.Handler
	Registration *reghandler.Handler
	Settings     *sethandler.Handler
	Sync         *synchandler.Handler
	Operator     *operatorhandler.Handler
}

// NewRouter wires all endpoints with the middleware stack. Everything under
// /admin except login requires an operator session token.
func NewRouter(h Handlers, validator middleware.TokenValidator, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))

	h.Health.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	// Participant-facing endpoints.
	h.Registration.Register(r)
	h.Settings.RegisterPublic(r)

	r.Route("/admin", func(r chi.Router) {
		// Login is the only ungated admin endpoint.
		h.Operator.Register(r)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireOperator(validator, logger))
			h.Registration.RegisterAdmin(r)
			h.Settings.RegisterAdmin(r)
			h.Sync.RegisterAdmin(r)
		})
	})

	return r
}
