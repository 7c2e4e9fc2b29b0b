// Package httpapi assembles the HTTP surface: shared middleware, health and
// metrics endpoints, and the password policy routes behind host authentication.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pwpolicy/internal/platform/metrics"
	"pwpolicy/internal/platform/middleware"
	"pwpolicy/pkg/platform/httputil"
	"pwpolicy/pkg/platform/middleware/auth"
	"pwpolicy/pkg/platform/middleware/metadata"
	"pwpolicy/pkg/platform/middleware/request"
	"pwpolicy/pkg/platform/middleware/requesttime"
)

const healthTimeout = 2 * time.Second

// RouteRegistrar mounts a module's routes.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Deps are the collaborators of the router. Validator, Gatherer and
// TrustedProxies are optional.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Validator      *auth.TokenValidator
	Policy         RouteRegistrar
	Health         map[string]HealthCheck
	TrustedProxies []netip.Prefix
}

// NewRouter wires all public endpoints.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata(d.TrustedProxies))
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Latency(d.Metrics))

	r.Get("/healthz", healthz(d.Health))

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireServiceToken(d.Validator, d.Logger))
		d.Policy.Register(r)
	})

	return r
}

func healthz(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
				continue
			}
			body[name] = "ok"
		}
		httputil.WriteJSON(w, status, body)
	}
}
