package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwpolicy/internal/platform/metrics"
	"pwpolicy/pkg/platform/middleware/auth"
	"pwpolicy/pkg/requestcontext"
)

type echoRoutes struct{}

func (echoRoutes) Register(r chi.Router) {
	r.Get("/password-policy/config", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, requestcontext.Service(r.Context())+"|"+requestcontext.ClientIP(r.Context()))
	})
}

func newTestRouter(validator *auth.TokenValidator, health map[string]HealthCheck) http.Handler {
	reg := prometheus.NewRegistry()
	return NewRouter(Deps{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:   metrics.New(reg),
		Gatherer:  reg,
		Validator: validator,
		Policy:    echoRoutes{},
		Health:    health,

		// httptest requests arrive from 192.0.2.1
		TrustedProxies: []netip.Prefix{netip.MustParsePrefix("192.0.2.1/32")},
	})
}

func TestPolicyRoutesRequireServiceToken(t *testing.T) {
	validator := auth.NewTokenValidator("test-signing-key", "pwpolicy")
	router := newTestRouter(validator, nil)

	t.Run("missing token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/password-policy/config", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := validator.IssueToken("keycloak", time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/password-policy/config", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("X-Real-IP", "192.0.2.10")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "keycloak|192.0.2.10", rr.Body.String())
	})
}

func TestPolicyRoutesOpenWithoutValidator(t *testing.T) {
	router := newTestRouter(nil, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/password-policy/config", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		router := newTestRouter(nil, map[string]HealthCheck{
			"history": func(context.Context) error { return nil },
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok","history":"ok"}`, rr.Body.String())
	})

	t.Run("degraded", func(t *testing.T) {
		router := newTestRouter(nil, map[string]HealthCheck{
			"history": func(context.Context) error { return errors.New("connection refused") },
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.JSONEq(t, `{"status":"degraded","history":"connection refused"}`, rr.Body.String())
	})
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(nil, nil)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pwpolicy_http_requests_total")
}
