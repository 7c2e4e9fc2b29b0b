package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pwpolicy/internal/policy/models"
	"pwpolicy/internal/policy/rules"
	"pwpolicy/pkg/platform/httputil"
	"pwpolicy/pkg/requestcontext"
)

// Metadata the host shows when the policy is configured.
const (
	PolicyID          = "custom-password-policy"
	PolicyDisplayName = "Custom Password Policy"
	PolicyConfigType  = "int"
)

// Service defines the interface for password validation.
type Service interface {
	Validate(ctx context.Context, req models.ValidationRequest) *models.Verdict
	ValidateUsername(ctx context.Context, username string, password *string) *models.Verdict
	MinLength() int
}

// Handler wires password policy endpoints to the policy service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a password policy handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts password policy endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/password-policy/validate", h.HandleValidate)
	r.Get("/password-policy/config", h.HandleConfig)
}

// HandleValidate handles POST /password-policy/validate requests. A rejected
// password is a successful call: the verdict is in the body.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ValidateRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	var verdict *models.Verdict
	if req.UsernameOnly() {
		verdict = h.service.ValidateUsername(ctx, req.Username, req.Password)
	} else {
		verdict = h.service.Validate(ctx, req.ToModel(
			r.Header.Get("Accept-Language"),
			requestcontext.ClientIP(ctx),
		))
	}

	h.logger.DebugContext(ctx, "password validation served",
		"request_id", requestID,
		"caller", requestcontext.Service(ctx),
		"accepted", verdict.Accepted,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromVerdict(verdict))
}

// HandleConfig handles GET /password-policy/config requests.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, &ConfigResponse{
		ID:           PolicyID,
		DisplayName:  PolicyDisplayName,
		ConfigType:   PolicyConfigType,
		DefaultValue: strconv.Itoa(rules.DefaultMinLength),
		MinLength:    h.service.MinLength(),
	})
}
