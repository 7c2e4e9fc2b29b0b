package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"pwpolicy/internal/platform/config"
	"pwpolicy/internal/policy/metrics"
	"pwpolicy/internal/policy/models"
	"pwpolicy/internal/policy/rules"
	"pwpolicy/internal/policy/tokenizer"
	"pwpolicy/pkg/requestcontext"
)

// HistoryGate checks and records password reuse.
type HistoryGate interface {
	IsReused(ctx context.Context, userID, password string) bool
	Record(ctx context.Context, userID, password, clientIP string)
	Enabled() bool
}

// LocaleResolver picks the message locale of one validation.
type LocaleResolver interface {
	Resolve(identityLocale, acceptLanguage string) string
}

// ReportBuilder renders violations into a verdict.
type ReportBuilder interface {
	Build(locale string, violations []models.Violation) *models.Verdict
}

// Service validates candidate passwords against the password policy.
type Service struct {
	locales   LocaleResolver
	reports   ReportBuilder
	history   HistoryGate
	tokenizer *tokenizer.Tokenizer
	minLength int
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithHistory enables reuse checks and recording of accepted passwords.
func WithHistory(gate HistoryGate) Option {
	return func(s *Service) {
		s.history = gate
	}
}

// WithMinLength sets the minimum password length. Values <= 0 keep the default.
func WithMinLength(n int) Option {
	return func(s *Service) {
		s.minLength = rules.EffectiveMinLength(n)
	}
}

func WithTokenizer(t *tokenizer.Tokenizer) Option {
	return func(s *Service) {
		if t != nil {
			s.tokenizer = t
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New constructs a Service.
func New(locales LocaleResolver, reports ReportBuilder, opts ...Option) (*Service, error) {
	if locales == nil {
		return nil, errors.New("locale resolver is required")
	}
	if reports == nil {
		return nil, errors.New("report builder is required")
	}

	s := &Service{
		locales:   locales,
		reports:   reports,
		tokenizer: tokenizer.New(config.DefaultStopWords),
		minLength: rules.DefaultMinLength,
		logger:    slog.Default(),
		tracer:    otel.Tracer("pwpolicy/internal/policy/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MinLength returns the effective minimum password length.
func (s *Service) MinLength() int {
	return s.minLength
}

// Validate evaluates req and returns the verdict. It never fails: store and
// catalog problems degrade according to their own policies. An accepted
// password of a known user is recorded in the history store.
func (s *Service) Validate(ctx context.Context, req models.ValidationRequest) *models.Verdict {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "policy.Validate")
	defer span.End()

	identityLocale := ""
	if req.Identity != nil {
		identityLocale = req.Identity.Locale
	}
	locale := s.locales.Resolve(identityLocale, req.AcceptLanguage)
	username := req.Username()

	var reuse rules.ReuseChecker
	if s.history != nil {
		reuse = s.history
	}
	violations := rules.Evaluate(ctx, rules.Input{
		Password:  req.Password,
		UserID:    username,
		Tokens:    s.tokenizer.ForbiddenTokens(req.Identity),
		MinLength: s.minLength,
		Reuse:     reuse,
	})
	verdict := s.reports.Build(locale, violations)

	if verdict.Accepted && username != "" && req.Password != nil && s.history != nil {
		s.history.Record(ctx, username, *req.Password, s.clientIP(ctx, req))
	}

	span.SetAttributes(
		attribute.Bool("policy.accepted", verdict.Accepted),
		attribute.Int("policy.violations", len(violations)),
		attribute.String("policy.locale", locale),
	)
	s.metrics.ObserveVerdict(verdict, time.Since(start))
	s.logVerdict(ctx, username, verdict)
	return verdict
}

// ValidateUsername validates password for a host that only knows the
// username. No identity is available, so neither forbidden words nor
// history apply.
func (s *Service) ValidateUsername(ctx context.Context, username string, password *string) *models.Verdict {
	s.logger.DebugContext(ctx, "validating without identity",
		"request_id", requestcontext.RequestID(ctx),
		"username", username,
	)
	return s.Validate(ctx, models.ValidationRequest{Password: password})
}

func (s *Service) clientIP(ctx context.Context, req models.ValidationRequest) string {
	if req.ClientIP != "" {
		return req.ClientIP
	}
	return requestcontext.ClientIP(ctx)
}

func (s *Service) logVerdict(ctx context.Context, username string, verdict *models.Verdict) {
	if verdict.Accepted {
		s.logger.InfoContext(ctx, "password accepted",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", username,
			"locale", verdict.Locale,
		)
		return
	}

	kinds := make([]string, 0, len(verdict.Violations))
	for _, v := range verdict.Violations {
		kinds = append(kinds, string(v.Kind))
	}
	s.logger.InfoContext(ctx, "password rejected",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", username,
		"locale", verdict.Locale,
		"violations", kinds,
	)
}
