package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "pwpolicy/internal/http"
	"pwpolicy/internal/platform/config"
	"pwpolicy/internal/platform/database"
	"pwpolicy/internal/platform/httpserver"
	"pwpolicy/internal/platform/logger"
	platformmetrics "pwpolicy/internal/platform/metrics"
	"pwpolicy/internal/platform/redis"
	"pwpolicy/internal/policy/catalog"
	policyhandler "pwpolicy/internal/policy/handler"
	"pwpolicy/internal/policy/history"
	policymetrics "pwpolicy/internal/policy/metrics"
	"pwpolicy/internal/policy/report"
	"pwpolicy/internal/policy/service"
	"pwpolicy/internal/policy/store"
	"pwpolicy/internal/policy/tokenizer"
	"pwpolicy/pkg/platform/middleware/auth"
	"pwpolicy/pkg/platform/middleware/metadata"
)

// main wires dependencies, exposes the HTTP router and keeps the server
// lifecycle small. Policy logic lives in internal/policy.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.Logging)

	if err := run(cfg, log); err != nil {
		log.Error("pwpolicy stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	policyMetrics := policymetrics.New(reg)

	historyStore, health, closeStore, err := openHistoryStore(ctx, cfg.History, log)
	if err != nil {
		return err
	}
	defer closeStore()

	gate := history.New(historyStore,
		history.WithLogger(log),
		history.WithRecorder(policyMetrics),
		history.WithTimeout(cfg.History.QueryTimeout),
	)

	messages := catalog.New(
		catalog.WithDir(cfg.Policy.MessagesDir),
		catalog.WithDefaultLocale(cfg.Policy.DefaultLocale),
		catalog.WithLogger(log),
	)

	policyService, err := service.New(messages,
		report.New(messages, report.WithSeparator(cfg.Policy.MessageSeparator)),
		service.WithLogger(log),
		service.WithMetrics(policyMetrics),
		service.WithMinLength(cfg.Policy.MinLength),
		service.WithTokenizer(tokenizer.New(cfg.Policy.StopWords)),
		service.WithHistory(gate),
	)
	if err != nil {
		return fmt.Errorf("build policy service: %w", err)
	}

	proxies, err := metadata.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return fmt.Errorf("load trusted proxies: %w", err)
	}
	if len(proxies) == 0 {
		log.Info("POLICY_TRUSTED_PROXIES not set, forwarding headers are ignored")
	}

	var validator *auth.TokenValidator
	if cfg.Server.ServiceTokenKey != "" {
		validator = auth.NewTokenValidator(cfg.Server.ServiceTokenKey, cfg.Server.ServiceTokenAudience)
	} else {
		log.Warn("POLICY_SERVICE_TOKEN_KEY not set, password policy endpoints are unauthenticated")
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:         log,
		Metrics:        platformmetrics.New(reg),
		Gatherer:       reg,
		Validator:      validator,
		Policy:         policyhandler.New(policyService, log),
		Health:         health,
		TrustedProxies: proxies,
	})

	srv := httpserver.New(cfg.Server.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting pwpolicy",
			"addr", cfg.Server.Addr,
			"min_length", policyService.MinLength(),
			"history_backend", cfg.History.Backend,
			"history_enabled", gate.Enabled(),
			"locales", messages.Supported(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("pwpolicy stopped")
	return nil
}

// openHistoryStore selects the history backend. An incomplete configuration
// disables history; a configured store that cannot be reached stops startup.
func openHistoryStore(ctx context.Context, cfg config.History, log *slog.Logger) (history.Store, map[string]httpapi.HealthCheck, func(), error) {
	noop := func() {}
	if !cfg.Enabled() {
		log.Warn("password history not configured, reuse checks disabled", "backend", cfg.Backend)
		return nil, nil, noop, nil
	}

	switch cfg.Backend {
	case config.BackendMemory:
		log.Warn("password history kept in memory, it is lost on restart")
		return store.NewInMemory(), nil, noop, nil

	case config.BackendRedis:
		client, err := redis.New(ctx, redis.Config{
			URL:          cfg.RedisURL,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.QueryTimeout,
			WriteTimeout: cfg.QueryTimeout,
		})
		if err != nil {
			return nil, nil, noop, fmt.Errorf("connect history redis: %w", err)
		}
		health := map[string]httpapi.HealthCheck{"history": client.Health}
		return store.NewRedis(client.Client), health, func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		db, err := database.OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, nil, noop, err
		}
		s, err := store.NewPostgres(db, cfg.Table)
		return sqlStore(s, db, err)

	case config.BackendMySQL:
		db, err := database.OpenMySQL(ctx, cfg)
		if err != nil {
			return nil, nil, noop, err
		}
		s, err := store.NewMySQL(db, cfg.Table)
		return sqlStore(s, db, err)

	default:
		return nil, nil, noop, fmt.Errorf("unknown PASSWORD_HISTORY_BACKEND %q", cfg.Backend)
	}
}

func sqlStore(s *store.SQLStore, db *sql.DB, err error) (history.Store, map[string]httpapi.HealthCheck, func(), error) {
	if err != nil {
		_ = db.Close()
		return nil, nil, func() {}, err
	}
	health := map[string]httpapi.HealthCheck{"history": db.PingContext}
	return s, health, func() { _ = db.Close() }, nil
}
