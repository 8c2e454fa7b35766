package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"securehook/internal/api"
	"securehook/internal/api/handlers"
	"securehook/internal/api/middleware"
	"securehook/internal/engine/webhooks"
	"securehook/internal/pkg/logger"
	"securehook/internal/platform/auth"
	"securehook/internal/platform/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging)

	// Missing secrets degrade requests to rejections; they do not stop the server.
	if missing := cfg.Secrets.Missing(); len(missing) > 0 {
		log.Warn().Strs("missing", missing).Msg("secrets not configured; affected requests will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Engine
	secrets := cfg.Secrets
	gate := webhooks.NewGate(secrets)
	issuer := webhooks.NewIssuer(secrets, auth.NewPasswordChecker(secrets))

	// Middleware
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.SignPerMinute)
	go rateLimiter.Run(ctx)

	deps := &api.Dependencies{
		WebhookHandler:   handlers.NewWebhookHandler(handlers.NewLogSink()),
		SignatureHandler: handlers.NewSignatureHandler(issuer, cfg.Server.MaxBodySize),
		HealthHandler:    handlers.NewHealthHandler(secrets),
		WebhookAuth:      middleware.NewWebhookAuth(gate, cfg.Server.MaxBodySize),
		RateLimiter:      rateLimiter,
		CORS:             cfg.CORS,
		StaticDir:        cfg.Server.StaticDir,
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("secure webhook server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server failed")
	}
}
