package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadscoring_backend/internal/artifact"
	apphttp "leadscoring_backend/internal/http"
	"leadscoring_backend/internal/http/router"
	"leadscoring_backend/internal/prediction"
	"leadscoring_backend/platform/config"
	"leadscoring_backend/platform/logger"
	"leadscoring_backend/platform/validator"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// Artifact loading must complete before the first request is served; a
	// missing bundle is a degraded state reported via /health, not a crash.
	bundle := loadBundle(cfg, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	predictionModule := prediction.NewModule(bundle, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Modules: []apphttp.Module{
			predictionModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

// loadBundle resolves and loads the artifact bundle, returning nil when the
// bundle is missing or invalid so the service can start degraded.
func loadBundle(cfg *config.Config, log *logger.Logger) *artifact.Bundle {
	dir, err := artifact.Resolve(cfg.ModelDir, cfg.ModelSearchPaths)
	if err != nil {
		log.ArtifactError("resolve", err)
		log.Warn("serving without model; health will report degraded")
		return nil
	}

	bundle, err := artifact.Load(dir)
	if err != nil {
		log.ArtifactError("load", err)
		log.Warn("serving without model; health will report degraded")
		return nil
	}

	log.Info("artifact bundle loaded",
		"dir", dir,
		"version", bundle.Version(),
		"features", bundle.Width(),
		"threshold", bundle.Threshold(),
	)
	return bundle
}
