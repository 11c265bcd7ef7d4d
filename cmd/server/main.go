package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"basecamp/internal/cloudsync"
	synchandler "basecamp/internal/cloudsync/handler"
	syncmetrics "basecamp/internal/cloudsync/metrics"
	"basecamp/internal/cloudsync/tracer"
	operatorhandler "basecamp/internal/operator/handler"
	operatorservice "basecamp/internal/operator/service"
	"basecamp/internal/platform/config"
	"basecamp/internal/platform/database"
	"basecamp/internal/platform/health"
	"basecamp/internal/platform/logger"
	reghandler "basecamp/internal/registration/handler"
	regmetrics "basecamp/internal/registration/metrics"
	regservice "basecamp/internal/registration/service"
	regstore "basecamp/internal/registration/store"
	sethandler "basecamp/internal/settings/handler"
	setservice "basecamp/internal/settings/service"
	setstore "basecamp/internal/settings/store"
	httptransport "basecamp/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing basecamp",
		"addr", cfg.Addr,
		"db_path", cfg.DatabasePath,
		"retain_history", cfg.RetainHistory,
	)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	registrations := regstore.NewSQLiteStore(db)
	settingsStore := setstore.NewSQLiteStore(db)

	settings := setservice.NewService(settingsStore, log)

	syncClient := cloudsync.NewClient(
		cloudsync.WithTimeout(cfg.PushTimeout),
		cloudsync.WithIdentityFile(cfg.IncludeIdentityFile),
		cloudsync.WithTracer(tracer.NewOTel()),
	)
	coordinator := cloudsync.NewCoordinator(registrations, settings, syncClient, log,
		cloudsync.WithMetrics(syncmetrics.New()),
	)

	registration := regservice.NewService(registrations, settings, coordinator, log, cfg.RetainHistory,
		regservice.WithMetrics(regmetrics.New()),
	)
	operator := operatorservice.NewService(settings, log, cfg.JWTSigningKey, cfg.TokenTTL)

	healthHandler := health.New()
	healthHandler.RegisterCheck("database", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return db.Health(ctx)
	})

	router := httptransport.NewRouter(httptransport.Handlers{
		Health:       healthHandler,
		Registration: reghandler.New(registration, log),
		Settings:     sethandler.New(settings, log),
		Sync:         synchandler.New(coordinator, log),
		Operator:     operatorhandler.New(operator, log),
	}, operator, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
