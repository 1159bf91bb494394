package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	v1 "github.com/admin-concierge/api/v1"
	"github.com/admin-concierge/cache"
	"github.com/admin-concierge/database"
	"github.com/admin-concierge/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := openMigrated(cmd, cfg, log)
	if err != nil {
		log.Error("Database initialization failed", zap.Error(err))
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	store, err := cache.New(cfg.Cache, db, log)
	if err != nil {
		return err
	}

	svc := services.New(db, store, cfg, log)
	if svc.Auth.Enabled() {
		if purged, err := svc.Auth.PurgeExpiredSessions(cmd.Context()); err != nil {
			log.Warn("Failed to purge expired sessions", zap.Error(err))
		} else if purged > 0 {
			log.Info("Purged expired sessions", zap.Int64("count", purged))
		}
	}

	router := v1.NewEngine(v1.Dependencies{
		Config:   cfg,
		DB:       db,
		Services: svc,
		Log:      log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("environment", cfg.Environment),
			zap.String("cache", cfg.Cache.Driver),
			zap.Bool("auth", cfg.Auth.Enabled()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serverErr:
		if ok {
			log.Error("Server failed", zap.Error(err))
			return err
		}
		return nil
	case sig := <-quit:
		log.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
		return err
	}

	log.Info("Server stopped")
	return nil
}
