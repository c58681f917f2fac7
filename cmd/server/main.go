package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/smart-form-builder-api/internal/api"
	"github.com/smart-form-builder-api/internal/config"
	"github.com/smart-form-builder-api/internal/database"
	"github.com/smart-form-builder-api/internal/repository"
	"github.com/smart-form-builder-api/internal/service"
	"github.com/smart-form-builder-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", "json")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("store", cfg.Store.Driver).Msg("Starting Smart Form Builder API server...")

	// Initialize store and repositories
	repos, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to close store")
		}
	}()

	// Initialize services
	services := service.NewServices(repos, cfg, log)

	// Bootstrap admin; a failure leaves the server usable for public routes
	if _, err := services.Auth.EnsureAdmin(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to create admin user")
	}

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited gracefully")
}

// openStore connects to the configured store and returns its repositories
// together with a function releasing the connection.
func openStore(cfg *config.Config, log zerolog.Logger) (*repository.Repositories, func(context.Context) error, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		m, err := database.NewMongo(&cfg.Store, log)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewMongo(m), m.Close, nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.New(&cfg.Store, log)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(cfg.Store.MigrationsDir()); err != nil {
			db.Close(context.Background())
			return nil, nil, err
		}
		return repository.NewSQL(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
