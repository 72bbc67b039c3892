package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pet-vaccination-history/internal/adapters/auth/remote"
	pg "pet-vaccination-history/internal/adapters/storage/postgres"
	lite "pet-vaccination-history/internal/adapters/storage/sqlite"
	"pet-vaccination-history/internal/config"
	"pet-vaccination-history/internal/domain/vaccinations"
	"pet-vaccination-history/internal/platform/logger"
	"pet-vaccination-history/internal/ports/auth"
	"pet-vaccination-history/internal/router"

	"github.com/spf13/cobra"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Levanta la API HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "aplicar migraciones de Postgres antes de arrancar")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	if s, ok := log.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	db, err := openStorage(cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	var verifier auth.AuthVerifier
	if cfg.Auth.VerifyURL != "" {
		v, err := remote.NewVerifier(remote.Config{
			VerifyURL: cfg.Auth.VerifyURL,
			APIKey:    cfg.Auth.APIKey,
			Timeout:   cfg.Auth.Timeout,
		})
		if err != nil {
			return err
		}
		verifier = v
	} else {
		log.Warn("auth verifier not configured, using X-Debug-User-ID (dev mode)", nil)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	policy := vaccinations.NewPolicyTable(cfg.Policy.DefaultMonths, vaccinations.DefaultIntervals).
		Extend(cfg.Policy.Intervals)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			AuthVerifier:   verifier,
			Logger:         log,
			DB:             db,
			Driver:         cfg.Database.Driver,
			Policy:         policy,
			Location:       loc,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":     srv.Addr,
			"driver":   cfg.Database.Driver,
			"timezone": loc.String(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStorage devuelve nil para el driver in-memory.
func openStorage(cfg config.Config, log logger.Logger) (*sql.DB, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		if autoMigrate {
			v, err := pg.Migrate(cfg.Database.DSN, true)
			if err != nil {
				return nil, err
			}
			log.Info("migrations applied", map[string]any{"version": v})
		}
		db, err := pg.Open(cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return db, nil
	case config.DriverSQLite:
		return lite.Open(cfg.Database.SQLitePath)
	default:
		log.Warn("using in-memory storage, data is lost on restart", nil)
		return nil, nil
	}
}
