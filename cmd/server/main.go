package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/AnokSystem/anok-pedido-flow/auth"
	"github.com/AnokSystem/anok-pedido-flow/internal/config"
	"github.com/AnokSystem/anok-pedido-flow/internal/db"
	"github.com/AnokSystem/anok-pedido-flow/internal/handlers"
	"github.com/AnokSystem/anok-pedido-flow/internal/logging"
	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := logging.New(cfg.Log.Format, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(conn, cfg); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
		logger.Info().Msg("migrations completed successfully")
		return
	}

	if *seedOnlyFlag {
		if err := seed(conn, cfg, logger); err != nil {
			logger.Fatal().Err(err).Msg("seeding failed")
		}
		return
	}

	if err := db.Migrate(conn, cfg); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}
	if cfg.App.Seed {
		if err := seed(conn, cfg, logger); err != nil {
			logger.Fatal().Err(err).Msg("seeding failed")
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      newHandler(conn, cfg, logger),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Bool("dev", cfg.App.Dev).
			Bool("require_dimensions", cfg.Pricing.RequireDimensions).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
	}
	logger.Info().Msg("server stopped gracefully")
}

// newHandler configures sessions and wires every handler on conn.
func newHandler(conn *gorm.DB, cfg *config.Config, logger zerolog.Logger) http.Handler {
	auth.Configure(cfg.App.SessionSecret, cfg.App.SessionTTL)

	routerCfg := handlers.NewRouterConfig(conn, handlers.Options{
		Calculator:  pricing.Calculator{RequireDimensions: cfg.Pricing.RequireDimensions},
		OrderPrefix: cfg.Pricing.OrderPrefix,
		QuotePrefix: cfg.Pricing.QuotePrefix,
	})
	auth.SetUserVerifier(routerCfg.Users.Exists)

	return NewApp(conn, routerCfg, logger)
}

// seed inserts the demo account. The schema is migrated first so it also
// works on an empty database.
func seed(conn *gorm.DB, cfg *config.Config, logger zerolog.Logger) error {
	if err := db.Migrate(conn, cfg); err != nil {
		return err
	}
	if err := db.Seed(conn); err != nil {
		return err
	}
	logger.Info().Str("email", db.DemoEmail).Msg("seed completed")
	return nil
}
