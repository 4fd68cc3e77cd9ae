// Package db opens the database, applies the schema and seeds demo data.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AnokSystem/anok-pedido-flow/internal/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	connectAttempts = 10
	retryDelay      = 2 * time.Second
)

// Open returns the GORM dialector for cfg.
func Open(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		return postgres.Open(NormalizeDSN(cfg.DSN())), nil
	case DriverSQLite:
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// Connect opens the database described by cfg, retrying while the server is
// not reachable yet, and checks the connection with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	dialector, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	if cfg.Driver == DriverSQLite {
		log.Info().Str("driver", cfg.Driver).Str("path", cfg.SQLitePath).Msg("opening database")
	} else {
		log.Info().Str("driver", DriverPostgres).Str("dsn", MaskDSN(NormalizeDSN(cfg.DSN()))).Msg("opening database")
	}

	var conn *gorm.DB
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		conn, err = gorm.Open(dialector, gcfg)
		if err == nil {
			err = Ping(ctx, conn)
		}
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("database not ready, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// SQLite has a single writer; one connection also keeps in-memory databases alive.
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return conn, nil
}

// Ping checks that the underlying connection is alive.
func Ping(ctx context.Context, conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping failed: %w", err)
	}
	return nil
}
