package db

import (
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	"github.com/AnokSystem/anok-pedido-flow/internal/config"
	"github.com/AnokSystem/anok-pedido-flow/internal/models"
)

// MigrationsSource is where the SQL migrations live, relative to the working directory.
const MigrationsSource = "file://migrations"

// requiredTables must exist once the schema is in place.
var requiredTables = []string{"users", "company_settings", "clients", "products", "orders", "order_items"}

// Migrate brings the schema up to date. With cfg.Migrations set and a
// postgres database it runs the SQL migrations via golang-migrate; otherwise
// it falls back to GORM AutoMigrate (dev convenience, and always for sqlite).
func Migrate(conn *gorm.DB, cfg *config.Config) error {
	if cfg != nil && cfg.App.Migrations && cfg.Database.Driver != DriverSQLite {
		if err := RunSQLMigrations(ToURLDSN(NormalizeDSN(cfg.Database.DSN()))); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else if err := AutoMigrate(conn); err != nil {
		return err
	}
	for _, table := range requiredTables {
		if !conn.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// AutoMigrate runs GORM AutoMigrate for all models.
func AutoMigrate(conn *gorm.DB) error {
	for _, m := range models.All() {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// RunSQLMigrations executes the migrations in ./migrations against a
// postgres URL.
func RunSQLMigrations(databaseURL string) error {
	m, err := migrate.New(MigrationsSource, databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
