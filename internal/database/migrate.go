package database

import (
	"errors"
	"fmt"

	"github.com/alexivanou/weather-requests-api/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
)

// MigrationSource returns the migrations directory URL for the configured database.
func MigrationSource(root string, cfg config.DBConfig) string {
	if cfg.IsMemory() {
		return "file://" + root + "/sqlite"
	}
	return "file://" + root + "/postgres"
}

// NewMigrator builds a migrate instance for db. In-memory SQLite must
// reuse the open handle or the schema lands in a different database.
func NewMigrator(db *sqlx.DB, cfg config.DBConfig, root string) (*migrate.Migrate, error) {
	source := MigrationSource(root, cfg)
	if !cfg.IsMemory() {
		m, err := migrate.New(source, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("could not create migrate instance: %w", err)
		}
		return m, nil
	}

	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(source, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}

// Migrate applies every pending up migration.
func Migrate(db *sqlx.DB, cfg config.DBConfig, root string) error {
	m, err := NewMigrator(db, cfg, root)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
