package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationState describes the schema version after a migration run.
type MigrationState struct {
	Version uint
	Dirty   bool
}

// MigrateUp applies all pending migrations and reports the resulting version.
func (db *DB) MigrateUp(migrationsPath string) (MigrationState, error) {
	m, err := db.newMigrate(migrationsPath)
	if err != nil {
		return MigrationState{}, err
	}
	defer closeMigrate(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return MigrationState{}, fmt.Errorf("failed to run migrations: %w", err)
	}

	return version(m)
}

// MigrateDown rolls back the last migration.
func (db *DB) MigrateDown(migrationsPath string) (MigrationState, error) {
	m, err := db.newMigrate(migrationsPath)
	if err != nil {
		return MigrationState{}, err
	}
	defer closeMigrate(m)

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return MigrationState{}, fmt.Errorf("failed to rollback migration: %w", err)
	}

	return version(m)
}

// MigrateVersion returns the current migration version.
func (db *DB) MigrateVersion(migrationsPath string) (MigrationState, error) {
	m, err := db.newMigrate(migrationsPath)
	if err != nil {
		return MigrationState{}, err
	}
	defer closeMigrate(m)

	return version(m)
}

// MigrateReset rolls back all migrations. Destroys every table it created.
func (db *DB) MigrateReset(migrationsPath string) error {
	m, err := db.newMigrate(migrationsPath)
	if err != nil {
		return err
	}
	defer closeMigrate(m)

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to reset migrations: %w", err)
	}

	return nil
}

// ResolveMigrationsPath picks the migrations directory: the configured path
// when set, then ./migrations, then a migrations directory beside the
// executable, then /app/migrations.
func ResolveMigrationsPath(configured string) string {
	if configured != "" {
		return configured
	}

	if _, err := os.Stat("migrations"); err == nil {
		if absPath, err := filepath.Abs("migrations"); err == nil {
			return absPath
		}
	}

	if execPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), "migrations")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "/app/migrations"
}

func version(m *migrate.Migrate) (MigrationState, error) {
	v, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationState{}, fmt.Errorf("failed to get migration version: %w", err)
	}
	return MigrationState{Version: v, Dirty: dirty}, nil
}

func closeMigrate(m *migrate.Migrate) {
	_, _ = m.Close()
}

// newMigrate builds a migrator over its own single-connection pool.
// Closing the migrator closes that pool, never the shared one.
func (db *DB) newMigrate(migrationsPath string) (*migrate.Migrate, error) {
	if db.url == "" {
		return nil, errors.New("failed to create migration driver: database URL unknown")
	}

	conn, err := sql.Open("pgx", db.url)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration connection: %w", err)
	}
	conn.SetMaxOpenConns(1)

	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return m, nil
}
