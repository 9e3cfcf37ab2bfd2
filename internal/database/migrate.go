package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"

	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"  // pgx migrate driver
	_ "github.com/golang-migrate/migrate/v4/source/file"      // file:// migration source
)

// RunMigrations applies all pending migrations from migrationsDir against
// the database at dsn. A database that is already up to date is not an
// error.
func RunMigrations(dsn, migrationsDir string) error {
	// golang-migrate's pgx/v5 driver registers the pgx5:// scheme.
	databaseURL := strings.Replace(dsn, "postgres://", "pgx5://", 1)

	m, err := migrate.New("file://"+migrationsDir, databaseURL)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}
