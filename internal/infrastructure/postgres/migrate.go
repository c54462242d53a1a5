package postgres

import (
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/stefankostic/efakture/pkg/config"
)

// RunMigrations applies the SQL migrations in cfg.MigrationsDir to the
// configured database. An already up-to-date schema is not an error.
func RunMigrations(cfg config.DBConfig) error {
	m, err := migrate.New("file://"+cfg.MigrationsDir, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
