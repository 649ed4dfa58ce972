package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations brings the attendance schema up to the newest embedded
// version. A dirty schema stops startup rather than serving against a
// half-applied migration.
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: "schema_migrations"})
	if err != nil {
		return fmt.Errorf("create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}

	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	if err := checkDirty(from, dirty); err != nil {
		return err
	}

	target, err := latestVersion()
	if err != nil {
		return err
	}
	if from > target {
		return fmt.Errorf("database schema version %d is newer than this build (%d)", from, target)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info("database schema ready", zap.Uint("from_version", from), zap.Uint("version", target))
	return nil
}

func checkDirty(version uint, dirty bool) error {
	if !dirty {
		return nil
	}
	return fmt.Errorf("migration %d is dirty: repair the schema, then run `migrate force %d`", version, version-1)
}

// latestVersion is the highest NNNNNN prefix among the embedded up migrations.
func latestVersion() (uint, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return 0, fmt.Errorf("read migrations: %w", err)
	}
	var latest uint
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			return 0, fmt.Errorf("migration %s has no version prefix", name)
		}
		v, err := strconv.ParseUint(prefix, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("migration %s: %w", name, err)
		}
		if uint(v) > latest {
			latest = uint(v)
		}
	}
	return latest, nil
}
