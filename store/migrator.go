package store

import (
	"context"
	"embed"
	"log/slog"
	"path/filepath"

	"github.com/pkg/errors"
)

//go:embed migration
var migrationFS embed.FS

const (
	// LatestSchemaFileName holds the full schema for new installations.
	LatestSchemaFileName = "LATEST.sql"
)

// Migrate initializes the database schema on a fresh installation. An
// already-initialized database is left untouched; incremental upgrades are
// handled out of band.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check database initialization")
	}
	if initialized {
		return nil
	}

	path := filepath.Join("migration", s.profile.Driver, LatestSchemaFileName)
	buf, err := migrationFS.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read schema file %s", path)
	}

	slog.Info("initializing database schema", "driver", s.profile.Driver)
	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}
