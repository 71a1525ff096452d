package store

import (
	"context"
	"embed"
	"fmt"

	"github.com/pkg/errors"
)

// Migration files:
// - Location: store/migration/{driver}/LATEST.sql
// - LATEST.sql holds the full schema and is applied to fresh installations.
// Incremental migrations can be added alongside it once the schema evolves.

//go:embed migration
var migrationFS embed.FS

// Migrate initializes the database schema for a fresh installation. Already
// initialized databases are left untouched.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}
	if initialized {
		return nil
	}

	buf, err := migrationFS.ReadFile(fmt.Sprintf("migration/%s/LATEST.sql", s.profile.Driver))
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema for driver %q", s.profile.Driver)
	}

	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	return nil
}
