package db

import (
	"github.com/pkg/errors"

	"github.com/classwise/classwise/internal/profile"
	"github.com/classwise/classwise/store"
	"github.com/classwise/classwise/store/db/postgres"
	"github.com/classwise/classwise/store/db/sqlite"
)

// ============================================================================
// DATABASE SUPPORT POLICY
// ============================================================================
// PostgreSQL: Full support for production use, including vector search
// through the pgvector extension.
// SQLite: Development/testing only. CRUD is fully supported; vector search
// and embedding storage require PostgreSQL.
// ============================================================================

// NewDBDriver creates new db driver based on profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'postgres' and 'sqlite' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
