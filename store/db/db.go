package db

import (
	"github.com/pkg/errors"

	"github.com/shotstash/shotstash/internal/profile"
	"github.com/shotstash/shotstash/store"
	"github.com/shotstash/shotstash/store/db/postgres"
)

// NewDBDriver creates new db driver based on profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q: only postgres is supported (trigram and vector search need pg_trgm and pgvector)", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
