package cms

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-cms-elements/internal/migrations"
	"github.com/uptrace/bun"
)

// GetMigrationsFS returns the embedded migrations, one directory per dialect
// under sql/.
func GetMigrationsFS() fs.FS {
	return migrations.FS()
}

// ApplyMigrations creates the element tables for dialect on db. Hosts that
// run their own migration tool should read GetMigrationsFS instead.
func ApplyMigrations(ctx context.Context, db bun.IDB, dialect string) error {
	return migrations.Apply(ctx, db, dialect)
}
