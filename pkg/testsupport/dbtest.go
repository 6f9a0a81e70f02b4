package testsupport

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goliatone/go-cms-elements/internal/migrations"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewSQLiteMemoryDB opens a private shared-cache in-memory database so tests
// running in the same process do not see each other's tables.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	return sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
}

// NewMigratedBunDB returns a single-connection sqlite bun.DB with every
// migration applied.
func NewMigratedBunDB(ctx context.Context) (*bun.DB, error) {
	sqlDB, err := NewSQLiteMemoryDB()
	if err != nil {
		return nil, err
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	if err := migrations.Apply(ctx, db, migrations.DialectSQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
