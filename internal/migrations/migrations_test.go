package migrations_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-elements/internal/migrations"
	"github.com/goliatone/go-cms-elements/pkg/testsupport"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func TestFilesPerDialect(t *testing.T) {
	for _, dialect := range []string{"sqlite3", "postgres"} {
		names, err := migrations.Files(dialect)
		if err != nil {
			t.Fatalf("files %s: %v", dialect, err)
		}
		if len(names) == 0 {
			t.Fatalf("expected migrations for %s", dialect)
		}
	}
	if _, err := migrations.Files("oracle"); !errors.Is(err, migrations.ErrUnsupportedDialect) {
		t.Fatalf("expected unsupported dialect, got %v", err)
	}
}

func TestApplyIsRepeatable(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)

	for i := 0; i < 2; i++ {
		if err := migrations.Apply(ctx, db, migrations.DialectSQLite); err != nil {
			t.Fatalf("apply #%d: %v", i+1, err)
		}
	}

	for _, table := range []string{"pages", "cells", "elements", "contents", "essences"} {
		var count int
		if err := db.NewSelect().TableExpr(table).ColumnExpr("COUNT(*)").Scan(ctx, &count); err != nil {
			t.Fatalf("select from %s: %v", table, err)
		}
	}
}
