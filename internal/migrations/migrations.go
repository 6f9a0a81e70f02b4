package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/uptrace/bun"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

//go:embed sql/*/*.sql
var files embed.FS

var ErrUnsupportedDialect = errors.New("migrations: unsupported dialect")

// FS exposes the embedded migration files, grouped by dialect directory.
func FS() fs.FS {
	return files
}

// Files lists the up migrations for dialect in apply order.
func Files(dialect string) ([]string, error) {
	dir := path.Join("sql", normalizeDialect(dialect))
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, dialect)
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		out = append(out, path.Join(dir, entry.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// Apply runs every up migration for dialect against db. Statements use
// IF NOT EXISTS so applying twice is harmless.
func Apply(ctx context.Context, db bun.IDB, dialect string) error {
	names, err := Files(dialect)
	if err != nil {
		return err
	}
	for _, name := range names {
		data, err := fs.ReadFile(files, name)
		if err != nil {
			return fmt.Errorf("migrations: read %s: %w", name, err)
		}
		for _, stmt := range statements(string(data)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrations: %s: %w", name, err)
			}
		}
	}
	return nil
}

func statements(script string) []string {
	parts := strings.Split(script, ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if stmt := strings.TrimSpace(part); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

func normalizeDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite
	case "postgres", "postgresql", "pg", "pgx":
		return DialectPostgres
	default:
		return dialect
	}
}
