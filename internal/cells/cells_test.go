package cells_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-elements/internal/cells"
	"github.com/goliatone/go-cms-elements/internal/definitions"
	"github.com/goliatone/go-cms-elements/internal/domain"
	"github.com/goliatone/go-cms-elements/pkg/testsupport"
	"github.com/google/uuid"
)

func TestParseQualifiedName(t *testing.T) {
	cases := []struct {
		raw, element, cell string
	}{
		{"headline#sidebar", "headline", "sidebar"},
		{"headline", "headline", ""},
		{"headline#", "headline", ""},
		{"a#b#news", "a#b", "news"},
		{" teaser # news ", "teaser", "news"},
	}
	for _, tc := range cases {
		element, cell := cells.ParseQualifiedName(tc.raw)
		if element != tc.element || cell != tc.cell {
			t.Fatalf("parse %q: expected (%q,%q), got (%q,%q)", tc.raw, tc.element, tc.cell, element, cell)
		}
	}
}

func newRegistry(t *testing.T) *definitions.Registry {
	t.Helper()
	registry, err := definitions.NewRegistry(definitions.Document{
		Cells: []definitions.CellDefinition{{Name: "sidebar"}, {Name: "news"}},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return registry
}

func TestResolverFindOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := cells.NewMemoryRepository()
	resolver := cells.NewResolver(newRegistry(t))
	pageID := uuid.New()

	first, err := resolver.Resolve(ctx, repo, pageID, "sidebar")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := resolver.Resolve(ctx, repo, pageID, "sidebar")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same cell, got %s and %s", first.ID, second.ID)
	}

	list, err := repo.ListByPage(ctx, pageID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected a single cell, got %d", len(list))
	}
}

func TestResolverRejectsUnknownDefinitions(t *testing.T) {
	ctx := context.Background()
	repo := cells.NewMemoryRepository()
	resolver := cells.NewResolver(newRegistry(t))

	_, err := resolver.Resolve(ctx, repo, uuid.New(), "footer")
	if !errors.Is(err, domain.ErrUnknownCellDefinition) {
		t.Fatalf("expected unknown cell definition, got %v", err)
	}
	if domain.Kind(err) != domain.KindUnknownCellDefinition {
		t.Fatalf("expected kind %s, got %s", domain.KindUnknownCellDefinition, domain.Kind(err))
	}
}

func TestMemorySnapshotRestores(t *testing.T) {
	ctx := context.Background()
	repo := cells.NewMemoryRepository()
	resolver := cells.NewResolver(newRegistry(t))
	pageID := uuid.New()

	restore := repo.Snapshot()
	if _, err := resolver.Resolve(ctx, repo, pageID, "news"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	restore()

	if _, err := repo.FindByName(ctx, pageID, "news"); !domain.IsNotFound(err) {
		t.Fatalf("expected cell to be rolled back, got %v", err)
	}
}

func TestBunRepositoryResolve(t *testing.T) {
	ctx := context.Background()
	db, err := testsupport.NewMigratedBunDB(ctx)
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	repo := cells.NewBunRepository(db)
	resolver := cells.NewResolver(newRegistry(t))
	pageID := uuid.New()

	created, err := resolver.Resolve(ctx, repo, pageID, "news")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	again, err := resolver.Resolve(ctx, repo, pageID, "news")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if created.ID != again.ID {
		t.Fatalf("expected stable cell id")
	}

	fetched, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if fetched.Name != "news" || fetched.PageID != pageID {
		t.Fatalf("unexpected cell %+v", fetched)
	}

	if _, err := repo.GetByID(ctx, uuid.New()); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
