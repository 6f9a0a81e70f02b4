package elements_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-cms-elements/internal/clipboard"
	"github.com/goliatone/go-cms-elements/internal/contents"
	"github.com/goliatone/go-cms-elements/internal/domain"
	"github.com/goliatone/go-cms-elements/internal/elements"
	"github.com/goliatone/go-cms-elements/internal/essences"
	"github.com/goliatone/go-cms-elements/internal/pages"
	"github.com/goliatone/go-cms-elements/pkg/testsupport"
	"github.com/google/uuid"
)

func newBunEnv(t *testing.T) *env {
	t.Helper()
	db, err := testsupport.NewMigratedBunDB(context.Background())
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return newEnv(t, elements.NewBunStore(db), pages.NewBunPageRepository(db))
}

func TestBunStoreEndToEnd(t *testing.T) {
	ctx := context.Background()
	e := newBunEnv(t)
	home := e.page(t, "Home", "en", "standard")
	news := e.page(t, "News", "en", "standard")

	first := e.create(t, home.ID, "teaser#news")
	second := e.create(t, home.ID, "teaser#news")
	if first.CellID == nil || second.CellID == nil || *first.CellID != *second.CellID {
		t.Fatalf("expected both teasers in the same news cell")
	}
	if first.Position != 1 || second.Position != 2 {
		t.Fatalf("unexpected positions %d/%d", first.Position, second.Position)
	}

	title := contentNamed(t, second, "title")
	result, err := e.service.UpdateContents(ctx, elements.UpdateContentsInput{
		ElementID: second.ID,
		Contents:  map[uuid.UUID]essences.Params{title.ID: {"body": "Stored through bun"}},
		Tags:      []string{"spring", "spring", "sale"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !result.OK() || len(result.Element.Tags) != 2 {
		t.Fatalf("unexpected update result %+v", result)
	}

	if _, err := e.service.Trash(ctx, first.ID); err != nil {
		t.Fatalf("trash: %v", err)
	}
	if e.position(t, second.ID) != 1 {
		t.Fatalf("expected news cell to be compacted after trash")
	}
	e.assertContiguous(t, elements.ScopeKey(home.ID, second.CellID))

	if _, err := e.service.Cut(ctx, session, second.ID); err != nil {
		t.Fatalf("cut: %v", err)
	}
	pasted, err := e.service.Paste(ctx, elements.PasteInput{Session: session, PageID: news.ID, Source: second.ID.String() + "#news"})
	if err != nil {
		t.Fatalf("paste: %v", err)
	}
	if pasted.CellID == nil || *pasted.CellID == *second.CellID || pasted.Position != 1 {
		t.Fatalf("expected teaser in the news cell of the news page, got %+v", pasted)
	}
	if got := contents.Value(contentNamed(t, pasted, "title")); got != "Stored through bun" {
		t.Fatalf("expected title to travel with the paste, got %v", got)
	}
	if _, err := e.service.Get(ctx, second.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected cut source to be gone, got %v", err)
	}
	if items, _ := e.clipboard.Items(ctx, session, clipboard.KindElements); len(items) != 0 {
		t.Fatalf("expected clipboard to be empty")
	}

	restored, err := e.service.Restore(ctx, elements.RestoreInput{ElementID: first.ID, CellID: first.CellID})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Trashed() || restored.Position != 1 {
		t.Fatalf("expected restored teaser at position 1, got %+v", restored)
	}
}

func TestBunStoreRollsBackFailedPaste(t *testing.T) {
	ctx := context.Background()
	e := newBunEnv(t)
	home := e.page(t, "Home", "en", "standard")
	source := e.create(t, home.ID, "headline")

	if _, err := e.service.Cut(ctx, session, source.ID); err != nil {
		t.Fatalf("cut: %v", err)
	}
	_, err := e.service.Paste(ctx, elements.PasteInput{Session: session, PageID: home.ID, Source: source.ID.String() + "#missing"})
	if domain.Kind(err) != domain.KindUnknownCellDefinition {
		t.Fatalf("expected unknown cell definition, got %v", err)
	}
	listed, err := e.service.List(ctx, home.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != source.ID {
		t.Fatalf("expected only the source to remain, got %d elements", len(listed))
	}
}
