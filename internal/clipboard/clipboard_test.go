package clipboard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-elements/internal/clipboard"
	"github.com/goliatone/go-cms-elements/internal/domain"
	"github.com/google/uuid"
)

func TestMemoryStoreKeepsSessionsApart(t *testing.T) {
	ctx := context.Background()
	store := clipboard.NewMemoryStore()
	id := uuid.New()

	if err := store.Add(ctx, "alice", clipboard.KindElements, clipboard.Item{ID: id, Action: clipboard.ActionCopy}); err != nil {
		t.Fatalf("add: %v", err)
	}
	items, err := store.Items(ctx, "bob", clipboard.KindElements)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected bob's clipboard to be empty")
	}
	if _, err := store.Find(ctx, "alice", clipboard.KindElements, id); err != nil {
		t.Fatalf("find: %v", err)
	}
}

func TestMemoryStoreReplacesSameID(t *testing.T) {
	ctx := context.Background()
	store := clipboard.NewMemoryStore()
	first, second := uuid.New(), uuid.New()

	_ = store.Add(ctx, "s", clipboard.KindElements, clipboard.Item{ID: first, Action: clipboard.ActionCopy})
	_ = store.Add(ctx, "s", clipboard.KindElements, clipboard.Item{ID: second, Action: clipboard.ActionCopy})
	_ = store.Add(ctx, "s", clipboard.KindElements, clipboard.Item{ID: first, Action: clipboard.ActionCut})

	items, _ := store.Items(ctx, "s", clipboard.KindElements)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[1].ID != first || items[1].Action != clipboard.ActionCut {
		t.Fatalf("expected replaced entry at the end, got %+v", items)
	}

	if err := store.Remove(ctx, "s", clipboard.KindElements, first); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.Find(ctx, "s", clipboard.KindElements, first); !errors.Is(err, clipboard.ErrItemNotFound) || !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := store.Clear(ctx, "s", clipboard.KindElements); err != nil {
		t.Fatalf("clear: %v", err)
	}
	items, _ = store.Items(ctx, "s", clipboard.KindElements)
	if len(items) != 0 {
		t.Fatalf("expected empty clipboard after clear")
	}
}

func TestMemoryStoreValidatesInput(t *testing.T) {
	ctx := context.Background()
	store := clipboard.NewMemoryStore()
	if err := store.Add(ctx, " ", clipboard.KindElements, clipboard.Item{ID: uuid.New(), Action: clipboard.ActionCopy}); !errors.Is(err, clipboard.ErrSessionRequired) {
		t.Fatalf("expected session required, got %v", err)
	}
	if err := store.Add(ctx, "s", clipboard.KindElements, clipboard.Item{ID: uuid.New(), Action: "move"}); !errors.Is(err, clipboard.ErrInvalidAction) {
		t.Fatalf("expected invalid action, got %v", err)
	}
}
