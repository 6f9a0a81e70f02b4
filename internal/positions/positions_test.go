package positions_test

import (
	"context"
	"sort"
	"testing"

	"github.com/goliatone/go-cms-elements/internal/positions"
	"github.com/google/uuid"
)

type fakeItem struct {
	key      positions.Key
	position int
}

type fakeStore struct {
	items map[uuid.UUID]*fakeItem
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[uuid.UUID]*fakeItem{}}
}

func (s *fakeStore) add(key positions.Key, position int) uuid.UUID {
	id := uuid.New()
	s.items[id] = &fakeItem{key: positions.NewKey(key.Container, key.Group), position: position}
	return id
}

func (s *fakeStore) ScopeEntries(_ context.Context, key positions.Key) ([]positions.Entry, error) {
	out := []positions.Entry{}
	for id, item := range s.items {
		if item.key == key {
			out = append(out, positions.Entry{ID: id, Position: item.position})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *fakeStore) Place(_ context.Context, id uuid.UUID, key positions.Key, position int) (bool, error) {
	item, ok := s.items[id]
	if !ok {
		return false, nil
	}
	item.key = key
	item.position = position
	return true, nil
}

func (s *fakeStore) positionOf(id uuid.UUID) int {
	return s.items[id].position
}

func TestReorderAssignsContiguousPositionsAndSkipsGarbage(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	key := positions.NewKey("page-1", "")
	a := store.add(key, 1)
	b := store.add(key, 2)
	c := store.add(key, 3)

	mgr := positions.NewManager(store)
	placed, err := mgr.Reorder(ctx, key, []uuid.UUID{c, uuid.New(), a, c, b})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if len(placed) != 3 {
		t.Fatalf("expected 3 placed ids, got %d", len(placed))
	}
	if store.positionOf(c) != 1 || store.positionOf(a) != 2 || store.positionOf(b) != 3 {
		t.Fatalf("unexpected order c=%d a=%d b=%d", store.positionOf(c), store.positionOf(a), store.positionOf(b))
	}

	entries, _ := store.ScopeEntries(ctx, key)
	if !positions.Contiguous(entries) {
		t.Fatalf("expected contiguous positions, got %+v", entries)
	}
}

func TestReorderPullsItemsFromOtherScopes(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	target := positions.NewKey("page-1", "cell-1")
	trash := positions.NewKey("trash", "")
	kept := store.add(target, 1)
	stale := store.add(trash, 1)
	other := store.add(trash, 2)

	mgr := positions.NewManager(store)
	if _, err := mgr.Reorder(ctx, target, []uuid.UUID{stale, kept}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if store.items[stale].key != target {
		t.Fatalf("expected stale item to move into target scope, got %v", store.items[stale].key)
	}
	if store.positionOf(stale) != 1 || store.positionOf(kept) != 2 {
		t.Fatalf("unexpected positions stale=%d kept=%d", store.positionOf(stale), store.positionOf(kept))
	}

	// the trash scope is left with a gap until it is normalised
	if err := mgr.Normalize(ctx, trash); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if store.positionOf(other) != 1 {
		t.Fatalf("expected remaining trash item at 1, got %d", store.positionOf(other))
	}
}

func TestReorderAppendsMembersMissingFromBatch(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	key := positions.NewKey("page-1", "")
	a := store.add(key, 1)
	b := store.add(key, 2)
	c := store.add(key, 3)

	mgr := positions.NewManager(store)
	if _, err := mgr.Reorder(ctx, key, []uuid.UUID{c}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if store.positionOf(c) != 1 || store.positionOf(a) != 2 || store.positionOf(b) != 3 {
		t.Fatalf("unexpected order c=%d a=%d b=%d", store.positionOf(c), store.positionOf(a), store.positionOf(b))
	}
}

func TestInsertAtTopShiftsExistingItems(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	key := positions.NewKey("page-1", "")
	a := store.add(key, 1)
	b := store.add(key, 2)
	fresh := store.add(positions.NewKey("page-2", ""), 1)

	mgr := positions.NewManager(store)
	if err := mgr.InsertAtTop(ctx, key, fresh); err != nil {
		t.Fatalf("insert at top: %v", err)
	}
	if store.positionOf(fresh) != 1 || store.positionOf(a) != 2 || store.positionOf(b) != 3 {
		t.Fatalf("unexpected order fresh=%d a=%d b=%d", store.positionOf(fresh), store.positionOf(a), store.positionOf(b))
	}

	if err := mgr.InsertAtTop(ctx, key, uuid.New()); err == nil {
		t.Fatalf("expected missing item error")
	}
}

func TestInsertAtBottomAndRemove(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	key := positions.NewKey("element-1", "picture")
	a := store.add(key, 1)
	b := store.add(key, 2)
	fresh := store.add(positions.NewKey("", ""), 0)

	mgr := positions.NewManager(store)
	position, err := mgr.InsertAtBottom(ctx, key, fresh)
	if err != nil {
		t.Fatalf("insert at bottom: %v", err)
	}
	if position != 3 {
		t.Fatalf("expected position 3, got %d", position)
	}

	delete(store.items, a)
	if err := mgr.Remove(ctx, key, a); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if store.positionOf(b) != 1 || store.positionOf(fresh) != 2 {
		t.Fatalf("expected compacted scope, got b=%d fresh=%d", store.positionOf(b), store.positionOf(fresh))
	}
}

func TestMoveBetweenScopesCompactsSource(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	from := positions.NewKey("page-1", "")
	to := positions.NewKey("page-1", "cell-9")
	a := store.add(from, 1)
	b := store.add(from, 2)
	c := store.add(to, 1)

	mgr := positions.NewManager(store)
	position, err := mgr.Move(ctx, from, to, a, false)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if position != 2 || store.positionOf(c) != 1 {
		t.Fatalf("expected a appended after c, got a=%d c=%d", position, store.positionOf(c))
	}
	if store.positionOf(b) != 1 {
		t.Fatalf("expected source compacted, got b=%d", store.positionOf(b))
	}
}

func TestNoneScopeIsComparable(t *testing.T) {
	if positions.NewKey("", "") != positions.NewKey(positions.None, positions.None) {
		t.Fatalf("expected empty parts to normalise to none")
	}
	if positions.ContainerOf(nil) != positions.None {
		t.Fatalf("expected nil container to map to none")
	}
	nilID := uuid.Nil
	if positions.ContainerOf(&nilID) != positions.None {
		t.Fatalf("expected nil uuid to map to none")
	}
}
