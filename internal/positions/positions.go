package positions

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
)

// None is the explicit container value used when an item has no container.
// It keeps scopes comparable when a foreign key is null.
const None = "none"

// Key identifies an ordering scope. Container is the owning record (page,
// element, trash bucket) and Group the variant discriminator (cell, essence kind).
type Key struct {
	Container string
	Group     string
}

// NewKey normalises empty parts to None.
func NewKey(container, group string) Key {
	if container == "" {
		container = None
	}
	if group == "" {
		group = None
	}
	return Key{Container: container, Group: group}
}

// ContainerOf renders an optional identifier as a scope component.
func ContainerOf(id *uuid.UUID) string {
	if id == nil || *id == uuid.Nil {
		return None
	}
	return id.String()
}

// IsNone reports whether the scope part stands for a missing container.
func IsNone(part string) bool {
	return part == "" || part == None
}

func (k Key) String() string {
	normalized := NewKey(k.Container, k.Group)
	return normalized.Container + "/" + normalized.Group
}

// Entry is the ordering view of an item.
type Entry struct {
	ID       uuid.UUID
	Position int
}

// Store is implemented by repositories that persist ordered items.
type Store interface {
	// ScopeEntries returns the items currently in key, ordered by position.
	ScopeEntries(ctx context.Context, key Key) ([]Entry, error)
	// Place writes the container fields encoded in key and the position for id.
	// It reports false when id does not exist.
	Place(ctx context.Context, id uuid.UUID, key Key, position int) (bool, error)
}

var ErrStoreRequired = errors.New("positions: store required")

// Manager maintains contiguous 1-based positions within a scope.
type Manager struct {
	store Store
}

// NewManager wraps store with ordering operations.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Reorder assigns position index+1 to every id in order and moves each one into
// key, overwriting whatever container it had. Unknown ids are skipped, repeated
// ids keep their first slot, and scope members missing from the batch are
// appended after it so the scope stays contiguous. The placed ids are returned.
func (m *Manager) Reorder(ctx context.Context, key Key, ids []uuid.UUID) ([]uuid.UUID, error) {
	if m == nil || m.store == nil {
		return nil, ErrStoreRequired
	}
	key = NewKey(key.Container, key.Group)

	placed := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ok, err := m.store.Place(ctx, id, key, len(placed)+1)
		if err != nil {
			return placed, err
		}
		if !ok {
			continue
		}
		placed = append(placed, id)
	}

	entries, err := m.store.ScopeEntries(ctx, key)
	if err != nil {
		return placed, err
	}
	next := len(placed) + 1
	for _, entry := range entries {
		if _, ok := seen[entry.ID]; ok {
			continue
		}
		if entry.Position != next {
			if _, err := m.store.Place(ctx, entry.ID, key, next); err != nil {
				return placed, err
			}
		}
		next++
	}
	return placed, nil
}

// InsertAtTop puts id at position 1 of key and shifts every other member down.
func (m *Manager) InsertAtTop(ctx context.Context, key Key, id uuid.UUID) error {
	if m == nil || m.store == nil {
		return ErrStoreRequired
	}
	key = NewKey(key.Container, key.Group)
	entries, err := m.store.ScopeEntries(ctx, key)
	if err != nil {
		return err
	}
	ok, err := m.store.Place(ctx, id, key, 1)
	if err != nil {
		return err
	}
	if !ok {
		return &MissingError{ID: id}
	}
	return m.renumber(ctx, key, without(entries, id), 2)
}

// InsertAtBottom appends id to key and returns its new position.
func (m *Manager) InsertAtBottom(ctx context.Context, key Key, id uuid.UUID) (int, error) {
	if m == nil || m.store == nil {
		return 0, ErrStoreRequired
	}
	key = NewKey(key.Container, key.Group)
	entries, err := m.store.ScopeEntries(ctx, key)
	if err != nil {
		return 0, err
	}
	position := 1
	for _, entry := range without(entries, id) {
		if entry.Position >= position {
			position = entry.Position + 1
		}
	}
	ok, err := m.store.Place(ctx, id, key, position)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &MissingError{ID: id}
	}
	return position, nil
}

// Remove compacts key as if id had left it. The caller is responsible for
// moving or deleting id itself.
func (m *Manager) Remove(ctx context.Context, key Key, id uuid.UUID) error {
	if m == nil || m.store == nil {
		return ErrStoreRequired
	}
	key = NewKey(key.Container, key.Group)
	entries, err := m.store.ScopeEntries(ctx, key)
	if err != nil {
		return err
	}
	return m.renumber(ctx, key, without(entries, id), 1)
}

// Move takes id out of from (compacting it) and inserts it into to.
func (m *Manager) Move(ctx context.Context, from, to Key, id uuid.UUID, atTop bool) (int, error) {
	if m == nil || m.store == nil {
		return 0, ErrStoreRequired
	}
	if atTop {
		if err := m.InsertAtTop(ctx, to, id); err != nil {
			return 0, err
		}
		if NewKey(from.Container, from.Group) != NewKey(to.Container, to.Group) {
			if err := m.Remove(ctx, from, id); err != nil {
				return 0, err
			}
		}
		return 1, nil
	}
	position, err := m.InsertAtBottom(ctx, to, id)
	if err != nil {
		return 0, err
	}
	if NewKey(from.Container, from.Group) != NewKey(to.Container, to.Group) {
		if err := m.Remove(ctx, from, id); err != nil {
			return 0, err
		}
	}
	return position, nil
}

// Normalize rewrites key so positions are exactly 1..N in their current order.
func (m *Manager) Normalize(ctx context.Context, key Key) error {
	if m == nil || m.store == nil {
		return ErrStoreRequired
	}
	key = NewKey(key.Container, key.Group)
	entries, err := m.store.ScopeEntries(ctx, key)
	if err != nil {
		return err
	}
	return m.renumber(ctx, key, entries, 1)
}

func (m *Manager) renumber(ctx context.Context, key Key, entries []Entry, start int) error {
	sortEntries(entries)
	for idx, entry := range entries {
		want := start + idx
		if entry.Position == want {
			continue
		}
		if _, err := m.store.Place(ctx, entry.ID, key, want); err != nil {
			return err
		}
	}
	return nil
}

// MissingError is returned when a single-target operation names an unknown id.
type MissingError struct {
	ID uuid.UUID
}

func (e *MissingError) Error() string {
	return "positions: item " + e.ID.String() + " not found"
}

// Contiguous reports whether entries hold exactly the positions 1..len(entries).
func Contiguous(entries []Entry) bool {
	seen := make(map[int]struct{}, len(entries))
	for _, entry := range entries {
		if entry.Position < 1 || entry.Position > len(entries) {
			return false
		}
		if _, dup := seen[entry.Position]; dup {
			return false
		}
		seen[entry.Position] = struct{}{}
	}
	return true
}

func without(entries []Entry, id uuid.UUID) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.ID == id {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Position < entries[j].Position
	})
}
