package clipboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-cms-elements/internal/domain"
	"github.com/google/uuid"
)

// Kind groups clipboard entries by the type of record they reference.
type Kind string

const KindElements Kind = "elements"

// Action records whether the source survives a paste.
type Action string

const (
	ActionCopy Action = "copy"
	ActionCut  Action = "cut"
)

// Valid reports whether a is copy or cut.
func (a Action) Valid() bool {
	return a == ActionCopy || a == ActionCut
}

// Session identifies the clipboard owner (a user or browser session). It is
// passed explicitly on every call.
type Session string

// Item is a clipboard reference.
type Item struct {
	ID     uuid.UUID `json:"id"`
	Action Action    `json:"action"`
}

var (
	ErrSessionRequired = errors.New("clipboard: session is required")
	ErrInvalidAction   = errors.New("clipboard: invalid action")
	ErrItemNotFound    = errors.New("clipboard: item not found")
)

// ItemNotFoundError reports a reference missing from a session clipboard.
type ItemNotFoundError struct {
	ID uuid.UUID
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrItemNotFound, e.ID)
}

// Is matches ErrItemNotFound and domain.ErrNotFound.
func (e *ItemNotFoundError) Is(target error) bool {
	return target == ErrItemNotFound || target == domain.ErrNotFound
}

// Store keeps clipboard entries outside the primary store.
type Store interface {
	Items(ctx context.Context, session Session, kind Kind) ([]Item, error)
	Add(ctx context.Context, session Session, kind Kind, item Item) error
	Find(ctx context.Context, session Session, kind Kind, id uuid.UUID) (Item, error)
	Remove(ctx context.Context, session Session, kind Kind, id uuid.UUID) error
	Clear(ctx context.Context, session Session, kind Kind) error
}

type bucket struct {
	session Session
	kind    Kind
}

// MemoryStore is a process-local Store keyed by (session, kind).
type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[bucket][]Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[bucket][]Item)}
}

func (s *MemoryStore) Items(_ context.Context, session Session, kind Kind) ([]Item, error) {
	key, err := bucketFor(session, kind)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Item(nil), s.buckets[key]...), nil
}

// Add appends item, replacing an existing entry with the same id.
func (s *MemoryStore) Add(_ context.Context, session Session, kind Kind, item Item) error {
	key, err := bucketFor(session, kind)
	if err != nil {
		return err
	}
	if !item.Action.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAction, item.Action)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := without(s.buckets[key], item.ID)
	s.buckets[key] = append(items, item)
	return nil
}

func (s *MemoryStore) Find(_ context.Context, session Session, kind Kind, id uuid.UUID) (Item, error) {
	key, err := bucketFor(session, kind)
	if err != nil {
		return Item{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.buckets[key] {
		if item.ID == id {
			return item, nil
		}
	}
	return Item{}, &ItemNotFoundError{ID: id}
}

func (s *MemoryStore) Remove(_ context.Context, session Session, kind Kind, id uuid.UUID) error {
	key, err := bucketFor(session, kind)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[key] = without(s.buckets[key], id)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, session Session, kind Kind) error {
	key, err := bucketFor(session, kind)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

func bucketFor(session Session, kind Kind) (bucket, error) {
	trimmed := Session(strings.TrimSpace(string(session)))
	if trimmed == "" {
		return bucket{}, ErrSessionRequired
	}
	if kind == "" {
		kind = KindElements
	}
	return bucket{session: trimmed, kind: kind}, nil
}

func without(items []Item, id uuid.UUID) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}
