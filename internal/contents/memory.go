package contents

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-cms-elements/internal/essences"
	"github.com/goliatone/go-cms-elements/internal/positions"
	"github.com/google/uuid"
)

// MemoryRepository is an in-memory content and essence store for scaffolding/tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	contents map[uuid.UUID]*Content
	essences map[uuid.UUID]*essences.Essence
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		contents: make(map[uuid.UUID]*Content),
		essences: make(map[uuid.UUID]*essences.Essence),
	}
}

func (m *MemoryRepository) Get(_ context.Context, id uuid.UUID) (*Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.contents[id]
	if !ok {
		return nil, notFound(id.String())
	}
	return m.hydrate(record), nil
}

func (m *MemoryRepository) ListByElement(_ context.Context, elementID uuid.UUID) ([]*Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Content{}
	for _, record := range m.contents {
		if record.ElementID == elementID {
			out = append(out, m.hydrate(record))
		}
	}
	sortContents(out)
	return out, nil
}

func (m *MemoryRepository) ListByName(_ context.Context, name string, kind essences.Kind) ([]*Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Content{}
	for _, record := range m.contents {
		if record.Name == name && record.EssenceKind == kind {
			out = append(out, m.hydrate(record))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (m *MemoryRepository) Create(_ context.Context, record *Content) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := record.Clone()
	if stored.Essence != nil {
		m.essences[stored.Essence.ID] = stored.Essence
		id := stored.Essence.ID
		stored.EssenceID = &id
	}
	stored.Essence = nil
	stored.Errors = nil
	m.contents[stored.ID] = stored
	return nil
}

func (m *MemoryRepository) Save(_ context.Context, record *Content) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.contents[record.ID]
	if !ok {
		return notFound(record.ID.String())
	}
	current.SkipTranslate = record.SkipTranslate
	current.Position = record.Position
	current.UpdatedAt = record.UpdatedAt
	if record.Essence != nil {
		m.essences[record.Essence.ID] = record.Essence.Clone()
	}
	return nil
}

func (m *MemoryRepository) DeleteByElement(_ context.Context, elementID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, record := range m.contents {
		if record.ElementID != elementID {
			continue
		}
		if record.EssenceID != nil {
			delete(m.essences, *record.EssenceID)
		}
		delete(m.contents, id)
	}
	return nil
}

func (m *MemoryRepository) ScopeEntries(_ context.Context, key positions.Key) ([]positions.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []positions.Entry{}
	for _, record := range m.contents {
		if record.ScopeKey() == key {
			out = append(out, positions.Entry{ID: record.ID, Position: record.Position})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// Place moves content id into key. Contents never change kind, so a key with
// a different kind reports false.
func (m *MemoryRepository) Place(_ context.Context, id uuid.UUID, key positions.Key, position int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.contents[id]
	if !ok || string(record.EssenceKind) != key.Group {
		return false, nil
	}
	elementID, err := uuid.Parse(key.Container)
	if err != nil {
		return false, nil
	}
	record.ElementID = elementID
	record.Position = position
	return true, nil
}

// Snapshot captures the current state and returns a func that restores it.
func (m *MemoryRepository) Snapshot() func() {
	m.mu.RLock()
	savedContents := make(map[uuid.UUID]*Content, len(m.contents))
	for id, record := range m.contents {
		savedContents[id] = record.Clone()
	}
	savedEssences := make(map[uuid.UUID]*essences.Essence, len(m.essences))
	for id, record := range m.essences {
		savedEssences[id] = record.Clone()
	}
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		m.contents = savedContents
		m.essences = savedEssences
		m.mu.Unlock()
	}
}

func (m *MemoryRepository) hydrate(record *Content) *Content {
	out := record.Clone()
	if record.EssenceID != nil {
		out.Essence = m.essences[*record.EssenceID].Clone()
	}
	return out
}

func sortContents(items []*Content) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].Name < items[j].Name
	})
}
