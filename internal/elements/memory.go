package elements

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-cms-elements/internal/positions"
	"github.com/google/uuid"
)

// MemoryRepository is an in-memory element store for scaffolding/tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Element
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[uuid.UUID]*Element)}
}

func (m *MemoryRepository) Create(_ context.Context, record *Element) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := record.Clone()
	stored.Contents = nil
	m.records[stored.ID] = stored
	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Element, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, notFound(id.String())
	}
	return record.Clone(), nil
}

func (m *MemoryRepository) ListByPage(_ context.Context, pageID uuid.UUID) ([]*Element, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Element{}
	for _, record := range m.records {
		if record.PageID == pageID && !record.Trashed() {
			out = append(out, record.Clone())
		}
	}
	sortElements(out)
	return out, nil
}

func (m *MemoryRepository) ListTrashed(_ context.Context) ([]*Element, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Element{}
	for _, record := range m.records {
		if record.Trashed() {
			out = append(out, record.Clone())
		}
	}
	sortElements(out)
	return out, nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Element) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.records[record.ID]
	if !ok {
		return notFound(record.ID.String())
	}
	updated := record.Clone()
	current.Name = updated.Name
	current.Public = updated.Public
	current.Folded = updated.Folded
	current.TrashedAt = updated.TrashedAt
	current.Tags = updated.Tags
	current.UpdatedAt = updated.UpdatedAt
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return notFound(id.String())
	}
	delete(m.records, id)
	return nil
}

func (m *MemoryRepository) ScopeEntries(_ context.Context, key positions.Key) ([]positions.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key = positions.NewKey(key.Container, key.Group)
	out := []positions.Entry{}
	for _, record := range m.records {
		if record.ScopeKey() == key {
			out = append(out, positions.Entry{ID: record.ID, Position: record.Position})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *MemoryRepository) Place(_ context.Context, id uuid.UUID, key positions.Key, position int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return false, nil
	}
	if key.Container == TrashBucket {
		if !record.Trashed() {
			return false, nil
		}
		record.Position = position
		return true, nil
	}
	pageID, cellID, err := parseKey(key)
	if err != nil {
		return false, nil
	}
	record.PageID = pageID
	record.CellID = cellID
	record.TrashedAt = nil
	record.Position = position
	return true, nil
}

// Snapshot captures the current state and returns a func that restores it.
func (m *MemoryRepository) Snapshot() func() {
	m.mu.RLock()
	saved := make(map[uuid.UUID]*Element, len(m.records))
	for id, record := range m.records {
		saved[id] = record.Clone()
	}
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		m.records = saved
		m.mu.Unlock()
	}
}

// parseKey decodes a (page, cell) scope key.
func parseKey(key positions.Key) (uuid.UUID, *uuid.UUID, error) {
	pageID, err := uuid.Parse(key.Container)
	if err != nil {
		return uuid.Nil, nil, err
	}
	if positions.IsNone(key.Group) {
		return pageID, nil, nil
	}
	cellID, err := uuid.Parse(key.Group)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return pageID, &cellID, nil
}

func sortElements(items []*Element) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := positions.ContainerOf(items[i].CellID), positions.ContainerOf(items[j].CellID)
		if ci != cj {
			return ci < cj
		}
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
