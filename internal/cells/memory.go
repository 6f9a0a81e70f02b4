package cells

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory cell store for scaffolding/tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	cells map[uuid.UUID]*Cell
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{cells: make(map[uuid.UUID]*Cell)}
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Cell, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.cells[id]
	if !ok {
		return nil, notFound(id.String())
	}
	return cloneCell(record), nil
}

func (m *MemoryRepository) FindByName(_ context.Context, pageID uuid.UUID, name string) (*Cell, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, record := range m.cells {
		if record.PageID == pageID && record.Name == name {
			return cloneCell(record), nil
		}
	}
	return nil, notFound(name)
}

func (m *MemoryRepository) ListByPage(_ context.Context, pageID uuid.UUID) ([]*Cell, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Cell{}
	for _, record := range m.cells {
		if record.PageID == pageID {
			out = append(out, cloneCell(record))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryRepository) Create(_ context.Context, record *Cell) (*Cell, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.cells[record.ID]; exists {
		return nil, ErrCellExists
	}
	for _, existing := range m.cells {
		if existing.PageID == record.PageID && existing.Name == record.Name {
			return nil, ErrCellExists
		}
	}
	copied := cloneCell(record)
	m.cells[copied.ID] = copied
	return cloneCell(copied), nil
}

// Snapshot captures the current state and returns a func that restores it.
func (m *MemoryRepository) Snapshot() func() {
	m.mu.RLock()
	saved := make(map[uuid.UUID]*Cell, len(m.cells))
	for id, record := range m.cells {
		saved[id] = cloneCell(record)
	}
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		m.cells = saved
		m.mu.Unlock()
	}
}
