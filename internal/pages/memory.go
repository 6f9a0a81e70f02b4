package pages

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryPageRepository is an in-memory page store for scaffolding/tests.
type MemoryPageRepository struct {
	mu    sync.RWMutex
	pages map[uuid.UUID]*Page
}

// NewMemoryPageRepository constructs the repository.
func NewMemoryPageRepository() *MemoryPageRepository {
	return &MemoryPageRepository{pages: make(map[uuid.UUID]*Page)}
}

// Create inserts the supplied page.
func (m *MemoryPageRepository) Create(_ context.Context, record *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := clonePage(record)
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.pages[copied.ID] = copied
	return clonePage(copied), nil
}

// GetByID retrieves a page by identifier.
func (m *MemoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	page, ok := m.pages[id]
	if !ok {
		return nil, &PageNotFoundError{Key: id.String()}
	}
	return clonePage(page), nil
}

// GetBySlug retrieves the page with slug in languageCode.
func (m *MemoryPageRepository) GetBySlug(_ context.Context, slug, languageCode string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, page := range m.pages {
		if page.Slug == slug && strings.EqualFold(page.LanguageCode, languageCode) {
			return clonePage(page), nil
		}
	}
	return nil, &PageNotFoundError{Key: slug}
}

// List returns every page ordered by name.
func (m *MemoryPageRepository) List(_ context.Context) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Page, 0, len(m.pages))
	for _, page := range m.pages {
		out = append(out, clonePage(page))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].LanguageCode < out[j].LanguageCode
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Update persists metadata changes for a page.
func (m *MemoryPageRepository) Update(_ context.Context, record *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.pages[record.ID]
	if !ok {
		return nil, &PageNotFoundError{Key: record.ID.String()}
	}
	updated := clonePage(current)
	updated.Name = record.Name
	updated.Slug = record.Slug
	updated.Layout = record.Layout
	updated.LanguageCode = record.LanguageCode
	updated.UpdatedAt = record.UpdatedAt
	m.pages[record.ID] = updated
	return clonePage(updated), nil
}
