package elements

import (
	"context"
	"sync"

	"github.com/goliatone/go-cms-elements/internal/cells"
	"github.com/goliatone/go-cms-elements/internal/contents"
	"github.com/uptrace/bun"
)

// Repositories groups the repositories bound to one unit of work.
type Repositories struct {
	Elements Repository
	Contents contents.Repository
	Cells    cells.Repository
}

// Store hands out repositories and runs units of work. Everything fn does
// through the repositories it receives is kept or discarded as a whole.
type Store interface {
	Repositories() Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// MemoryStore keeps everything in process. Units of work are serialised and
// rolled back by restoring snapshots.
type MemoryStore struct {
	mu       sync.Mutex
	elements *MemoryRepository
	contents *contents.MemoryRepository
	cells    *cells.MemoryRepository
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		elements: NewMemoryRepository(),
		contents: contents.NewMemoryRepository(),
		cells:    cells.NewMemoryRepository(),
	}
}

func (s *MemoryStore) Repositories() Repositories {
	return Repositories{Elements: s.elements, Contents: s.contents, Cells: s.cells}
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	restore := []func(){s.elements.Snapshot(), s.contents.Snapshot(), s.cells.Snapshot()}
	if err := fn(ctx, s.Repositories()); err != nil {
		for _, undo := range restore {
			undo()
		}
		return err
	}
	return nil
}

// BunStore runs units of work inside bun transactions.
type BunStore struct {
	db *bun.DB
}

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

func (s *BunStore) Repositories() Repositories {
	return bunRepositories(s.db)
}

func (s *BunStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, bunRepositories(tx))
	})
}

func bunRepositories(db bun.IDB) Repositories {
	return Repositories{
		Elements: NewBunRepository(db),
		Contents: contents.NewBunRepository(db),
		Cells:    cells.NewBunRepository(db),
	}
}
