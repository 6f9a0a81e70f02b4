package localesync

import (
	"context"
	"sync"

	"github.com/goliatone/go-cms-elements/pkg/interfaces"
)

// DeliverFunc sends a batch of missing translations to the host's service.
type DeliverFunc func(ctx context.Context, batch []interfaces.MissingTranslation) error

// MemoryQueue buffers entries until Flush. Entries with the same locale and
// key replace each other. When deliver fails the batch stays queued.
type MemoryQueue struct {
	mu        sync.Mutex
	pending   []interfaces.MissingTranslation
	delivered []interfaces.MissingTranslation
	deliver   DeliverFunc
}

func NewMemoryQueue(deliver DeliverFunc) *MemoryQueue {
	return &MemoryQueue{deliver: deliver}
}

func (q *MemoryQueue) Add(_ context.Context, entry interfaces.MissingTranslation) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for idx, existing := range q.pending {
		if existing.Locale == entry.Locale && existing.Key == entry.Key {
			q.pending[idx] = entry
			return nil
		}
	}
	q.pending = append(q.pending, entry)
	return nil
}

func (q *MemoryQueue) Flush(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	batch := append([]interfaces.MissingTranslation(nil), q.pending...)
	if q.deliver != nil {
		if err := q.deliver(ctx, batch); err != nil {
			return err
		}
	}
	q.delivered = append(q.delivered, batch...)
	q.pending = nil
	return nil
}

// Pending returns the entries not yet flushed.
func (q *MemoryQueue) Pending() []interfaces.MissingTranslation {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]interfaces.MissingTranslation(nil), q.pending...)
}

// Delivered returns every entry flushed so far.
func (q *MemoryQueue) Delivered() []interfaces.MissingTranslation {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]interfaces.MissingTranslation(nil), q.delivered...)
}
