package cells

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-cms-elements/internal/definitions"
	"github.com/goliatone/go-cms-elements/internal/domain"
	"github.com/goliatone/go-cms-elements/internal/identity"
	"github.com/goliatone/go-cms-elements/internal/logging"
	"github.com/goliatone/go-cms-elements/pkg/interfaces"
	"github.com/google/uuid"
)

// DefinitionLookup resolves structural cell definitions by name.
type DefinitionLookup interface {
	Cell(name string) (definitions.CellDefinition, error)
}

var ErrDefinitionsRequired = errors.New("cells: definitions lookup required")

// Resolver turns a logical cell name into a persisted cell of a page.
type Resolver struct {
	definitions DefinitionLookup
	now         func() time.Time
	logger      interfaces.Logger
}

// ResolverOption configures the resolver.
type ResolverOption func(*Resolver)

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if clock != nil {
			r.now = clock
		}
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewResolver(defs DefinitionLookup, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		definitions: defs,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds the cell called name on pageID or creates it. Calling it twice
// with the same arguments yields the same cell. A name without a structural
// definition fails with an UnknownCellDefinition error.
func (r *Resolver) Resolve(ctx context.Context, repo Repository, pageID uuid.UUID, name string) (*Cell, error) {
	if r == nil || r.definitions == nil {
		return nil, ErrDefinitionsRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.UnknownCellDefinition(name)
	}
	if _, err := r.definitions.Cell(name); err != nil {
		return nil, domain.UnknownCellDefinition(name)
	}

	existing, err := repo.FindByName(ctx, pageID, name)
	if err == nil {
		return existing, nil
	}
	if !domain.IsNotFound(err) {
		return nil, err
	}

	now := r.now()
	created, err := repo.Create(ctx, &Cell{
		ID:        identity.CellUUID(pageID, name),
		PageID:    pageID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if found, findErr := repo.FindByName(ctx, pageID, name); findErr == nil {
			return found, nil
		}
		return nil, err
	}
	r.logger.Debug("cells.created", "page_id", pageID.String(), "cell", name, "cell_id", created.ID.String())
	return created, nil
}
