package contents

import (
	"context"
	"time"

	"github.com/goliatone/go-cms-elements/internal/domain"
	"github.com/goliatone/go-cms-elements/internal/essences"
	"github.com/goliatone/go-cms-elements/internal/positions"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Content is a named value slot of an element bound to exactly one essence.
// Position is scoped by (ElementID, EssenceKind).
type Content struct {
	bun.BaseModel `bun:"table:contents,alias:ct"`

	ID            uuid.UUID     `bun:",pk,type:uuid" json:"id"`
	ElementID     uuid.UUID     `bun:"element_id,notnull,type:uuid" json:"element_id"`
	Name          string        `bun:"name,notnull" json:"name"`
	EssenceKind   essences.Kind `bun:"essence_kind,notnull" json:"essence_kind"`
	EssenceID     *uuid.UUID    `bun:"essence_id,type:uuid" json:"essence_id,omitempty"`
	Position      int           `bun:"position,notnull" json:"position"`
	SkipTranslate bool          `bun:"skip_translate,notnull" json:"skip_translate"`
	CreatedAt     time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Essence *essences.Essence         `bun:"-" json:"essence,omitempty"`
	Errors  goerrors.ValidationErrors `bun:"-" json:"errors,omitempty"`
}

// ScopeKey is the ordering scope of c.
func (c *Content) ScopeKey() positions.Key {
	return ScopeKey(c.ElementID, c.EssenceKind)
}

// ScopeKey builds the ordering scope for contents of kind on elementID.
func ScopeKey(elementID uuid.UUID, kind essences.Kind) positions.Key {
	return positions.NewKey(positions.ContainerOf(&elementID), string(kind))
}

// Clone returns a deep copy of c including its essence.
func (c *Content) Clone() *Content {
	if c == nil {
		return nil
	}
	cloned := *c
	if c.EssenceID != nil {
		id := *c.EssenceID
		cloned.EssenceID = &id
	}
	cloned.Essence = c.Essence.Clone()
	if len(c.Errors) > 0 {
		cloned.Errors = append(goerrors.ValidationErrors(nil), c.Errors...)
	}
	return &cloned
}

// Repository persists contents together with their essences.
type Repository interface {
	positions.Store

	Get(ctx context.Context, id uuid.UUID) (*Content, error)
	ListByElement(ctx context.Context, elementID uuid.UUID) ([]*Content, error)
	ListByName(ctx context.Context, name string, kind essences.Kind) ([]*Content, error)
	Create(ctx context.Context, record *Content) error
	Save(ctx context.Context, record *Content) error
	DeleteByElement(ctx context.Context, elementID uuid.UUID) error
}

func notFound(key string) error {
	return domain.NotFound("content", key)
}
