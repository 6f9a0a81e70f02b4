package elements

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-cms-elements/internal/contents"
	"github.com/goliatone/go-cms-elements/internal/domain"
	"github.com/goliatone/go-cms-elements/internal/positions"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TrashBucket is the container of the single scope every trashed element
// belongs to.
const TrashBucket = "trash"

// Element is an ordered content block of a page, optionally inside a cell.
// Position is contiguous within ScopeKey.
type Element struct {
	bun.BaseModel `bun:"table:elements,alias:e"`

	ID        uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	PageID    uuid.UUID  `bun:"page_id,notnull,type:uuid" json:"page_id"`
	CellID    *uuid.UUID `bun:"cell_id,type:uuid" json:"cell_id,omitempty"`
	Name      string     `bun:"name,notnull" json:"name"`
	Position  int        `bun:"position,notnull" json:"position"`
	Public    bool       `bun:"public,notnull" json:"public"`
	Folded    bool       `bun:"folded,notnull" json:"folded"`
	TrashedAt *time.Time `bun:"trashed_at,nullzero" json:"trashed_at,omitempty"`
	Tags      []string   `bun:"tags" json:"tags,omitempty"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Contents []*contents.Content `bun:"-" json:"contents,omitempty"`
}

// Trashed reports whether the element sits in the trash bucket.
func (e *Element) Trashed() bool {
	return e.TrashedAt != nil
}

// ScopeKey is the ordering scope of e: the trash bucket once trashed,
// otherwise (page, cell).
func (e *Element) ScopeKey() positions.Key {
	if e.Trashed() {
		return TrashKey()
	}
	return ScopeKey(e.PageID, e.CellID)
}

// ScopeKey builds the ordering scope of elements on pageID inside cellID.
func ScopeKey(pageID uuid.UUID, cellID *uuid.UUID) positions.Key {
	return positions.NewKey(positions.ContainerOf(&pageID), positions.ContainerOf(cellID))
}

// TrashKey is the scope of trashed elements.
func TrashKey() positions.Key {
	return positions.NewKey(TrashBucket, positions.None)
}

// Clone returns a copy of e without aliasing pointers, tags, or contents.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	cloned := *e
	if e.CellID != nil {
		id := *e.CellID
		cloned.CellID = &id
	}
	if e.TrashedAt != nil {
		at := *e.TrashedAt
		cloned.TrashedAt = &at
	}
	if e.Tags != nil {
		cloned.Tags = append([]string(nil), e.Tags...)
	}
	if e.Contents != nil {
		cloned.Contents = make([]*contents.Content, 0, len(e.Contents))
		for _, c := range e.Contents {
			cloned.Contents = append(cloned.Contents, c.Clone())
		}
	}
	return &cloned
}

// Repository persists elements. Place on a non trash key authoritatively
// writes page, cell and position and takes the element out of the trash.
type Repository interface {
	positions.Store

	Create(ctx context.Context, record *Element) error
	GetByID(ctx context.Context, id uuid.UUID) (*Element, error)
	// ListByPage returns the non trashed elements of a page ordered by cell
	// then position.
	ListByPage(ctx context.Context, pageID uuid.UUID) ([]*Element, error)
	ListTrashed(ctx context.Context) ([]*Element, error)
	// Update writes the attribute columns (name, public, folded, trashed_at,
	// tags, updated_at). Placement goes through Place.
	Update(ctx context.Context, record *Element) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var (
	ErrPageRequired        = errors.New("elements: page id is required")
	ErrNameRequired        = errors.New("elements: element name is required")
	ErrElementNotAllowed   = errors.New("elements: element not allowed on page")
	ErrUniqueElement       = errors.New("elements: unique element already present on page")
	ErrInvalidSource       = errors.New("elements: invalid paste source")
	ErrNotTrashed          = errors.New("elements: element is not trashed")
	ErrContentNotOnElement = errors.New("elements: content does not belong to element")
)

func notFound(key string) error {
	return domain.NotFound("element", key)
}
