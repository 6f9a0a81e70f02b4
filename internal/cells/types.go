package cells

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-cms-elements/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Cell is a named sub-container of a page. Identity is (PageID, Name).
type Cell struct {
	bun.BaseModel `bun:"table:cells,alias:c"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	PageID    uuid.UUID `bun:"page_id,notnull,type:uuid" json:"page_id"`
	Name      string    `bun:"name,notnull" json:"name"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Repository persists cells.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Cell, error)
	FindByName(ctx context.Context, pageID uuid.UUID, name string) (*Cell, error)
	ListByPage(ctx context.Context, pageID uuid.UUID) ([]*Cell, error)
	Create(ctx context.Context, record *Cell) (*Cell, error)
}

var ErrCellExists = errors.New("cells: cell already exists")

func notFound(key string) error {
	return domain.NotFound("cell", key)
}

// ParseQualifiedName splits "<element>#<cell>" on the last '#'. An empty
// qualifier or a missing '#' yields no cell.
func ParseQualifiedName(raw string) (element, cell string) {
	raw = strings.TrimSpace(raw)
	idx := strings.LastIndex(raw, "#")
	if idx < 0 {
		return raw, ""
	}
	return strings.TrimSpace(raw[:idx]), strings.TrimSpace(raw[idx+1:])
}

func cloneCell(c *Cell) *Cell {
	if c == nil {
		return nil
	}
	cloned := *c
	return &cloned
}
