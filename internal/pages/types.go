package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-cms-elements/internal/domain"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Page is the document elements are placed on. Pages are owned by the host
// application; this module only reads them and creates them for seeding.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID           uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name         string    `bun:"name,notnull" json:"name"`
	Slug         string    `bun:"slug,notnull" json:"slug"`
	LanguageCode string    `bun:"language_code,notnull" json:"language_code"`
	Layout       string    `bun:"layout,notnull" json:"layout"`
	CreatedAt    time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Repository persists pages.
type Repository interface {
	Create(ctx context.Context, record *Page) (*Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, slug, languageCode string) (*Page, error)
	List(ctx context.Context) ([]*Page, error)
	Update(ctx context.Context, record *Page) (*Page, error)
}

var (
	ErrNameRequired   = errors.New("pages: name is required")
	ErrLayoutRequired = errors.New("pages: layout is required")
	ErrLocaleRequired = errors.New("pages: language code is required")
)

// PageNotFoundError is returned when a page cannot be located.
type PageNotFoundError struct {
	Key string
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("page %q not found", e.Key)
}

// Is matches domain.ErrNotFound.
func (e *PageNotFoundError) Is(target error) bool {
	return target == domain.ErrNotFound
}

// Prepare fills the derived fields of record and checks required ones.
func Prepare(record *Page, now time.Time) error {
	record.Name = strings.TrimSpace(record.Name)
	record.Layout = strings.TrimSpace(record.Layout)
	record.LanguageCode = strings.ToLower(strings.TrimSpace(record.LanguageCode))
	switch {
	case record.Name == "":
		return ErrNameRequired
	case record.Layout == "":
		return ErrLayoutRequired
	case record.LanguageCode == "":
		return ErrLocaleRequired
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if strings.TrimSpace(record.Slug) == "" {
		normalized, err := slug.Normalize(record.Name)
		if err != nil {
			return fmt.Errorf("pages: slug for %q: %w", record.Name, err)
		}
		record.Slug = normalized
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}
	return nil
}

func clonePage(p *Page) *Page {
	if p == nil {
		return nil
	}
	cloned := *p
	return &cloned
}
