package essences

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Kind tags the essence variant. The set is closed.
type Kind string

const (
	KindText     Kind = "text"
	KindRichtext Kind = "richtext"
	KindHTML     Kind = "html"
	KindBoolean  Kind = "boolean"
	KindDate     Kind = "date"
	KindFile     Kind = "file"
	KindLink     Kind = "link"
	KindPicture  Kind = "picture"
	KindSelect   Kind = "select"
)

var ErrUnknownKind = errors.New("essences: unknown essence kind")

// Kinds lists every supported variant.
func Kinds() []Kind {
	return []Kind{KindText, KindRichtext, KindHTML, KindBoolean, KindDate, KindFile, KindLink, KindPicture, KindSelect}
}

// ParseKind accepts "text", "essence_text" and "EssenceText" spellings.
func ParseKind(raw string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.TrimPrefix(normalized, "essence_")
	normalized = strings.TrimPrefix(normalized, "essence")
	kind := Kind(normalized)
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
	}
	return kind, nil
}

// Valid reports whether k is one of the supported variants.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Translatable reports whether edits of this kind are sent to translation memory.
func (k Kind) Translatable() bool {
	return k == KindText || k == KindRichtext || k == KindHTML
}

// Linkable reports whether the variant carries link fields.
func (k Kind) Linkable() bool {
	return k == KindText || k == KindLink || k == KindPicture
}

// Essence stores the typed value behind a content. Only the fields relevant to
// Kind are used; the rest stay zero.
type Essence struct {
	bun.BaseModel `bun:"table:essences,alias:es"`

	ID   uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Kind Kind      `bun:"kind,notnull" json:"kind"`

	Body         string     `bun:"body" json:"body,omitempty"`
	StrippedBody string     `bun:"stripped_body" json:"stripped_body,omitempty"`
	Value        *bool      `bun:"value" json:"value,omitempty"`
	Date         *time.Time `bun:"date,nullzero" json:"date,omitempty"`

	Link          string `bun:"link" json:"link,omitempty"`
	LinkTitle     string `bun:"link_title" json:"link_title,omitempty"`
	LinkTarget    string `bun:"link_target" json:"link_target,omitempty"`
	LinkClassName string `bun:"link_class_name" json:"link_class_name,omitempty"`

	PictureID  *uuid.UUID `bun:"picture_id,type:uuid" json:"picture_id,omitempty"`
	Caption    string     `bun:"caption" json:"caption,omitempty"`
	Title      string     `bun:"title" json:"title,omitempty"`
	AltTag     string     `bun:"alt_tag" json:"alt_tag,omitempty"`
	CSSClass   string     `bun:"css_class" json:"css_class,omitempty"`
	CropFrom   string     `bun:"crop_from" json:"crop_from,omitempty"`
	CropSize   string     `bun:"crop_size" json:"crop_size,omitempty"`
	RenderSize string     `bun:"render_size" json:"render_size,omitempty"`

	AttachmentID *uuid.UUID `bun:"attachment_id,type:uuid" json:"attachment_id,omitempty"`

	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// New builds an empty essence of kind.
func New(id uuid.UUID, kind Kind, now time.Time) *Essence {
	return &Essence{ID: id, Kind: kind, CreatedAt: now, UpdatedAt: now}
}

// Clone returns a deep copy of e.
func (e *Essence) Clone() *Essence {
	if e == nil {
		return nil
	}
	cloned := *e
	if e.Value != nil {
		value := *e.Value
		cloned.Value = &value
	}
	if e.Date != nil {
		date := *e.Date
		cloned.Date = &date
	}
	if e.PictureID != nil {
		id := *e.PictureID
		cloned.PictureID = &id
	}
	if e.AttachmentID != nil {
		id := *e.AttachmentID
		cloned.AttachmentID = &id
	}
	return &cloned
}

// HasPicture reports whether a picture essence points at a stored picture.
func (e *Essence) HasPicture() bool {
	return e != nil && e.PictureID != nil && *e.PictureID != uuid.Nil
}
