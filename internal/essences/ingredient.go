package essences

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Params carries attribute updates for an essence, keyed by column name.
// "ingredient" always addresses the primary value of the variant.
type Params map[string]any

const ParamIngredient = "ingredient"

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Ingredient returns the primary value of the variant.
func (e *Essence) Ingredient() any {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case KindText, KindRichtext, KindHTML, KindSelect:
		return e.Body
	case KindLink:
		return e.Link
	case KindBoolean:
		if e.Value == nil {
			return nil
		}
		return *e.Value
	case KindDate:
		if e.Date == nil {
			return nil
		}
		return *e.Date
	case KindPicture:
		if e.PictureID == nil {
			return nil
		}
		return *e.PictureID
	case KindFile:
		if e.AttachmentID == nil {
			return nil
		}
		return *e.AttachmentID
	default:
		return nil
	}
}

// EmptyIngredient is the value reported for an unset ingredient of kind.
func EmptyIngredient(kind Kind) any {
	switch kind {
	case KindText, KindRichtext, KindHTML, KindSelect, KindLink:
		return ""
	default:
		return nil
	}
}

// SerializedIngredient renders the ingredient for API payloads.
func (e *Essence) SerializedIngredient() any {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case KindDate:
		if e.Date == nil {
			return nil
		}
		return e.Date.UTC().Format(time.RFC3339)
	case KindPicture, KindFile:
		if id, ok := e.Ingredient().(uuid.UUID); ok {
			return id.String()
		}
		return nil
	default:
		return e.Ingredient()
	}
}

// Apply returns a copy of e with params applied and validated against rules.
// The receiver is never modified; on failure the returned error carries the
// field issues as goerrors.ValidationErrors.
func (e *Essence) Apply(params Params, rules Rules, now time.Time) (*Essence, goerrors.ValidationErrors) {
	updated := e.Clone()
	var issues goerrors.ValidationErrors
	for key, value := range params {
		if err := updated.assign(key, value); err != nil {
			issues = append(issues, goerrors.FieldError{Field: key, Message: err.Error(), Value: value})
		}
	}
	issues = append(issues, updated.Validate(rules)...)
	if len(issues) > 0 {
		return nil, issues
	}
	if updated.Kind == KindRichtext {
		updated.StrippedBody = stripTags(updated.Body)
	}
	updated.UpdatedAt = now
	return updated, nil
}

func (e *Essence) assign(key string, value any) error {
	switch strings.TrimSpace(key) {
	case ParamIngredient:
		return e.setIngredient(value)
	case "body":
		s, err := toString(value)
		e.Body = s
		return err
	case "value":
		b, err := toBool(value)
		e.Value = b
		return err
	case "date":
		t, err := toTime(value)
		e.Date = t
		return err
	case "link":
		return assignString(&e.Link, value)
	case "link_title":
		return assignString(&e.LinkTitle, value)
	case "link_target":
		return assignString(&e.LinkTarget, value)
	case "link_class_name":
		return assignString(&e.LinkClassName, value)
	case "picture_id":
		id, err := toUUID(value)
		e.PictureID = id
		return err
	case "caption":
		return assignString(&e.Caption, value)
	case "title":
		return assignString(&e.Title, value)
	case "alt_tag":
		return assignString(&e.AltTag, value)
	case "css_class":
		return assignString(&e.CSSClass, value)
	case "crop_from":
		return assignString(&e.CropFrom, value)
	case "crop_size":
		return assignString(&e.CropSize, value)
	case "render_size":
		return assignString(&e.RenderSize, value)
	case "attachment_id":
		id, err := toUUID(value)
		e.AttachmentID = id
		return err
	default:
		return fmt.Errorf("unknown attribute for %s essence", e.Kind)
	}
}

func (e *Essence) setIngredient(value any) error {
	switch e.Kind {
	case KindText, KindRichtext, KindHTML, KindSelect:
		return assignString(&e.Body, value)
	case KindLink:
		return assignString(&e.Link, value)
	case KindBoolean:
		b, err := toBool(value)
		if err != nil {
			return err
		}
		e.Value = b
	case KindDate:
		t, err := toTime(value)
		if err != nil {
			return err
		}
		e.Date = t
	case KindPicture:
		id, err := toUUID(value)
		if err != nil {
			return err
		}
		e.PictureID = id
	case KindFile:
		id, err := toUUID(value)
		if err != nil {
			return err
		}
		e.AttachmentID = id
	default:
		return ErrUnknownKind
	}
	return nil
}

func assignString(target *string, value any) error {
	s, err := toString(value)
	if err != nil {
		return err
	}
	*target = s
	return nil
}

func toString(value any) (string, error) {
	switch typed := value.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case []byte:
		return string(typed), nil
	case fmt.Stringer:
		return typed.String(), nil
	case int, int32, int64, float32, float64, bool:
		return fmt.Sprint(typed), nil
	default:
		return "", fmt.Errorf("expected text, got %T", value)
	}
}

func toBool(value any) (*bool, error) {
	var out bool
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case bool:
		out = typed
	case *bool:
		return typed, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "1", "true", "t", "on", "yes":
			out = true
		case "0", "false", "f", "off", "no", "":
			out = false
		default:
			return nil, fmt.Errorf("expected boolean, got %q", typed)
		}
	default:
		return nil, fmt.Errorf("expected boolean, got %T", value)
	}
	return &out, nil
}

func toTime(value any) (*time.Time, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		if typed.IsZero() {
			return nil, nil
		}
		return &typed, nil
	case *time.Time:
		return typed, nil
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return nil, nil
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return &parsed, nil
			}
		}
		return nil, fmt.Errorf("expected date, got %q", typed)
	default:
		return nil, fmt.Errorf("expected date, got %T", value)
	}
}

func toUUID(value any) (*uuid.UUID, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case uuid.UUID:
		if typed == uuid.Nil {
			return nil, nil
		}
		return &typed, nil
	case *uuid.UUID:
		return typed, nil
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return nil, nil
		}
		parsed, err := uuid.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("expected identifier, got %q", typed)
		}
		return &parsed, nil
	default:
		return nil, fmt.Errorf("expected identifier, got %T", value)
	}
}

func stripTags(body string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(body, "")))
}
