package definitions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-cms-elements/internal/essences"
)

const (
	InsertAtTop    = "top"
	InsertAtBottom = "bottom"
)

// Document is the on-disk shape of a definitions file.
type Document struct {
	PageLayouts []PageLayout        `yaml:"page_layouts" json:"page_layouts,omitempty"`
	Cells       []CellDefinition    `yaml:"cells" json:"cells,omitempty"`
	Elements    []ElementDefinition `yaml:"elements" json:"elements,omitempty"`
}

// PageLayout describes what a page of a given layout may hold.
type PageLayout struct {
	Name             string   `yaml:"name" json:"name"`
	Cells            []string `yaml:"cells" json:"cells,omitempty"`
	Elements         []string `yaml:"elements" json:"elements,omitempty"`
	InsertElementsAt string   `yaml:"insert_elements_at" json:"insert_elements_at,omitempty"`
}

// CanHaveCells reports whether elements on this layout may live in cells.
func (p PageLayout) CanHaveCells() bool {
	return len(p.Cells) > 0
}

// HasCell reports whether name is one of the layout cells.
func (p PageLayout) HasCell(name string) bool {
	return contains(p.Cells, name)
}

// InsertsAtTop reports whether new elements go to position 1.
func (p PageLayout) InsertsAtTop() bool {
	return strings.EqualFold(strings.TrimSpace(p.InsertElementsAt), InsertAtTop)
}

// AllowsElement reports whether an element of name may be placed on the
// layout. A layout without an element list accepts every element.
func (p PageLayout) AllowsElement(name string) bool {
	if len(p.Elements) == 0 {
		return true
	}
	return contains(p.Elements, name)
}

// CellDefinition is the structural definition of a named cell.
type CellDefinition struct {
	Name     string   `yaml:"name" json:"name"`
	Elements []string `yaml:"elements" json:"elements,omitempty"`
}

// AllowsElement reports whether an element of name may be placed in the cell.
func (c CellDefinition) AllowsElement(name string) bool {
	if len(c.Elements) == 0 {
		return true
	}
	return contains(c.Elements, name)
}

// ElementDefinition lists the contents created with every element of Name.
type ElementDefinition struct {
	Name     string              `yaml:"name" json:"name"`
	Unique   bool                `yaml:"unique" json:"unique,omitempty"`
	Contents []ContentDefinition `yaml:"contents" json:"contents,omitempty"`
}

// Content returns the content definition called name.
func (e ElementDefinition) Content(name string) (ContentDefinition, bool) {
	for _, content := range e.Contents {
		if content.Name == name {
			return content, true
		}
	}
	return ContentDefinition{}, false
}

// ContentDefinition declares one typed value slot of an element.
type ContentDefinition struct {
	Name     string         `yaml:"name" json:"name"`
	Type     string         `yaml:"type" json:"type"`
	Validate []any          `yaml:"validate" json:"validate,omitempty"`
	Settings map[string]any `yaml:"settings" json:"settings,omitempty"`
	Default  any            `yaml:"default" json:"default,omitempty"`
}

// Kind resolves the essence variant named by Type.
func (c ContentDefinition) Kind() (essences.Kind, error) {
	return essences.ParseKind(c.Type)
}

// Rules converts the validate entries and select values into essence rules.
func (c ContentDefinition) Rules() (essences.Rules, error) {
	var rules essences.Rules
	for _, entry := range c.Validate {
		switch typed := entry.(type) {
		case string:
			if strings.TrimSpace(typed) != "presence" {
				return rules, fmt.Errorf("definitions: content %s: unknown validation %q", c.Name, typed)
			}
			rules.Presence = true
		case map[string]any:
			if err := applyRule(&rules, typed); err != nil {
				return rules, fmt.Errorf("definitions: content %s: %w", c.Name, err)
			}
		default:
			return rules, fmt.Errorf("definitions: content %s: unsupported validation %T", c.Name, entry)
		}
	}
	rules.Options = c.SelectValues()
	return rules, nil
}

// SelectValues returns the allowed options of a select content.
func (c ContentDefinition) SelectValues() []string {
	raw, ok := c.Settings["select_values"]
	if !ok {
		return nil
	}
	values, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, fmt.Sprint(value))
	}
	return out
}

func applyRule(rules *essences.Rules, entry map[string]any) error {
	for key, value := range entry {
		switch key {
		case "format":
			format, _ := value.(string)
			format = strings.TrimSpace(format)
			if format != essences.FormatURL && format != essences.FormatEmail {
				if _, err := regexp.Compile(format); err != nil {
					return fmt.Errorf("invalid format %q", format)
				}
			}
			rules.Format = format
		case "length":
			bounds, ok := value.(map[string]any)
			if !ok {
				return fmt.Errorf("length expects min/max")
			}
			rules.MinLength = toInt(bounds["min"])
			rules.MaxLength = toInt(bounds["max"])
		default:
			return fmt.Errorf("unknown validation %q", key)
		}
	}
	return nil
}

func toInt(value any) int {
	switch typed := value.(type) {
	case int:
		return typed
	case int64:
		return int(typed)
	case uint64:
		return int(typed)
	case float64:
		return int(typed)
	default:
		return 0
	}
}

func contains(values []string, name string) bool {
	name = strings.TrimSpace(name)
	for _, value := range values {
		if strings.TrimSpace(value) == name {
			return true
		}
	}
	return false
}
