package definitions

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/goliatone/go-cms-elements/internal/validation"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var documentSchema []byte

//go:embed defaults.yml
var defaultDocument []byte

var (
	ErrPageLayoutNotFound = errors.New("definitions: page layout not found")
	ErrCellNotFound       = errors.New("definitions: cell definition not found")
	ErrElementNotFound    = errors.New("definitions: element definition not found")
	ErrDuplicateName      = errors.New("definitions: duplicate definition name")
	ErrUnknownReference   = errors.New("definitions: unknown reference")
)

var (
	schemaOnce      sync.Once
	schemaValidator *validation.Validator
	schemaErr       error
)

// Registry resolves page layouts, cells, and elements by name.
type Registry struct {
	mu       sync.RWMutex
	layouts  map[string]PageLayout
	cells    map[string]CellDefinition
	elements map[string]ElementDefinition
	order    []string
}

// Load parses and validates a YAML definitions document.
func Load(source string, data []byte) (*Registry, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("definitions: parse %s: %w", source, err)
	}
	validator, err := documentValidator()
	if err != nil {
		return nil, err
	}
	if raw != nil {
		if err := validator.Validate(source, raw); err != nil {
			return nil, err
		}
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("definitions: decode %s: %w", source, err)
	}
	return NewRegistry(doc)
}

// LoadFile reads the definitions document at path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("definitions: read %s: %w", path, err)
	}
	return Load(path, data)
}

// Default returns the built-in sample definitions.
func Default() (*Registry, error) {
	return Load("defaults.yml", defaultDocument)
}

func documentValidator() (*validation.Validator, error) {
	schemaOnce.Do(func() {
		schemaValidator, schemaErr = validation.Compile("definitions.schema.json", documentSchema)
	})
	return schemaValidator, schemaErr
}

// NewRegistry indexes doc and checks its cross references.
func NewRegistry(doc Document) (*Registry, error) {
	r := &Registry{
		layouts:  make(map[string]PageLayout, len(doc.PageLayouts)),
		cells:    make(map[string]CellDefinition, len(doc.Cells)),
		elements: make(map[string]ElementDefinition, len(doc.Elements)),
	}
	for _, cell := range doc.Cells {
		name := strings.TrimSpace(cell.Name)
		if _, dup := r.cells[name]; dup {
			return nil, fmt.Errorf("%w: cell %s", ErrDuplicateName, name)
		}
		cell.Name = name
		r.cells[name] = cell
	}
	for _, element := range doc.Elements {
		name := strings.TrimSpace(element.Name)
		if _, dup := r.elements[name]; dup {
			return nil, fmt.Errorf("%w: element %s", ErrDuplicateName, name)
		}
		seen := map[string]struct{}{}
		for _, content := range element.Contents {
			if _, dup := seen[content.Name]; dup {
				return nil, fmt.Errorf("%w: content %s on element %s", ErrDuplicateName, content.Name, name)
			}
			seen[content.Name] = struct{}{}
			if _, err := content.Kind(); err != nil {
				return nil, fmt.Errorf("definitions: element %s content %s: %w", name, content.Name, err)
			}
			if _, err := content.Rules(); err != nil {
				return nil, err
			}
		}
		element.Name = name
		r.elements[name] = element
		r.order = append(r.order, name)
	}
	for _, layout := range doc.PageLayouts {
		name := strings.TrimSpace(layout.Name)
		if _, dup := r.layouts[name]; dup {
			return nil, fmt.Errorf("%w: page layout %s", ErrDuplicateName, name)
		}
		for _, cell := range layout.Cells {
			if _, ok := r.cells[cell]; !ok {
				return nil, fmt.Errorf("%w: page layout %s cell %s", ErrUnknownReference, name, cell)
			}
		}
		for _, element := range layout.Elements {
			if _, ok := r.elements[element]; !ok {
				return nil, fmt.Errorf("%w: page layout %s element %s", ErrUnknownReference, name, element)
			}
		}
		layout.Name = name
		r.layouts[name] = layout
	}
	for _, cell := range r.cells {
		for _, element := range cell.Elements {
			if _, ok := r.elements[element]; !ok {
				return nil, fmt.Errorf("%w: cell %s element %s", ErrUnknownReference, cell.Name, element)
			}
		}
	}
	return r, nil
}

// PageLayout returns the layout called name.
func (r *Registry) PageLayout(name string) (PageLayout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	layout, ok := r.layouts[strings.TrimSpace(name)]
	if !ok {
		return PageLayout{}, fmt.Errorf("%w: %s", ErrPageLayoutNotFound, name)
	}
	return layout, nil
}

// Cell returns the structural definition of the cell called name.
func (r *Registry) Cell(name string) (CellDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cell, ok := r.cells[strings.TrimSpace(name)]
	if !ok {
		return CellDefinition{}, fmt.Errorf("%w: %s", ErrCellNotFound, name)
	}
	return cell, nil
}

// Element returns the element definition called name.
func (r *Registry) Element(name string) (ElementDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	element, ok := r.elements[strings.TrimSpace(name)]
	if !ok {
		return ElementDefinition{}, fmt.Errorf("%w: %s", ErrElementNotFound, name)
	}
	return element, nil
}

// Elements lists element definitions in document order.
func (r *Registry) Elements() []ElementDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ElementDefinition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.elements[name])
	}
	return out
}
