package cms

import (
	"context"
	"time"

	"github.com/goliatone/go-cms-elements/internal/clipboard"
	elementscmd "github.com/goliatone/go-cms-elements/internal/commands/elements"
	"github.com/goliatone/go-cms-elements/internal/definitions"
	"github.com/goliatone/go-cms-elements/internal/di"
	"github.com/goliatone/go-cms-elements/internal/domain"
	"github.com/goliatone/go-cms-elements/internal/elements"
	"github.com/goliatone/go-cms-elements/internal/essences"
	"github.com/goliatone/go-cms-elements/internal/pages"
	"github.com/goliatone/go-cms-elements/pkg/interfaces"
	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
)

// ElementService exports the element service contract.
type ElementService = elements.Service

type (
	Element             = elements.Element
	GroupedElements     = elements.GroupedElements
	CreateElementInput  = elements.CreateElementInput
	OrderInput          = elements.OrderInput
	RestoreInput        = elements.RestoreInput
	PasteInput          = elements.PasteInput
	UpdateContentsInput = elements.UpdateContentsInput
	UpdateResult        = elements.UpdateResult
	ClipboardEntry      = elements.ClipboardEntry
	ClipboardSession    = clipboard.Session
	EssenceParams       = essences.Params
	Page                = pages.Page
	PageRepository      = pages.Repository
	Definitions         = definitions.Registry
	ErrorKind           = domain.ErrorKind
)

// Element command messages accepted by Dispatch.
type (
	CreateElementCommand    = elementscmd.CreateElementCommand
	OrderElementsCommand    = elementscmd.OrderElementsCommand
	FoldElementCommand      = elementscmd.FoldElementCommand
	TrashElementCommand     = elementscmd.TrashElementCommand
	RestoreElementCommand   = elementscmd.RestoreElementCommand
	DeleteElementCommand    = elementscmd.DeleteElementCommand
	ClipboardElementCommand = elementscmd.ClipboardElementCommand
	PasteElementCommand     = elementscmd.PasteElementCommand
	UpdateContentsCommand   = elementscmd.UpdateContentsCommand
)

const (
	KindUnknownCellDefinition   = domain.KindUnknownCellDefinition
	KindEssenceMissing          = domain.KindEssenceMissing
	KindEssenceValidationFailed = domain.KindEssenceValidationFailed
	KindNotFound                = domain.KindNotFound
	KindInternal                = domain.KindInternal
)

// ErrorKindOf classifies err into the kinds exposed to callers.
func ErrorKindOf(err error) ErrorKind {
	return domain.Kind(err)
}

// Module represents the elements runtime façade.
type Module struct {
	container *di.Container
}

// New constructs the module from cfg and optional DI overrides.
func New(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Elements returns the configured element service.
func (m *Module) Elements() ElementService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.ElementService()
}

// Pages returns the page repository elements are placed against.
func (m *Module) Pages() PageRepository {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.PageRepository()
}

// Definitions returns the loaded layout, cell and element definitions.
func (m *Module) Definitions() *Definitions {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Definitions()
}

// TranslationQueue returns the queue missing translations are flushed to.
func (m *Module) TranslationQueue() interfaces.TranslationQueue {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.TranslationQueue()
}

// CreatePage seeds a page. Hosts usually own pages; this is meant for
// fixtures and examples.
func (m *Module) CreatePage(ctx context.Context, name, locale, layout string) (*Page, error) {
	record := &Page{Name: name, LanguageCode: locale, Layout: layout}
	if err := pages.Prepare(record, time.Now().UTC()); err != nil {
		return nil, err
	}
	if _, err := m.container.Definitions().PageLayout(record.Layout); err != nil {
		return nil, err
	}
	return m.Pages().Create(ctx, record)
}

// Close releases the resources opened by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Dispatch sends msg to the element command handlers. It requires
// Features.Commands.
func Dispatch[T command.Message](ctx context.Context, msg T) error {
	return dispatcher.Dispatch(ctx, msg)
}
