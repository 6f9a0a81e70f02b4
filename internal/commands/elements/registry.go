package elementscmd

import (
	"errors"

	"github.com/goliatone/go-cms-elements/internal/commands"
	"github.com/goliatone/go-cms-elements/internal/elements"
	"github.com/goliatone/go-cms-elements/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the element command handlers produced by RegisterElementCommands.
type HandlerSet struct {
	Create         *CreateElementHandler
	Order          *OrderElementsHandler
	Fold           *FoldElementHandler
	Trash          *TrashElementHandler
	Restore        *RestoreElementHandler
	Delete         *DeleteElementHandler
	Clipboard      *ClipboardElementHandler
	Paste          *PasteElementHandler
	UpdateContents *UpdateContentsHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	orderOpts  []commands.HandlerOption[OrderElementsCommand]
	updateOpts []commands.HandlerOption[UpdateContentsCommand]
}

// WithOrderHandlerOptions forwards options to the OrderElementsHandler constructor.
func WithOrderHandlerOptions(opts ...commands.HandlerOption[OrderElementsCommand]) Option {
	return func(cfg *options) {
		cfg.orderOpts = append(cfg.orderOpts, opts...)
	}
}

// WithUpdateContentsHandlerOptions forwards options to the UpdateContentsHandler constructor.
func WithUpdateContentsHandlerOptions(opts ...commands.HandlerOption[UpdateContentsCommand]) Option {
	return func(cfg *options) {
		cfg.updateOpts = append(cfg.updateOpts, opts...)
	}
}

// RegisterElementCommands builds the element command handlers and registers
// them with reg. A nil registry only builds the handlers.
func RegisterElementCommands(reg CommandRegistry, service elements.Service, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("element command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "elements")

	set := &HandlerSet{
		Create:         NewCreateElementHandler(service, logger),
		Order:          NewOrderElementsHandler(service, logger, cfg.orderOpts...),
		Fold:           NewFoldElementHandler(service, logger),
		Trash:          NewTrashElementHandler(service, logger),
		Restore:        NewRestoreElementHandler(service, logger),
		Delete:         NewDeleteElementHandler(service, logger),
		Clipboard:      NewClipboardElementHandler(service, logger),
		Paste:          NewPasteElementHandler(service, logger),
		UpdateContents: NewUpdateContentsHandler(service, logger, cfg.updateOpts...),
	}

	if reg != nil {
		for _, handler := range []any{
			set.Create,
			set.Order,
			set.Fold,
			set.Trash,
			set.Restore,
			set.Delete,
			set.Clipboard,
			set.Paste,
			set.UpdateContents,
		} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}

	return set, nil
}
