package elementscmd

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-elements/internal/clipboard"
	"github.com/goliatone/go-cms-elements/internal/commands"
	"github.com/goliatone/go-cms-elements/internal/elements"
	"github.com/goliatone/go-cms-elements/internal/logging"
	"github.com/goliatone/go-cms-elements/pkg/interfaces"
	command "github.com/goliatone/go-command"
	"github.com/google/uuid"
)

var (
	_ command.Commander[CreateElementCommand]    = (*CreateElementHandler)(nil)
	_ command.Commander[OrderElementsCommand]    = (*OrderElementsHandler)(nil)
	_ command.Commander[FoldElementCommand]      = (*FoldElementHandler)(nil)
	_ command.Commander[TrashElementCommand]     = (*TrashElementHandler)(nil)
	_ command.Commander[RestoreElementCommand]   = (*RestoreElementHandler)(nil)
	_ command.Commander[DeleteElementCommand]    = (*DeleteElementHandler)(nil)
	_ command.Commander[ClipboardElementCommand] = (*ClipboardElementHandler)(nil)
	_ command.Commander[PasteElementCommand]     = (*PasteElementHandler)(nil)
	_ command.Commander[UpdateContentsCommand]   = (*UpdateContentsHandler)(nil)
)

func build[T command.Message](exec command.CommandFunc[T], logger interfaces.Logger, operation string, fields func(T) map[string]any, opts []commands.HandlerOption[T]) *commands.Handler[T] {
	handlerOpts := []commands.HandlerOption[T]{
		commands.WithLogger[T](logger),
		commands.WithOperation[T](operation),
		commands.WithMessageFields(fields),
		commands.WithTelemetry(commands.DefaultTelemetry[T](logger)),
	}
	return commands.NewHandler(exec, append(handlerOpts, opts...)...)
}

func baseLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}

func elementFields(id uuid.UUID) map[string]any {
	if id == uuid.Nil {
		return nil
	}
	return map[string]any{"element_id": id}
}

// CreateElementHandler creates elements through the element service.
type CreateElementHandler struct {
	inner *commands.Handler[CreateElementCommand]
}

func NewCreateElementHandler(service elements.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CreateElementCommand]) *CreateElementHandler {
	logger = baseLogger(logger)
	exec := func(ctx context.Context, msg CreateElementCommand) error {
		record, err := service.Create(ctx, elements.CreateElementInput{
			PageID: msg.PageID,
			Name:   msg.Name,
			Public: msg.Public,
			Tags:   msg.Tags,
		})
		if err != nil {
			return err
		}
		logging.WithFields(logger, map[string]any{
			"element_id": record.ID,
			"position":   record.Position,
		}).Debug("elements.command.create.completed")
		return nil
	}
	fields := func(msg CreateElementCommand) map[string]any {
		return map[string]any{"page_id": msg.PageID, "name": strings.TrimSpace(msg.Name)}
	}
	return &CreateElementHandler{inner: build(exec, logger, "elements.create", fields, opts)}
}

// Execute satisfies command.Commander[CreateElementCommand].Execute.
func (h *CreateElementHandler) Execute(ctx context.Context, msg CreateElementCommand) error {
	return h.inner.Execute(ctx, msg)
}

// OrderElementsHandler reorders elements inside a page or cell.
type OrderElementsHandler struct {
	inner *commands.Handler[OrderElementsCommand]
}

func NewOrderElementsHandler(service elements.Service, logger interfaces.Logger, opts ...commands.HandlerOption[OrderElementsCommand]) *OrderElementsHandler {
	logger = baseLogger(logger)
	exec := func(ctx context.Context, msg OrderElementsCommand) error {
		_, err := service.Order(ctx, elements.OrderInput{
			ElementIDs: msg.ElementIDs,
			PageID:     msg.PageID,
			CellID:     msg.CellID,
		})
		return err
	}
	fields := func(msg OrderElementsCommand) map[string]any {
		fields := map[string]any{"page_id": msg.PageID, "count": len(msg.ElementIDs)}
		if msg.CellID != nil {
			fields["cell_id"] = *msg.CellID
		}
		return fields
	}
	return &OrderElementsHandler{inner: build(exec, logger, "elements.order", fields, opts)}
}

func (h *OrderElementsHandler) Execute(ctx context.Context, msg OrderElementsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// FoldElementHandler toggles the folded flag.
type FoldElementHandler struct {
	inner *commands.Handler[FoldElementCommand]
}

func NewFoldElementHandler(service elements.Service, logger interfaces.Logger, opts ...commands.HandlerOption[FoldElementCommand]) *FoldElementHandler {
	exec := func(ctx context.Context, msg FoldElementCommand) error {
		_, err := service.Fold(ctx, msg.ElementID)
		return err
	}
	fields := func(msg FoldElementCommand) map[string]any { return elementFields(msg.ElementID) }
	return &FoldElementHandler{inner: build(exec, baseLogger(logger), "elements.fold", fields, opts)}
}

func (h *FoldElementHandler) Execute(ctx context.Context, msg FoldElementCommand) error {
	return h.inner.Execute(ctx, msg)
}

// TrashElementHandler moves elements to the trash.
type TrashElementHandler struct {
	inner *commands.Handler[TrashElementCommand]
}

func NewTrashElementHandler(service elements.Service, logger interfaces.Logger, opts ...commands.HandlerOption[TrashElementCommand]) *TrashElementHandler {
	exec := func(ctx context.Context, msg TrashElementCommand) error {
		_, err := service.Trash(ctx, msg.ElementID)
		return err
	}
	fields := func(msg TrashElementCommand) map[string]any { return elementFields(msg.ElementID) }
	return &TrashElementHandler{inner: build(exec, baseLogger(logger), "elements.trash", fields, opts)}
}

func (h *TrashElementHandler) Execute(ctx context.Context, msg TrashElementCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RestoreElementHandler restores trashed elements.
type RestoreElementHandler struct {
	inner *commands.Handler[RestoreElementCommand]
}

func NewRestoreElementHandler(service elements.Service, logger interfaces.Logger, opts ...commands.HandlerOption[RestoreElementCommand]) *RestoreElementHandler {
	exec := func(ctx context.Context, msg RestoreElementCommand) error {
		_, err := service.Restore(ctx, elements.RestoreInput{
			ElementID: msg.ElementID,
			PageID:    msg.PageID,
			CellID:    msg.CellID,
		})
		return err
	}
	fields := func(msg RestoreElementCommand) map[string]any {
		fields := elementFields(msg.ElementID)
		if fields != nil && msg.PageID != uuid.Nil {
			fields["page_id"] = msg.PageID
		}
		return fields
	}
	return &RestoreElementHandler{inner: build(exec, baseLogger(logger), "elements.restore", fields, opts)}
}

func (h *RestoreElementHandler) Execute(ctx context.Context, msg RestoreElementCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DeleteElementHandler destroys elements.
type DeleteElementHandler struct {
	inner *commands.Handler[DeleteElementCommand]
}

func NewDeleteElementHandler(service elements.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteElementCommand]) *DeleteElementHandler {
	exec := func(ctx context.Context, msg DeleteElementCommand) error {
		return service.Delete(ctx, msg.ElementID)
	}
	fields := func(msg DeleteElementCommand) map[string]any { return elementFields(msg.ElementID) }
	return &DeleteElementHandler{inner: build(exec, baseLogger(logger), "elements.delete", fields, opts)}
}

func (h *DeleteElementHandler) Execute(ctx context.Context, msg DeleteElementCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ClipboardElementHandler copies or cuts elements onto a session clipboard.
type ClipboardElementHandler struct {
	inner *commands.Handler[ClipboardElementCommand]
}

func NewClipboardElementHandler(service elements.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ClipboardElementCommand]) *ClipboardElementHandler {
	exec := func(ctx context.Context, msg ClipboardElementCommand) error {
		var err error
		if msg.Action == clipboard.ActionCut {
			_, err = service.Cut(ctx, msg.Session, msg.ElementID)
		} else {
			_, err = service.Copy(ctx, msg.Session, msg.ElementID)
		}
		return err
	}
	fields := func(msg ClipboardElementCommand) map[string]any {
		return map[string]any{"element_id": msg.ElementID, "action": string(msg.Action)}
	}
	return &ClipboardElementHandler{inner: build(exec, baseLogger(logger), "elements.clipboard", fields, opts)}
}

func (h *ClipboardElementHandler) Execute(ctx context.Context, msg ClipboardElementCommand) error {
	return h.inner.Execute(ctx, msg)
}

// PasteElementHandler pastes clipboard entries onto pages.
type PasteElementHandler struct {
	inner *commands.Handler[PasteElementCommand]
}

func NewPasteElementHandler(service elements.Service, logger interfaces.Logger, opts ...commands.HandlerOption[PasteElementCommand]) *PasteElementHandler {
	exec := func(ctx context.Context, msg PasteElementCommand) error {
		_, err := service.Paste(ctx, elements.PasteInput{
			Session: msg.Session,
			PageID:  msg.PageID,
			Source:  msg.Source,
		})
		return err
	}
	fields := func(msg PasteElementCommand) map[string]any {
		return map[string]any{"page_id": msg.PageID, "source": strings.TrimSpace(msg.Source)}
	}
	return &PasteElementHandler{inner: build(exec, baseLogger(logger), "elements.paste", fields, opts)}
}

func (h *PasteElementHandler) Execute(ctx context.Context, msg PasteElementCommand) error {
	return h.inner.Execute(ctx, msg)
}

// UpdateContentsHandler updates element contents. A partial failure is
// reported as an essence validation error even though valid contents were
// saved.
type UpdateContentsHandler struct {
	inner *commands.Handler[UpdateContentsCommand]
}

func NewUpdateContentsHandler(service elements.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UpdateContentsCommand]) *UpdateContentsHandler {
	logger = baseLogger(logger)
	exec := func(ctx context.Context, msg UpdateContentsCommand) error {
		result, err := service.UpdateContents(ctx, elements.UpdateContentsInput{
			ElementID:     msg.ElementID,
			Contents:      msg.Contents,
			SkipTranslate: msg.SkipTranslate,
			Public:        msg.Public,
			Tags:          msg.Tags,
		})
		if err != nil {
			return err
		}
		logging.WithFields(logger, map[string]any{
			"updated": len(result.Updated),
			"failed":  len(result.Failed),
			"synced":  len(result.Synced),
			"queued":  result.Queued,
		}).Debug("elements.command.update_contents.completed")
		return result.Err()
	}
	fields := func(msg UpdateContentsCommand) map[string]any {
		fields := elementFields(msg.ElementID)
		if fields != nil {
			fields["contents"] = len(msg.Contents)
		}
		return fields
	}
	return &UpdateContentsHandler{inner: build(exec, logger, "elements.update_contents", fields, opts)}
}

func (h *UpdateContentsHandler) Execute(ctx context.Context, msg UpdateContentsCommand) error {
	return h.inner.Execute(ctx, msg)
}
