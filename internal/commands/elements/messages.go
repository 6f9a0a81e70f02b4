package elementscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-elements/internal/clipboard"
	"github.com/goliatone/go-cms-elements/internal/essences"
	"github.com/google/uuid"
)

const (
	createElementMessageType    = "cms.elements.create"
	orderElementsMessageType    = "cms.elements.order"
	foldElementMessageType      = "cms.elements.fold"
	trashElementMessageType     = "cms.elements.trash"
	restoreElementMessageType   = "cms.elements.restore"
	deleteElementMessageType    = "cms.elements.delete"
	clipboardElementMessageType = "cms.elements.clipboard"
	pasteElementMessageType     = "cms.elements.paste"
	updateContentsMessageType   = "cms.elements.contents.update"
)

// CreateElementCommand creates an element from its definition. Name may carry
// a cell qualifier ("teaser#news").
type CreateElementCommand struct {
	PageID uuid.UUID `json:"page_id"`
	Name   string    `json:"name"`
	Public *bool     `json:"public,omitempty"`
	Tags   []string  `json:"tags,omitempty"`
}

// Type implements command.Message.
func (CreateElementCommand) Type() string { return createElementMessageType }

// Validate implements command.Message.
func (m CreateElementCommand) Validate() error {
	errs := validation.Errors{}
	if m.PageID == uuid.Nil {
		errs["page_id"] = validation.NewError("cms.elements.create.page_id_required", "page_id is required")
	}
	if strings.TrimSpace(strings.SplitN(m.Name, "#", 2)[0]) == "" {
		errs["name"] = validation.NewError("cms.elements.create.name_required", "name is required")
	}
	return errs.Filter()
}

// OrderElementsCommand assigns positions 1..n to ElementIDs inside (PageID, CellID).
type OrderElementsCommand struct {
	PageID     uuid.UUID   `json:"page_id"`
	CellID     *uuid.UUID  `json:"cell_id,omitempty"`
	ElementIDs []uuid.UUID `json:"element_ids"`
}

// Type implements command.Message.
func (OrderElementsCommand) Type() string { return orderElementsMessageType }

// Validate implements command.Message.
func (m OrderElementsCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.PageID, validation.Required.Error("page_id is required")),
		validation.Field(&m.ElementIDs, validation.Required.Error("element_ids is required")),
	)
}

// ElementCommand targets a single element by id.
type ElementCommand struct {
	ElementID uuid.UUID `json:"element_id"`
}

func (m ElementCommand) validate(code string) error {
	if m.ElementID == uuid.Nil {
		return validation.Errors{
			"element_id": validation.NewError(code, "element_id is required"),
		}
	}
	return nil
}

// FoldElementCommand toggles the folded flag.
type FoldElementCommand ElementCommand

func (FoldElementCommand) Type() string { return foldElementMessageType }

func (m FoldElementCommand) Validate() error {
	return ElementCommand(m).validate("cms.elements.fold.element_id_required")
}

// TrashElementCommand moves an element to the trash.
type TrashElementCommand ElementCommand

func (TrashElementCommand) Type() string { return trashElementMessageType }

func (m TrashElementCommand) Validate() error {
	return ElementCommand(m).validate("cms.elements.trash.element_id_required")
}

// DeleteElementCommand destroys an element with its contents.
type DeleteElementCommand ElementCommand

func (DeleteElementCommand) Type() string { return deleteElementMessageType }

func (m DeleteElementCommand) Validate() error {
	return ElementCommand(m).validate("cms.elements.delete.element_id_required")
}

// RestoreElementCommand takes an element out of the trash.
type RestoreElementCommand struct {
	ElementID uuid.UUID  `json:"element_id"`
	PageID    uuid.UUID  `json:"page_id,omitempty"`
	CellID    *uuid.UUID `json:"cell_id,omitempty"`
}

func (RestoreElementCommand) Type() string { return restoreElementMessageType }

func (m RestoreElementCommand) Validate() error {
	return ElementCommand{ElementID: m.ElementID}.validate("cms.elements.restore.element_id_required")
}

// ClipboardElementCommand puts an element on the session clipboard.
type ClipboardElementCommand struct {
	Session   clipboard.Session `json:"session"`
	ElementID uuid.UUID         `json:"element_id"`
	Action    clipboard.Action  `json:"action"`
}

func (ClipboardElementCommand) Type() string { return clipboardElementMessageType }

func (m ClipboardElementCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(string(m.Session)) == "" {
		errs["session"] = validation.NewError("cms.elements.clipboard.session_required", "session is required")
	}
	if m.ElementID == uuid.Nil {
		errs["element_id"] = validation.NewError("cms.elements.clipboard.element_id_required", "element_id is required")
	}
	if !m.Action.Valid() {
		errs["action"] = validation.NewError("cms.elements.clipboard.action_invalid", "action must be copy or cut")
	}
	return errs.Filter()
}

// PasteElementCommand pastes a clipboard entry onto a page. Source is
// "<element id>[#<cell name>]".
type PasteElementCommand struct {
	Session clipboard.Session `json:"session"`
	PageID  uuid.UUID         `json:"page_id"`
	Source  string            `json:"source"`
}

func (PasteElementCommand) Type() string { return pasteElementMessageType }

func (m PasteElementCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(string(m.Session)) == "" {
		errs["session"] = validation.NewError("cms.elements.paste.session_required", "session is required")
	}
	if m.PageID == uuid.Nil {
		errs["page_id"] = validation.NewError("cms.elements.paste.page_id_required", "page_id is required")
	}
	if strings.TrimSpace(m.Source) == "" {
		errs["source"] = validation.NewError("cms.elements.paste.source_required", "source is required")
	}
	return errs.Filter()
}

// UpdateContentsCommand updates the contents and attributes of an element.
type UpdateContentsCommand struct {
	ElementID     uuid.UUID                     `json:"element_id"`
	Contents      map[uuid.UUID]essences.Params `json:"contents,omitempty"`
	SkipTranslate map[uuid.UUID]bool            `json:"skip_translate,omitempty"`
	Public        *bool                         `json:"public,omitempty"`
	Tags          []string                      `json:"tags,omitempty"`
}

func (UpdateContentsCommand) Type() string { return updateContentsMessageType }

func (m UpdateContentsCommand) Validate() error {
	return ElementCommand{ElementID: m.ElementID}.validate("cms.elements.contents.update.element_id_required")
}
