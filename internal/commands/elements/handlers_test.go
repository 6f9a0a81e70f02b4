package elementscmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-elements/internal/clipboard"
	"github.com/goliatone/go-cms-elements/internal/commands"
	"github.com/goliatone/go-cms-elements/internal/domain"
	"github.com/goliatone/go-cms-elements/internal/elements"
	"github.com/goliatone/go-cms-elements/internal/essences"
	"github.com/goliatone/go-cms-elements/internal/logging"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type stubElementService struct {
	created   []elements.CreateElementInput
	ordered   []elements.OrderInput
	trashed   []uuid.UUID
	cut       []uuid.UUID
	copied    []uuid.UUID
	pasted    []elements.PasteInput
	updated   []elements.UpdateContentsInput
	updateRes *elements.UpdateResult
	trashErr  error
}

func (s *stubElementService) Create(_ context.Context, input elements.CreateElementInput) (*elements.Element, error) {
	s.created = append(s.created, input)
	return &elements.Element{ID: uuid.New(), PageID: input.PageID, Name: input.Name, Position: 1}, nil
}

func (s *stubElementService) Get(context.Context, uuid.UUID) (*elements.Element, error) {
	return nil, errors.New("not implemented")
}

func (s *stubElementService) List(context.Context, uuid.UUID) ([]*elements.Element, error) {
	return nil, errors.New("not implemented")
}

func (s *stubElementService) ListGrouped(context.Context, uuid.UUID) (*elements.GroupedElements, error) {
	return nil, errors.New("not implemented")
}

func (s *stubElementService) ListPublished(context.Context, uuid.UUID) ([]*elements.Element, error) {
	return nil, errors.New("not implemented")
}

func (s *stubElementService) ListTrashed(context.Context) ([]*elements.Element, error) {
	return nil, errors.New("not implemented")
}

func (s *stubElementService) Order(_ context.Context, input elements.OrderInput) ([]uuid.UUID, error) {
	s.ordered = append(s.ordered, input)
	return input.ElementIDs, nil
}

func (s *stubElementService) Fold(_ context.Context, id uuid.UUID) (*elements.Element, error) {
	return &elements.Element{ID: id, Folded: true}, nil
}

func (s *stubElementService) Trash(_ context.Context, id uuid.UUID) (*elements.Element, error) {
	if s.trashErr != nil {
		return nil, s.trashErr
	}
	s.trashed = append(s.trashed, id)
	return &elements.Element{ID: id}, nil
}

func (s *stubElementService) Restore(_ context.Context, input elements.RestoreInput) (*elements.Element, error) {
	return &elements.Element{ID: input.ElementID}, nil
}

func (s *stubElementService) Delete(context.Context, uuid.UUID) error {
	return nil
}

func (s *stubElementService) Copy(_ context.Context, _ clipboard.Session, id uuid.UUID) (clipboard.Item, error) {
	s.copied = append(s.copied, id)
	return clipboard.Item{ID: id, Action: clipboard.ActionCopy}, nil
}

func (s *stubElementService) Cut(_ context.Context, _ clipboard.Session, id uuid.UUID) (clipboard.Item, error) {
	s.cut = append(s.cut, id)
	return clipboard.Item{ID: id, Action: clipboard.ActionCut}, nil
}

func (s *stubElementService) Paste(_ context.Context, input elements.PasteInput) (*elements.Element, error) {
	s.pasted = append(s.pasted, input)
	return &elements.Element{ID: uuid.New(), PageID: input.PageID}, nil
}

func (s *stubElementService) ClipboardItemsForPage(context.Context, clipboard.Session, uuid.UUID) ([]elements.ClipboardEntry, error) {
	return nil, nil
}

func (s *stubElementService) UpdateContents(_ context.Context, input elements.UpdateContentsInput) (*elements.UpdateResult, error) {
	s.updated = append(s.updated, input)
	if s.updateRes != nil {
		return s.updateRes, nil
	}
	return &elements.UpdateResult{Element: &elements.Element{ID: input.ElementID}}, nil
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestCreateElementHandlerExecutesService(t *testing.T) {
	service := &stubElementService{}
	handler := NewCreateElementHandler(service, commands.CommandLogger(nil, "elements"))

	pageID := uuid.New()
	msg := CreateElementCommand{PageID: pageID, Name: "teaser#news", Tags: []string{"home"}}
	if err := handler.Execute(context.Background(), msg); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(service.created) != 1 {
		t.Fatalf("expected one create request, got %d", len(service.created))
	}
	if got := service.created[0]; got.PageID != pageID || got.Name != "teaser#news" || len(got.Tags) != 1 {
		t.Fatalf("unexpected create input %+v", got)
	}
}

func TestCreateElementHandlerValidationError(t *testing.T) {
	service := &stubElementService{}
	handler := NewCreateElementHandler(service, logging.NoOp())

	err := handler.Execute(context.Background(), CreateElementCommand{Name: "#news"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(service.created) != 0 {
		t.Fatalf("expected no create attempts, got %d", len(service.created))
	}
}

func TestOrderElementsHandlerRequiresIDs(t *testing.T) {
	service := &stubElementService{}
	handler := NewOrderElementsHandler(service, nil)

	err := handler.Execute(context.Background(), OrderElementsCommand{PageID: uuid.New()})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}

	cellID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	if err := handler.Execute(context.Background(), OrderElementsCommand{PageID: uuid.New(), CellID: &cellID, ElementIDs: ids}); err != nil {
		t.Fatalf("order: %v", err)
	}
	if len(service.ordered) != 1 || service.ordered[0].CellID == nil || *service.ordered[0].CellID != cellID {
		t.Fatalf("unexpected order input %+v", service.ordered)
	}
}

func TestTrashElementHandlerWrapsServiceErrors(t *testing.T) {
	service := &stubElementService{trashErr: errors.New("store offline")}
	handler := NewTrashElementHandler(service, nil)

	err := handler.Execute(context.Background(), TrashElementCommand{ElementID: uuid.New()})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestClipboardElementHandlerRoutesAction(t *testing.T) {
	service := &stubElementService{}
	handler := NewClipboardElementHandler(service, nil)
	ctx := context.Background()

	id := uuid.New()
	if err := handler.Execute(ctx, ClipboardElementCommand{Session: "editor-1", ElementID: id, Action: clipboard.ActionCut}); err != nil {
		t.Fatalf("cut: %v", err)
	}
	if err := handler.Execute(ctx, ClipboardElementCommand{Session: "editor-1", ElementID: id, Action: clipboard.ActionCopy}); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if len(service.cut) != 1 || len(service.copied) != 1 {
		t.Fatalf("expected one cut and one copy, got %d/%d", len(service.cut), len(service.copied))
	}

	err := handler.Execute(ctx, ClipboardElementCommand{Session: "editor-1", ElementID: id, Action: "move"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category for unknown action, got %v", err)
	}
}

func TestPasteElementHandlerExecutesService(t *testing.T) {
	service := &stubElementService{}
	handler := NewPasteElementHandler(service, nil)

	pageID := uuid.New()
	source := uuid.NewString() + "#news"
	if err := handler.Execute(context.Background(), PasteElementCommand{Session: "editor-1", PageID: pageID, Source: source}); err != nil {
		t.Fatalf("paste: %v", err)
	}
	if len(service.pasted) != 1 || service.pasted[0].Source != source || service.pasted[0].PageID != pageID {
		t.Fatalf("unexpected paste input %+v", service.pasted)
	}
}

func TestUpdateContentsHandlerReportsPartialFailure(t *testing.T) {
	failed := uuid.New()
	service := &stubElementService{updateRes: &elements.UpdateResult{
		Element: &elements.Element{Name: "headline"},
		Updated: []uuid.UUID{uuid.New()},
		Failed:  []uuid.UUID{failed},
		Errors: map[uuid.UUID]goerrors.ValidationErrors{
			failed: {{Field: "body", Message: "is required"}},
		},
	}}
	handler := NewUpdateContentsHandler(service, nil)

	msg := UpdateContentsCommand{
		ElementID: uuid.New(),
		Contents:  map[uuid.UUID]essences.Params{failed: {"body": ""}},
	}
	err := handler.Execute(context.Background(), msg)
	if domain.Kind(err) != domain.KindEssenceValidationFailed {
		t.Fatalf("expected essence validation failure, got %v", err)
	}
	if len(service.updated) != 1 {
		t.Fatalf("expected the update to reach the service")
	}
}

func TestRegisterElementCommands(t *testing.T) {
	reg := &recordingRegistry{}
	set, err := RegisterElementCommands(reg, &stubElementService{}, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if set.Create == nil || set.UpdateContents == nil || set.Paste == nil {
		t.Fatalf("expected handlers to be built")
	}
	if len(reg.handlers) != 9 {
		t.Fatalf("expected 9 registered handlers, got %d", len(reg.handlers))
	}

	if _, err := RegisterElementCommands(reg, nil, nil); err == nil {
		t.Fatal("expected error for nil service")
	}
}
