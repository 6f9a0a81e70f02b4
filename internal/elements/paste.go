package elements

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-elements/internal/cells"
	"github.com/goliatone/go-cms-elements/internal/clipboard"
	"github.com/goliatone/go-cms-elements/internal/contents"
	"github.com/goliatone/go-cms-elements/internal/logging"
	"github.com/google/uuid"
)

// PasteInput pastes a clipboard entry onto PageID. Source is
// "<element id>[#<cell name>]"; the qualifier is honoured when the page
// layout supports cells.
type PasteInput struct {
	Session clipboard.Session
	PageID  uuid.UUID
	Source  string
}

// ClipboardEntry is a clipboard item resolved to its element.
type ClipboardEntry struct {
	Element *Element
	Action  clipboard.Action
}

// ParseSource splits a paste source into the element id and cell name.
func ParseSource(raw string) (uuid.UUID, string, error) {
	idPart, cellName := cells.ParseQualifiedName(raw)
	id, err := uuid.Parse(strings.TrimSpace(idPart))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, "", fmt.Errorf("%w: %q", ErrInvalidSource, raw)
	}
	return id, cellName, nil
}

func (s *service) Copy(ctx context.Context, session clipboard.Session, id uuid.UUID) (clipboard.Item, error) {
	return s.remember(ctx, session, id, clipboard.ActionCopy)
}

func (s *service) Cut(ctx context.Context, session clipboard.Session, id uuid.UUID) (clipboard.Item, error) {
	return s.remember(ctx, session, id, clipboard.ActionCut)
}

func (s *service) remember(ctx context.Context, session clipboard.Session, id uuid.UUID, action clipboard.Action) (clipboard.Item, error) {
	record, err := s.store.Repositories().Elements.GetByID(ctx, id)
	if err != nil {
		return clipboard.Item{}, err
	}
	item := clipboard.Item{ID: record.ID, Action: action}
	if err := s.clipboard.Add(ctx, session, clipboard.KindElements, item); err != nil {
		return clipboard.Item{}, err
	}
	logging.WithElementContext(s.logger, id.String(), record.PageID.String(), string(action)).
		Debug("elements.clipboard.added")
	return item, nil
}

// Paste deep copies the referenced element onto the destination page. A cut
// entry also destroys its source. Copy, placement and destruction share one
// unit of work; the clipboard entry of a cut is dropped after it commits.
func (s *service) Paste(ctx context.Context, input PasteInput) (*Element, error) {
	sourceID, cellName, err := ParseSource(input.Source)
	if err != nil {
		return nil, err
	}
	item, err := s.clipboard.Find(ctx, input.Session, clipboard.KindElements, sourceID)
	if err != nil {
		return nil, err
	}
	page, layout, err := s.pageLayout(ctx, input.PageID)
	if err != nil {
		return nil, err
	}
	if !layout.CanHaveCells() {
		cellName = ""
	}

	now := s.now()
	copyID := s.id()
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		source, err := repos.Elements.GetByID(ctx, sourceID)
		if err != nil {
			return err
		}
		sourceContents, err := repos.Contents.ListByElement(ctx, source.ID)
		if err != nil {
			return err
		}

		pasted := source.Clone()
		pasted.ID = copyID
		pasted.PageID = page.ID
		pasted.CellID = nil
		pasted.TrashedAt = nil
		pasted.Position = 0
		pasted.Contents = nil
		pasted.CreatedAt = now
		pasted.UpdatedAt = now
		if cellName != "" {
			cell, err := s.resolver.Resolve(ctx, repos.Cells, page.ID, cellName)
			if err != nil {
				return err
			}
			cellID := cell.ID
			pasted.CellID = &cellID
		}
		if err := repos.Elements.Create(ctx, pasted); err != nil {
			return err
		}
		if err := contents.Insert(ctx, repos.Contents, contents.Duplicate(sourceContents, pasted.ID, now, s.id)); err != nil {
			return err
		}

		if item.Action == clipboard.ActionCut {
			if err := destroy(ctx, repos, source); err != nil {
				return err
			}
		}
		return s.insert(ctx, repos.Elements, layout, pasted)
	})
	if err != nil {
		return nil, err
	}

	logger := logging.WithElementContext(s.logger, copyID.String(), page.ID.String(), "paste")
	if item.Action == clipboard.ActionCut {
		if err := s.clipboard.Remove(ctx, input.Session, clipboard.KindElements, sourceID); err != nil {
			logger.Warn("elements.clipboard.remove_failed", "source_id", sourceID.String(), "error", err)
		}
	}
	pasted, err := s.Get(ctx, copyID)
	if err != nil {
		return nil, err
	}
	logger.Info("elements.paste.completed",
		"source_id", sourceID.String(),
		"clipboard_action", string(item.Action),
		"position", pasted.Position,
	)
	return pasted, nil
}

// ClipboardItemsForPage lists the clipboard entries whose element may be
// placed on the page. Entries pointing at deleted elements are skipped.
func (s *service) ClipboardItemsForPage(ctx context.Context, session clipboard.Session, pageID uuid.UUID) ([]ClipboardEntry, error) {
	items, err := s.clipboard.Items(ctx, session, clipboard.KindElements)
	if err != nil {
		return nil, err
	}
	_, layout, err := s.pageLayout(ctx, pageID)
	if err != nil {
		return nil, err
	}
	repo := s.store.Repositories().Elements
	out := make([]ClipboardEntry, 0, len(items))
	for _, item := range items {
		record, err := repo.GetByID(ctx, item.ID)
		if err != nil {
			continue
		}
		if !layout.AllowsElement(record.Name) {
			continue
		}
		out = append(out, ClipboardEntry{Element: record, Action: item.Action})
	}
	return out, nil
}
