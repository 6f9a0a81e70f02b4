package elements

import (
	"context"

	"github.com/goliatone/go-cms-elements/internal/logging"
	"github.com/goliatone/go-cms-elements/internal/positions"
	"github.com/google/uuid"
)

// OrderInput is a reorder request. ElementIDs receive positions 1..n in the
// given order inside (PageID, CellID), whatever container they had before.
type OrderInput struct {
	ElementIDs []uuid.UUID
	PageID     uuid.UUID
	CellID     *uuid.UUID
}

// RestoreInput moves a trashed element back to the bottom of (PageID, CellID).
// PageID defaults to the page the element was trashed from.
type RestoreInput struct {
	ElementID uuid.UUID
	PageID    uuid.UUID
	CellID    *uuid.UUID
}

// Order assigns positions to input.ElementIDs. Unknown ids are skipped. Scopes
// the ids were taken from are compacted. It returns the ids that were placed.
func (s *service) Order(ctx context.Context, input OrderInput) ([]uuid.UUID, error) {
	if input.PageID == uuid.Nil {
		return nil, ErrPageRequired
	}
	target := ScopeKey(input.PageID, input.CellID)
	var placed []uuid.UUID
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		previous := map[positions.Key]struct{}{}
		for _, id := range input.ElementIDs {
			record, err := repos.Elements.GetByID(ctx, id)
			if err != nil {
				continue
			}
			if key := record.ScopeKey(); key != target {
				previous[key] = struct{}{}
			}
		}

		manager := positions.NewManager(repos.Elements)
		var err error
		placed, err = manager.Reorder(ctx, target, input.ElementIDs)
		if err != nil {
			return err
		}
		for key := range previous {
			if err := manager.Normalize(ctx, key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logging.WithElementContext(s.logger, "", input.PageID.String(), "order").
		Info("elements.order.completed", "scope", target.String(), "placed", len(placed))
	return placed, nil
}

// Fold toggles the folded flag. Position and trash state are untouched.
func (s *service) Fold(ctx context.Context, id uuid.UUID) (*Element, error) {
	var record *Element
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		record, err = repos.Elements.GetByID(ctx, id)
		if err != nil {
			return err
		}
		record.Folded = !record.Folded
		record.UpdatedAt = s.now()
		return repos.Elements.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	logging.WithElementContext(s.logger, id.String(), record.PageID.String(), "fold").
		Debug("elements.fold.completed", "folded", record.Folded)
	return s.Get(ctx, id)
}

// Trash takes the element out of its scope, compacts the survivors and
// appends it to the trash bucket. Trashed elements are hidden and folded.
func (s *service) Trash(ctx context.Context, id uuid.UUID) (*Element, error) {
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		record, err := repos.Elements.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if record.Trashed() {
			return nil
		}
		from := record.ScopeKey()
		now := s.now()
		record.TrashedAt = &now
		record.Public = false
		record.Folded = true
		record.UpdatedAt = now
		if err := repos.Elements.Update(ctx, record); err != nil {
			return err
		}
		manager := positions.NewManager(repos.Elements)
		if err := manager.Remove(ctx, from, id); err != nil {
			return err
		}
		_, err = manager.InsertAtBottom(ctx, TrashKey(), id)
		return err
	})
	if err != nil {
		return nil, err
	}
	trashed, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	logging.WithElementContext(s.logger, id.String(), trashed.PageID.String(), "trash").
		Info("elements.trash.completed", "position", trashed.Position)
	return trashed, nil
}

// Restore re-enters a trashed element at the bottom of the target scope.
func (s *service) Restore(ctx context.Context, input RestoreInput) (*Element, error) {
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		record, err := repos.Elements.GetByID(ctx, input.ElementID)
		if err != nil {
			return err
		}
		if !record.Trashed() {
			return ErrNotTrashed
		}
		pageID := input.PageID
		if pageID == uuid.Nil {
			pageID = record.PageID
		}
		manager := positions.NewManager(repos.Elements)
		if _, err := manager.Move(ctx, TrashKey(), ScopeKey(pageID, input.CellID), record.ID, false); err != nil {
			return err
		}
		restored, err := repos.Elements.GetByID(ctx, record.ID)
		if err != nil {
			return err
		}
		restored.UpdatedAt = s.now()
		return repos.Elements.Update(ctx, restored)
	})
	if err != nil {
		return nil, err
	}
	restored, err := s.Get(ctx, input.ElementID)
	if err != nil {
		return nil, err
	}
	logging.WithElementContext(s.logger, restored.ID.String(), restored.PageID.String(), "restore").
		Info("elements.restore.completed", "position", restored.Position)
	return restored, nil
}

// Delete destroys the element with its contents and essences and compacts
// the scope it leaves.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	var pageID uuid.UUID
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		record, err := repos.Elements.GetByID(ctx, id)
		if err != nil {
			return err
		}
		pageID = record.PageID
		return destroy(ctx, repos, record)
	})
	if err != nil {
		return err
	}
	logging.WithElementContext(s.logger, id.String(), pageID.String(), "delete").
		Info("elements.delete.completed")
	return nil
}

func destroy(ctx context.Context, repos Repositories, record *Element) error {
	from := record.ScopeKey()
	if err := repos.Contents.DeleteByElement(ctx, record.ID); err != nil {
		return err
	}
	if err := repos.Elements.Delete(ctx, record.ID); err != nil {
		return err
	}
	return positions.NewManager(repos.Elements).Remove(ctx, from, record.ID)
}
