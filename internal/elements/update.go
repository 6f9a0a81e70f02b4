package elements

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-cms-elements/internal/contents"
	"github.com/goliatone/go-cms-elements/internal/definitions"
	"github.com/goliatone/go-cms-elements/internal/domain"
	"github.com/goliatone/go-cms-elements/internal/essences"
	"github.com/goliatone/go-cms-elements/internal/localesync"
	"github.com/goliatone/go-cms-elements/internal/logging"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// UpdateContentsInput updates the contents of one element and, when every
// content is valid, its attributes.
type UpdateContentsInput struct {
	ElementID uuid.UUID
	// Contents maps content ids to essence attributes.
	Contents map[uuid.UUID]essences.Params
	// SkipTranslate sets the skip_translate flag of the listed contents.
	SkipTranslate map[uuid.UUID]bool
	Public        *bool
	Tags          []string
}

// UpdateResult reports a partially successful update. Valid contents are
// stored even when others fail.
type UpdateResult struct {
	Element *Element
	Updated []uuid.UUID
	Failed  []uuid.UUID
	Errors  map[uuid.UUID]goerrors.ValidationErrors
	Synced  []localesync.Decision
	Queued  int
}

// OK reports whether every content passed validation.
func (r *UpdateResult) OK() bool {
	return r != nil && len(r.Failed) == 0
}

// Err folds the validation failures into one EssenceValidationFailed error.
func (r *UpdateResult) Err() error {
	if r.OK() {
		return nil
	}
	var issues goerrors.ValidationErrors
	for _, id := range r.Failed {
		for _, issue := range r.Errors[id] {
			issue.Field = id.String() + "." + issue.Field
			issues = append(issues, issue)
		}
	}
	name := ""
	if r.Element != nil {
		name = r.Element.Name
	}
	return domain.EssenceValidationFailed(name, issues)
}

// UpdateContents validates and stores every content in input, propagates
// source-locale picture edits to their siblings and touches the element.
// Validation failures do not abort the update; they are listed in the result.
// Once every content is valid the element text is queued for translation.
func (s *service) UpdateContents(ctx context.Context, input UpdateContentsInput) (*UpdateResult, error) {
	current, err := s.store.Repositories().Elements.GetByID(ctx, input.ElementID)
	if err != nil {
		return nil, err
	}
	page, err := s.pages.GetByID(ctx, current.PageID)
	if err != nil {
		return nil, err
	}
	def, err := s.definitions.Element(current.Name)
	if err != nil {
		return nil, err
	}

	logger := logging.WithElementContext(s.logger, current.ID.String(), page.ID.String(), "update")
	result := &UpdateResult{Errors: map[uuid.UUID]goerrors.ValidationErrors{}}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		record, err := repos.Elements.GetByID(ctx, input.ElementID)
		if err != nil {
			return err
		}
		items, err := repos.Contents.ListByElement(ctx, record.ID)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*contents.Content, len(items))
		prior := make(map[uuid.UUID]time.Time, len(items))
		for _, item := range items {
			byID[item.ID] = item
			prior[item.ID] = item.UpdatedAt
		}
		for id := range input.Contents {
			if _, ok := byID[id]; !ok {
				return fmt.Errorf("%w: %s", ErrContentNotOnElement, id)
			}
		}

		now := s.now()
		flagged := map[uuid.UUID]bool{}
		for id, skip := range input.SkipTranslate {
			item, ok := byID[id]
			if !ok {
				return fmt.Errorf("%w: %s", ErrContentNotOnElement, id)
			}
			if item.SkipTranslate != skip {
				item.SkipTranslate = skip
				flagged[id] = true
			}
		}

		batch, err := contents.UpdateAll(items, input.Contents, rulesFor(def), now)
		if err != nil {
			return err
		}
		for _, item := range batch.Failed {
			result.Failed = append(result.Failed, item.ID)
			result.Errors[item.ID] = item.Errors
		}
		for _, item := range batch.Updated {
			result.Updated = append(result.Updated, item.ID)
			flagged[item.ID] = true
		}
		for _, item := range items {
			if !flagged[item.ID] {
				continue
			}
			if err := repos.Contents.Save(ctx, item); err != nil {
				return err
			}
		}

		touched := map[uuid.UUID]struct{}{}
		if s.syncer != nil {
			for _, item := range batch.Updated {
				if !s.syncer.Applies(page.LanguageCode, item) {
					continue
				}
				decisions, err := s.syncer.Sync(ctx, repos.Contents, localesync.Change{
					Content:        item,
					PriorUpdatedAt: prior[item.ID],
					Params:         input.Contents[item.ID],
					Locale:         page.LanguageCode,
					Now:            now,
				})
				if err != nil {
					return err
				}
				for _, decision := range decisions {
					if decision.Outcome == localesync.OutcomePropagated && decision.ElementID != record.ID {
						touched[decision.ElementID] = struct{}{}
					}
				}
				result.Synced = append(result.Synced, decisions...)
			}
		}
		for elementID := range touched {
			sibling, err := repos.Elements.GetByID(ctx, elementID)
			if err != nil {
				return err
			}
			sibling.UpdatedAt = now
			if err := repos.Elements.Update(ctx, sibling); err != nil {
				return err
			}
		}

		changed := batch.TouchedAt != nil || len(flagged) > 0
		if len(result.Failed) == 0 {
			if input.Public != nil && *input.Public != record.Public {
				record.Public = *input.Public
				changed = true
			}
			if input.Tags != nil {
				record.Tags = normalizeTags(input.Tags)
				changed = true
			}
		}
		if !changed {
			return nil
		}
		record.UpdatedAt = now
		return repos.Elements.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	result.Element, err = s.Get(ctx, input.ElementID)
	if err != nil {
		return nil, err
	}
	if result.OK() {
		result.Queued = s.queueTranslations(ctx, page, result.Element, result.Element.Contents)
	}

	if result.OK() {
		logger.Info("elements.update.completed", "updated", len(result.Updated), "synced", len(result.Synced))
	} else {
		logger.Warn("elements.update.partial", "updated", len(result.Updated), "failed", len(result.Failed))
	}
	return result, nil
}

func rulesFor(def definitions.ElementDefinition) contents.RulesFunc {
	return func(c *contents.Content) essences.Rules {
		contentDef, ok := def.Content(c.Name)
		if !ok {
			return essences.Rules{}
		}
		rules, err := contentDef.Rules()
		if err != nil {
			return essences.Rules{}
		}
		return rules
	}
}
