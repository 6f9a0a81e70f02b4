package contents

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-cms-elements/internal/definitions"
	"github.com/goliatone/go-cms-elements/internal/essences"
	"github.com/goliatone/go-cms-elements/internal/positions"
	"github.com/google/uuid"
)

// Build creates the contents declared by def for elementID, each with a fresh
// essence. Positions are assigned per essence kind in declaration order and
// defaults are applied.
func Build(elementID uuid.UUID, def definitions.ElementDefinition, now time.Time, newID func() uuid.UUID) ([]*Content, error) {
	if newID == nil {
		newID = uuid.New
	}
	counters := map[essences.Kind]int{}
	out := make([]*Content, 0, len(def.Contents))
	for _, contentDef := range def.Contents {
		kind, err := contentDef.Kind()
		if err != nil {
			return nil, fmt.Errorf("contents: %s.%s: %w", def.Name, contentDef.Name, err)
		}
		essence := essences.New(newID(), kind, now)
		if contentDef.Default != nil {
			applied, issues := essence.Apply(essences.Params{essences.ParamIngredient: contentDef.Default}, essences.Rules{}, now)
			if len(issues) > 0 {
				return nil, fmt.Errorf("contents: %s.%s default: %s", def.Name, contentDef.Name, issues.Error())
			}
			essence = applied
		}
		counters[kind]++
		essenceID := essence.ID
		out = append(out, &Content{
			ID:          newID(),
			ElementID:   elementID,
			Name:        contentDef.Name,
			EssenceKind: kind,
			EssenceID:   &essenceID,
			Position:    counters[kind],
			CreatedAt:   now,
			UpdatedAt:   now,
			Essence:     essence,
		})
	}
	return out, nil
}

// Duplicate deep copies items onto elementID with new content and essence ids.
// The copies share no mutable state with the originals.
func Duplicate(items []*Content, elementID uuid.UUID, now time.Time, newID func() uuid.UUID) []*Content {
	if newID == nil {
		newID = uuid.New
	}
	out := make([]*Content, 0, len(items))
	for _, item := range items {
		copied := item.Clone()
		copied.ID = newID()
		copied.ElementID = elementID
		copied.CreatedAt = now
		copied.UpdatedAt = now
		copied.Errors = nil
		if copied.Essence != nil {
			copied.Essence.ID = newID()
			copied.Essence.CreatedAt = now
			copied.Essence.UpdatedAt = now
			essenceID := copied.Essence.ID
			copied.EssenceID = &essenceID
		}
		out = append(out, copied)
	}
	return out
}

// Insert persists items and appends each one to the bottom of its
// (element, kind) scope, in slice order. The stored position replaces the one
// carried by the item.
func Insert(ctx context.Context, repo Repository, items []*Content) error {
	manager := positions.NewManager(repo)
	for _, item := range items {
		if err := repo.Create(ctx, item); err != nil {
			return err
		}
		position, err := manager.InsertAtBottom(ctx, item.ScopeKey(), item.ID)
		if err != nil {
			return fmt.Errorf("contents: position %s: %w", item.Name, err)
		}
		item.Position = position
	}
	return nil
}
