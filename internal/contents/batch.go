package contents

import (
	"time"

	"github.com/goliatone/go-cms-elements/internal/essences"
	"github.com/google/uuid"
)

// RulesFunc returns the validation rules that apply to c.
type RulesFunc func(c *Content) essences.Rules

// BatchResult reports the outcome of UpdateAll.
type BatchResult struct {
	Updated []*Content
	Failed  []*Content
	// TouchedAt is set when at least one content changed; the owning element
	// must take it as its new updated_at.
	TouchedAt *time.Time
}

// OK reports whether every attempted content was updated.
func (r BatchResult) OK() bool {
	return len(r.Failed) == 0
}

// FailedIDs lists the ids of contents that failed validation.
func (r BatchResult) FailedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Failed))
	for _, c := range r.Failed {
		ids = append(ids, c.ID)
	}
	return ids
}

// UpdateAll attempts every content that has params before deciding the
// overall outcome. Validation failures are collected; a missing essence aborts
// the batch.
func UpdateAll(items []*Content, params map[uuid.UUID]essences.Params, rules RulesFunc, now time.Time) (BatchResult, error) {
	var result BatchResult
	for _, c := range items {
		update, ok := params[c.ID]
		if !ok {
			continue
		}
		var contentRules essences.Rules
		if rules != nil {
			contentRules = rules(c)
		}
		updated, err := UpdateEssence(c, update, contentRules, now)
		if err != nil {
			return result, err
		}
		if !updated {
			result.Failed = append(result.Failed, c)
			continue
		}
		result.Updated = append(result.Updated, c)
	}
	if len(result.Updated) > 0 {
		touched := now
		result.TouchedAt = &touched
	}
	return result, nil
}
