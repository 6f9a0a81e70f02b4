package localesync

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-cms-elements/internal/contents"
	"github.com/goliatone/go-cms-elements/internal/essences"
	"github.com/goliatone/go-cms-elements/internal/logging"
	"github.com/goliatone/go-cms-elements/pkg/interfaces"
	"github.com/google/uuid"
)

// DefaultThreshold is the edit distance under which a sibling picture counts
// as auto-propagated rather than curated. It is a heuristic: two edits in
// different locales close together in time can be classified either way.
const DefaultThreshold = 45 * time.Second

// Outcome describes what happened to one sibling.
type Outcome string

const (
	OutcomePropagated Outcome = "propagated"
	OutcomeKept       Outcome = "kept"
)

// Decision is the per-sibling result of a sync run.
type Decision struct {
	ContentID uuid.UUID
	ElementID uuid.UUID
	Outcome   Outcome
}

// Change describes a picture content that was just updated.
type Change struct {
	// Content carries the updated essence.
	Content *contents.Content
	// PriorUpdatedAt is the content updated_at before this edit.
	PriorUpdatedAt time.Time
	// Params are the essence attributes that were applied.
	Params essences.Params
	// Locale is the language code of the page the content belongs to.
	Locale string
	Now    time.Time
}

// Synchronizer propagates picture edits made in the source locale to the
// same-named picture contents of other locales.
type Synchronizer struct {
	sourceLocale string
	threshold    time.Duration
	logger       interfaces.Logger
}

// Option configures the synchronizer.
type Option func(*Synchronizer)

// WithThreshold overrides DefaultThreshold.
func WithThreshold(threshold time.Duration) Option {
	return func(s *Synchronizer) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// WithLogger sets the logger used to report decisions.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Synchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewSynchronizer(sourceLocale string, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		sourceLocale: normalizeLocale(sourceLocale),
		threshold:    DefaultThreshold,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Threshold returns the configured threshold.
func (s *Synchronizer) Threshold() time.Duration {
	return s.threshold
}

// Applies reports whether an edit of c on a page in locale triggers a sync.
func (s *Synchronizer) Applies(locale string, c *contents.Content) bool {
	if s == nil || c == nil || s.sourceLocale == "" {
		return false
	}
	return c.EssenceKind == essences.KindPicture && normalizeLocale(locale) == s.sourceLocale
}

// Sync overwrites every sibling whose picture is unset or whose last update is
// within the threshold of the source's prior update. Other siblings are kept
// as human overrides.
func (s *Synchronizer) Sync(ctx context.Context, repo contents.Repository, change Change) ([]Decision, error) {
	if !s.Applies(change.Locale, change.Content) || change.Content.Essence == nil {
		return nil, nil
	}
	source := change.Content
	siblings, err := repo.ListByName(ctx, source.Name, essences.KindPicture)
	if err != nil {
		return nil, err
	}

	decisions := make([]Decision, 0, len(siblings))
	for _, sibling := range siblings {
		if sibling.ID == source.ID || sibling.Essence == nil || sibling.Essence.ID == source.Essence.ID {
			continue
		}
		decision := Decision{ContentID: sibling.ID, ElementID: sibling.ElementID, Outcome: OutcomeKept}
		if s.shouldPropagate(change.PriorUpdatedAt, sibling) {
			updated, issues := sibling.Essence.Apply(change.Params, essences.Rules{}, change.Now)
			if len(issues) > 0 {
				s.logger.Warn("localesync.sibling.invalid", "content_id", sibling.ID.String(), "error", issues.Error())
				decisions = append(decisions, decision)
				continue
			}
			sibling.Essence = updated
			sibling.UpdatedAt = change.Now
			if err := repo.Save(ctx, sibling); err != nil {
				return decisions, err
			}
			decision.Outcome = OutcomePropagated
		}
		s.logger.Debug("localesync.sibling."+string(decision.Outcome),
			"content", source.Name,
			"source_content_id", source.ID.String(),
			"content_id", sibling.ID.String(),
		)
		decisions = append(decisions, decision)
	}
	return decisions, nil
}

func (s *Synchronizer) shouldPropagate(prior time.Time, sibling *contents.Content) bool {
	if !sibling.Essence.HasPicture() {
		return true
	}
	diff := prior.Sub(sibling.UpdatedAt)
	if diff < 0 {
		diff = -diff
	}
	return diff < s.threshold
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.TrimSpace(locale))
}
