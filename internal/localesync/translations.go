package localesync

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-elements/internal/contents"
	"github.com/goliatone/go-cms-elements/internal/logging"
	"github.com/goliatone/go-cms-elements/pkg/interfaces"
	"github.com/goliatone/go-slug"
)

// KeyStrategy selects how translation keys are built.
type KeyStrategy string

const (
	// KeyByPosition yields "<prefix>.<content>_pos_<element position>".
	KeyByPosition KeyStrategy = "position"
	// KeyByPage yields "<prefix>.<page slug>_<content>_pos_<element position>".
	KeyByPage KeyStrategy = "page"
)

const DefaultKeyPrefix = "cms_content"

// Source describes the element whose contents were edited.
type Source struct {
	PageName        string
	Locale          string
	ElementPosition int
}

// Translator queues source-locale text edits for external translation.
type Translator struct {
	queue        interfaces.TranslationQueue
	sourceLocale string
	prefix       string
	strategy     KeyStrategy
	logger       interfaces.Logger
}

// TranslatorOption configures the translator.
type TranslatorOption func(*Translator)

func WithKeyPrefix(prefix string) TranslatorOption {
	return func(t *Translator) {
		t.prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	}
}

func WithKeyStrategy(strategy KeyStrategy) TranslatorOption {
	return func(t *Translator) {
		if strategy != "" {
			t.strategy = strategy
		}
	}
}

func WithTranslatorLogger(logger interfaces.Logger) TranslatorOption {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func NewTranslator(queue interfaces.TranslationQueue, sourceLocale string, opts ...TranslatorOption) *Translator {
	t := &Translator{
		queue:        queue,
		sourceLocale: normalizeLocale(sourceLocale),
		prefix:       DefaultKeyPrefix,
		strategy:     KeyByPosition,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Key builds the translation key for a content of source.
func (t *Translator) Key(source Source, contentName string) (string, error) {
	key := fmt.Sprintf("%s_pos_%d", contentName, source.ElementPosition)
	if t.strategy == KeyByPage {
		pageSlug, err := slug.Normalize(source.PageName)
		if err != nil {
			return "", fmt.Errorf("localesync: page slug: %w", err)
		}
		key = pageSlug + "_" + key
	}
	if t.prefix == "" {
		return key, nil
	}
	return t.prefix + "." + key, nil
}

// Enqueue adds every translatable content not flagged skip_translate. Edits
// outside the source locale are ignored. It returns the number of entries added.
func (t *Translator) Enqueue(ctx context.Context, source Source, items []*contents.Content) (int, error) {
	if t == nil || t.queue == nil || t.sourceLocale == "" || normalizeLocale(source.Locale) != t.sourceLocale {
		return 0, nil
	}
	added := 0
	for _, item := range items {
		if item == nil || item.SkipTranslate || !item.EssenceKind.Translatable() || item.Essence == nil {
			continue
		}
		key, err := t.Key(source, item.Name)
		if err != nil {
			return added, err
		}
		entry := interfaces.MissingTranslation{
			Locale:      t.sourceLocale,
			Key:         key,
			Description: item.Essence.Body,
		}
		if err := t.queue.Add(ctx, entry); err != nil {
			return added, err
		}
		t.logger.Debug("localesync.translation.queued", "locale", entry.Locale, "key", entry.Key)
		added++
	}
	return added, nil
}

// Flush delivers queued entries. Failures are logged and never returned so a
// committed content update is not affected.
func (t *Translator) Flush(ctx context.Context) {
	if t == nil || t.queue == nil {
		return
	}
	if err := t.queue.Flush(ctx); err != nil {
		t.logger.Error("localesync.translation.flush_failed", "error", err)
		return
	}
	t.logger.Info("localesync.translation.flushed")
}
