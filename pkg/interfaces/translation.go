package interfaces

import "context"

// MissingTranslation is one source-locale text submitted for translation.
type MissingTranslation struct {
	Locale      string `json:"locale"`
	Key         string `json:"key"`
	Description string `json:"description"`
}

// TranslationQueue collects missing translations and delivers them to a
// translation-memory service. Delivery transport belongs to the host.
type TranslationQueue interface {
	Add(ctx context.Context, entry MissingTranslation) error
	Flush(ctx context.Context) error
}
