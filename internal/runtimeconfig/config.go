package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrDefaultLocaleRequired         = errors.New("cms config: default locale is required")
	ErrStorageProviderUnknown        = errors.New("cms config: storage provider is invalid")
	ErrStorageDialectUnknown         = errors.New("cms config: storage dialect is invalid")
	ErrStorageDSNRequired            = errors.New("cms config: storage dsn is required for the postgres dialect")
	ErrCacheTTLInvalid               = errors.New("cms config: cache ttl must be positive when cache is enabled")
	ErrLocaleSyncThresholdInvalid    = errors.New("cms config: locale sync threshold must be zero or positive")
	ErrTranslationKeyStrategyUnknown = errors.New("cms config: translation key strategy is invalid")
	ErrLoggingProviderRequired       = errors.New("cms config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown        = errors.New("cms config: logging provider is invalid")
	ErrLoggingLevelInvalid           = errors.New("cms config: logging level is invalid")
	ErrLoggingFormatInvalid          = errors.New("cms config: logging format is invalid")
)

const (
	StorageMemory = "memory"
	StorageBun    = "bun"

	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Config aggregates feature flags and adapter bindings for the elements module.
type Config struct {
	DefaultLocale string
	Storage       StorageConfig
	Cache         CacheConfig
	Definitions   DefinitionsConfig
	LocaleSync    LocaleSyncConfig
	Translations  TranslationsConfig
	Features      Features
	Logging       LoggingConfig
}

// StorageConfig selects the persistence backend. DSN is ignored by the memory
// provider; an empty sqlite DSN opens a shared in-memory database.
type StorageConfig struct {
	Provider    string
	Dialect     string
	DSN         string
	AutoMigrate bool
}

// CacheConfig captures cache behaviour toggles for page lookups.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// DefinitionsConfig points at the element, cell and layout definitions
// document. An empty path loads the embedded defaults.
type DefinitionsConfig struct {
	Path string
}

// LocaleSyncConfig controls picture propagation across locales.
type LocaleSyncConfig struct {
	Enabled      bool
	SourceLocale string
	Threshold    time.Duration
}

// TranslationsConfig controls missing-translation queueing.
type TranslationsConfig struct {
	Enabled      bool
	SourceLocale string
	KeyPrefix    string
	KeyStrategy  string
}

// Features toggles module functionality.
type Features struct {
	Commands bool
	Logger   bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns in-memory defaults with locale sync and translation
// queueing keyed on the default locale.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en",
		Storage: StorageConfig{
			Provider:    StorageMemory,
			Dialect:     DialectSQLite,
			AutoMigrate: true,
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		LocaleSync: LocaleSyncConfig{
			Enabled:   true,
			Threshold: 45 * time.Second,
		},
		Translations: TranslationsConfig{
			Enabled:     true,
			KeyPrefix:   "cms_content",
			KeyStrategy: "position",
		},
		Logging: LoggingConfig{
			Provider: "noop",
			Level:    "info",
		},
	}
}

// SyncSourceLocale is the locale whose picture edits propagate to siblings.
func (cfg Config) SyncSourceLocale() string {
	return firstLocale(cfg.LocaleSync.SourceLocale, cfg.DefaultLocale)
}

// TranslationSourceLocale is the locale whose text is queued for translation.
func (cfg Config) TranslationSourceLocale() string {
	return firstLocale(cfg.Translations.SourceLocale, cfg.DefaultLocale)
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DefaultLocale) == "" {
		return ErrDefaultLocaleRequired
	}

	provider := normalize(cfg.Storage.Provider)
	if err := validation.Validate(provider, validation.Required, validation.In(StorageMemory, StorageBun)); err != nil {
		return fmt.Errorf("%w: %q", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if provider == StorageBun {
		dialect := NormalizeDialect(cfg.Storage.Dialect)
		if err := validation.Validate(dialect, validation.In(DialectSQLite, DialectPostgres)); err != nil {
			return fmt.Errorf("%w: %q", ErrStorageDialectUnknown, cfg.Storage.Dialect)
		}
		if dialect == DialectPostgres && strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	}

	if cfg.Cache.Enabled && cfg.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.LocaleSync.Threshold < 0 {
		return ErrLocaleSyncThresholdInvalid
	}
	if strategy := normalize(cfg.Translations.KeyStrategy); strategy != "" {
		if err := validation.Validate(strategy, validation.In("position", "page")); err != nil {
			return fmt.Errorf("%w: %s", ErrTranslationKeyStrategyUnknown, cfg.Translations.KeyStrategy)
		}
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if err := validation.Validate(provider, validation.In("noop", "gologger")); err != nil {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := normalize(cfg.Logging.Level); level != "" {
			if err := validation.Validate(level, validation.In("trace", "debug", "info", "warn", "warning", "error", "fatal")); err != nil {
				return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
			}
		}
		if provider == "gologger" {
			if format := normalize(cfg.Logging.Format); format != "" {
				if err := validation.Validate(format, validation.In("json", "console", "pretty")); err != nil {
					return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
				}
			}
		}
	}
	return nil
}

// NormalizeDialect maps driver aliases onto DialectSQLite or DialectPostgres.
func NormalizeDialect(dialect string) string {
	switch normalize(dialect) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite
	case "postgres", "postgresql", "pg", "pgx":
		return DialectPostgres
	default:
		return normalize(dialect)
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func firstLocale(values ...string) string {
	for _, value := range values {
		if trimmed := normalize(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
