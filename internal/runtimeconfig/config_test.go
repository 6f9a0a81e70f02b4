package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-cms-elements/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RejectsUnknownStorageProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "mongo"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_StorageDialects(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = runtimeconfig.StorageBun
	cfg.Storage.Dialect = "sqlite3"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected sqlite3 alias to validate, got %v", err)
	}

	cfg.Storage.Dialect = "pgx"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}

	cfg.Storage.Dialect = "oracle"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDialectUnknown) {
		t.Fatalf("expected ErrStorageDialectUnknown, got %v", err)
	}
}

func TestConfigValidate_RequiresCacheTTL(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.DefaultTTL = 0

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCacheTTLInvalid) {
		t.Fatalf("expected ErrCacheTTLInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsNegativeThreshold(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.LocaleSync.Threshold = -time.Second

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLocaleSyncThresholdInvalid) {
		t.Fatalf("expected ErrLocaleSyncThresholdInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownKeyStrategy(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Translations.KeyStrategy = "hash"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrTranslationKeyStrategyUnknown) {
		t.Fatalf("expected ErrTranslationKeyStrategyUnknown, got %v", err)
	}
}

func TestConfigValidate_Logging(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}

	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}

	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}

	cfg.Logging.Format = "json"
	cfg.Logging.Level = "loud"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestSourceLocalesFallBackToDefault(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.DefaultLocale = "DE"
	cfg.Translations.SourceLocale = "en"

	if got := cfg.SyncSourceLocale(); got != "de" {
		t.Fatalf("expected de, got %q", got)
	}
	if got := cfg.TranslationSourceLocale(); got != "en" {
		t.Fatalf("expected en, got %q", got)
	}
}
