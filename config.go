package cms

import "github.com/goliatone/go-cms-elements/internal/runtimeconfig"

var (
	ErrDefaultLocaleRequired         = runtimeconfig.ErrDefaultLocaleRequired
	ErrStorageProviderUnknown        = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDialectUnknown         = runtimeconfig.ErrStorageDialectUnknown
	ErrStorageDSNRequired            = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid               = runtimeconfig.ErrCacheTTLInvalid
	ErrLocaleSyncThresholdInvalid    = runtimeconfig.ErrLocaleSyncThresholdInvalid
	ErrTranslationKeyStrategyUnknown = runtimeconfig.ErrTranslationKeyStrategyUnknown
	ErrLoggingProviderRequired       = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown        = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid           = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid          = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config             = runtimeconfig.Config
	StorageConfig      = runtimeconfig.StorageConfig
	CacheConfig        = runtimeconfig.CacheConfig
	DefinitionsConfig  = runtimeconfig.DefinitionsConfig
	LocaleSyncConfig   = runtimeconfig.LocaleSyncConfig
	TranslationsConfig = runtimeconfig.TranslationsConfig
	Features           = runtimeconfig.Features
	LoggingConfig      = runtimeconfig.LoggingConfig
)

const (
	StorageMemory   = runtimeconfig.StorageMemory
	StorageBun      = runtimeconfig.StorageBun
	DialectSQLite   = runtimeconfig.DialectSQLite
	DialectPostgres = runtimeconfig.DialectPostgres
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
