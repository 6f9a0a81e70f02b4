package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-elements/internal/cells"
	"github.com/goliatone/go-cms-elements/internal/clipboard"
	elementscmd "github.com/goliatone/go-cms-elements/internal/commands/elements"
	"github.com/goliatone/go-cms-elements/internal/definitions"
	"github.com/goliatone/go-cms-elements/internal/elements"
	"github.com/goliatone/go-cms-elements/internal/localesync"
	"github.com/goliatone/go-cms-elements/internal/logging"
	"github.com/goliatone/go-cms-elements/internal/logging/gologger"
	"github.com/goliatone/go-cms-elements/internal/migrations"
	"github.com/goliatone/go-cms-elements/internal/pages"
	"github.com/goliatone/go-cms-elements/internal/runtimeconfig"
	"github.com/goliatone/go-cms-elements/pkg/interfaces"
	"github.com/goliatone/go-command/dispatcher"
	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const defaultSQLiteDSN = "file:cms_elements?mode=memory&cache=shared"

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// Container wires module dependencies from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	definitions *definitions.Registry
	pageRepo    pages.Repository
	store       elements.Store
	clipboard   clipboard.Store
	queue       interfaces.TranslationQueue

	syncer     *localesync.Synchronizer
	translator *localesync.Translator
	elementSvc elements.Service

	registry      elementscmd.CommandRegistry
	handlers      *elementscmd.HandlerSet
	subscriptions []CommandSubscription
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB binds an already opened database instead of opening one from
// Config.Storage. The caller keeps ownership of db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default page cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithDefinitions overrides the definitions loaded from Config.Definitions.
func WithDefinitions(registry *definitions.Registry) Option {
	return func(c *Container) {
		c.definitions = registry
	}
}

// WithPageRepository binds a host-owned page repository.
func WithPageRepository(repo pages.Repository) Option {
	return func(c *Container) {
		c.pageRepo = repo
	}
}

// WithClipboard overrides the in-process clipboard store.
func WithClipboard(store clipboard.Store) Option {
	return func(c *Container) {
		c.clipboard = store
	}
}

// WithTranslationQueue overrides the in-process translation queue.
func WithTranslationQueue(queue interfaces.TranslationQueue) Option {
	return func(c *Container) {
		c.queue = queue
	}
}

// WithCommandRegistry registers the element command handlers with registry
// when Features.Commands is enabled.
func WithCommandRegistry(registry elementscmd.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// WithElementService overrides the default element service binding.
func WithElementService(svc elements.Service) Option {
	return func(c *Container) {
		c.elementSvc = svc
	}
}

// NewContainer validates cfg and wires storage, definitions, locale sync and
// the element service.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureDefinitions(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(ctx); err != nil {
		return nil, err
	}
	c.configureLocaleSync()

	if c.clipboard == nil {
		c.clipboard = clipboard.NewMemoryStore()
	}

	if c.elementSvc == nil {
		serviceOpts := []elements.ServiceOption{
			elements.WithLogger(logging.ElementsLogger(c.loggerProvider)),
			elements.WithClipboard(c.clipboard),
			elements.WithCellResolver(cells.NewResolver(c.definitions, cells.WithLogger(logging.CellsLogger(c.loggerProvider)))),
		}
		if c.syncer != nil {
			serviceOpts = append(serviceOpts, elements.WithLocaleSync(c.syncer))
		}
		if c.translator != nil {
			serviceOpts = append(serviceOpts, elements.WithTranslator(c.translator))
		}
		c.elementSvc = elements.NewService(c.store, c.pageRepo, c.definitions, serviceOpts...)
	}

	if cfg.Features.Commands {
		if err := c.configureCommands(); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	if strings.EqualFold(strings.TrimSpace(c.Config.Logging.Provider), "gologger") {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}
	return nil
}

func (c *Container) configureDefinitions() error {
	if c.definitions != nil {
		return nil
	}
	var (
		registry *definitions.Registry
		err      error
	)
	if path := strings.TrimSpace(c.Config.Definitions.Path); path != "" {
		registry, err = definitions.LoadFile(path)
	} else {
		registry, err = definitions.Default()
	}
	if err != nil {
		return err
	}
	c.definitions = registry
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	if strings.EqualFold(strings.TrimSpace(c.Config.Storage.Provider), runtimeconfig.StorageMemory) && c.bunDB == nil {
		c.store = elements.NewMemoryStore()
		if c.pageRepo == nil {
			c.pageRepo = pages.NewMemoryPageRepository()
		}
		return nil
	}

	dialect := runtimeconfig.NormalizeDialect(c.Config.Storage.Dialect)
	if c.bunDB == nil {
		db, err := openDB(dialect, c.Config.Storage.DSN)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.Config.Storage.AutoMigrate {
		if err := migrations.Apply(ctx, c.bunDB, dialect); err != nil {
			_ = c.Close()
			return err
		}
	}

	c.configureCache()
	c.store = elements.NewBunStore(c.bunDB)
	if c.pageRepo == nil {
		c.pageRepo = pages.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	}
	return nil
}

func (c *Container) configureCache() {
	if !c.Config.Cache.Enabled {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}
	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureLocaleSync() {
	logger := logging.LocaleSyncLogger(c.loggerProvider)
	if c.Config.LocaleSync.Enabled {
		opts := []localesync.Option{localesync.WithLogger(logger)}
		if threshold := c.Config.LocaleSync.Threshold; threshold > 0 {
			opts = append(opts, localesync.WithThreshold(threshold))
		}
		c.syncer = localesync.NewSynchronizer(c.Config.SyncSourceLocale(), opts...)
	}
	if c.Config.Translations.Enabled {
		if c.queue == nil {
			c.queue = localesync.NewMemoryQueue(nil)
		}
		opts := []localesync.TranslatorOption{localesync.WithTranslatorLogger(logger)}
		if prefix := strings.TrimSpace(c.Config.Translations.KeyPrefix); prefix != "" {
			opts = append(opts, localesync.WithKeyPrefix(prefix))
		}
		if strategy := strings.TrimSpace(c.Config.Translations.KeyStrategy); strategy != "" {
			opts = append(opts, localesync.WithKeyStrategy(localesync.KeyStrategy(strings.ToLower(strategy))))
		}
		c.translator = localesync.NewTranslator(c.queue, c.Config.TranslationSourceLocale(), opts...)
	}
}

func (c *Container) configureCommands() error {
	set, err := elementscmd.RegisterElementCommands(c.registry, c.elementSvc, c.loggerProvider)
	if err != nil {
		return err
	}
	c.handlers = set
	c.subscriptions = append(c.subscriptions,
		dispatcher.SubscribeCommand(set.Create),
		dispatcher.SubscribeCommand(set.Order),
		dispatcher.SubscribeCommand(set.Fold),
		dispatcher.SubscribeCommand(set.Trash),
		dispatcher.SubscribeCommand(set.Restore),
		dispatcher.SubscribeCommand(set.Delete),
		dispatcher.SubscribeCommand(set.Clipboard),
		dispatcher.SubscribeCommand(set.Paste),
		dispatcher.SubscribeCommand(set.UpdateContents),
	)
	return nil
}

func openDB(dialect, dsn string) (*bun.DB, error) {
	switch dialect {
	case runtimeconfig.DialectPostgres:
		sqlDB, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("di: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	case runtimeconfig.DialectSQLite:
		if strings.TrimSpace(dsn) == "" {
			dsn = defaultSQLiteDSN
		}
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("di: open sqlite: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("%w: %q", runtimeconfig.ErrStorageDialectUnknown, dialect)
	}
}

// Close releases dispatcher subscriptions and the database opened by the
// container.
func (c *Container) Close() error {
	for _, sub := range c.subscriptions {
		sub.Unsubscribe()
	}
	c.subscriptions = nil
	if c.ownsDB && c.bunDB != nil {
		err := c.bunDB.Close()
		c.bunDB = nil
		if err != nil && !errors.Is(err, sql.ErrConnDone) {
			return err
		}
	}
	return nil
}

// ElementService returns the configured element service.
func (c *Container) ElementService() elements.Service {
	return c.elementSvc
}

// PageRepository exposes the configured page repository.
func (c *Container) PageRepository() pages.Repository {
	return c.pageRepo
}

// Definitions exposes the loaded definitions registry.
func (c *Container) Definitions() *definitions.Registry {
	return c.definitions
}

// TranslationQueue exposes the queue translations are flushed to, or nil
// when translations are disabled.
func (c *Container) TranslationQueue() interfaces.TranslationQueue {
	return c.queue
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// CommandHandlers returns the element command handlers, or nil when
// Features.Commands is disabled.
func (c *Container) CommandHandlers() *elementscmd.HandlerSet {
	return c.handlers
}

// BunDB exposes the database backing the bun store, or nil for memory storage.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}
