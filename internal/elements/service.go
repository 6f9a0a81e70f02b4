package elements

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-cms-elements/internal/cells"
	"github.com/goliatone/go-cms-elements/internal/clipboard"
	"github.com/goliatone/go-cms-elements/internal/contents"
	"github.com/goliatone/go-cms-elements/internal/definitions"
	"github.com/goliatone/go-cms-elements/internal/localesync"
	"github.com/goliatone/go-cms-elements/internal/logging"
	"github.com/goliatone/go-cms-elements/internal/pages"
	"github.com/goliatone/go-cms-elements/internal/positions"
	"github.com/goliatone/go-cms-elements/pkg/interfaces"
	"github.com/google/uuid"
)

// Service is the entry point for every element mutation and listing.
type Service interface {
	Create(ctx context.Context, input CreateElementInput) (*Element, error)
	Get(ctx context.Context, id uuid.UUID) (*Element, error)
	List(ctx context.Context, pageID uuid.UUID) ([]*Element, error)
	ListGrouped(ctx context.Context, pageID uuid.UUID) (*GroupedElements, error)
	ListPublished(ctx context.Context, pageID uuid.UUID) ([]*Element, error)
	ListTrashed(ctx context.Context) ([]*Element, error)

	Order(ctx context.Context, input OrderInput) ([]uuid.UUID, error)
	Fold(ctx context.Context, id uuid.UUID) (*Element, error)
	Trash(ctx context.Context, id uuid.UUID) (*Element, error)
	Restore(ctx context.Context, input RestoreInput) (*Element, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Copy(ctx context.Context, session clipboard.Session, id uuid.UUID) (clipboard.Item, error)
	Cut(ctx context.Context, session clipboard.Session, id uuid.UUID) (clipboard.Item, error)
	Paste(ctx context.Context, input PasteInput) (*Element, error)
	ClipboardItemsForPage(ctx context.Context, session clipboard.Session, pageID uuid.UUID) ([]ClipboardEntry, error)

	UpdateContents(ctx context.Context, input UpdateContentsInput) (*UpdateResult, error)
}

// Definitions resolves the structural definitions the service needs.
type Definitions interface {
	PageLayout(name string) (definitions.PageLayout, error)
	Cell(name string) (definitions.CellDefinition, error)
	Element(name string) (definitions.ElementDefinition, error)
}

// CreateElementInput describes a new element. Name may be qualified with a
// cell ("teaser#news").
type CreateElementInput struct {
	PageID uuid.UUID
	Name   string
	// Public defaults to true.
	Public *bool
	Tags   []string
}

// GroupedElements is the non trashed content of a page split by container.
type GroupedElements struct {
	Page  []*Element
	Cells []CellGroup
}

// CellGroup holds the elements of one cell.
type CellGroup struct {
	Cell     *cells.Cell
	Elements []*Element
}

// IDGenerator produces identifiers for new records.
type IDGenerator func() uuid.UUID

// ServiceOption configures the element service.
type ServiceOption func(*service)

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides uuid.New.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClipboard replaces the default in-memory clipboard.
func WithClipboard(store clipboard.Store) ServiceOption {
	return func(s *service) {
		if store != nil {
			s.clipboard = store
		}
	}
}

// WithCellResolver replaces the resolver built from the service definitions.
func WithCellResolver(resolver *cells.Resolver) ServiceOption {
	return func(s *service) {
		if resolver != nil {
			s.resolver = resolver
		}
	}
}

// WithLocaleSync enables picture propagation across locales.
func WithLocaleSync(syncer *localesync.Synchronizer) ServiceOption {
	return func(s *service) {
		s.syncer = syncer
	}
}

// WithTranslator enables translation queueing of source-locale text edits.
func WithTranslator(translator *localesync.Translator) ServiceOption {
	return func(s *service) {
		s.translator = translator
	}
}

type service struct {
	store       Store
	pages       pages.Repository
	definitions Definitions
	clipboard   clipboard.Store
	resolver    *cells.Resolver
	syncer      *localesync.Synchronizer
	translator  *localesync.Translator
	now         func() time.Time
	id          IDGenerator
	logger      interfaces.Logger
}

// NewService wires the element service. Pages are read outside of units of
// work; everything else goes through store.
func NewService(store Store, pageRepo pages.Repository, defs Definitions, opts ...ServiceOption) Service {
	s := &service{
		store:       store,
		pages:       pageRepo,
		definitions: defs,
		clipboard:   clipboard.NewMemoryStore(),
		now:         func() time.Time { return time.Now().UTC() },
		id:          uuid.New,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resolver == nil {
		s.resolver = cells.NewResolver(defs, cells.WithClock(s.now), cells.WithLogger(s.logger))
	}
	return s
}

func (s *service) Create(ctx context.Context, input CreateElementInput) (*Element, error) {
	if input.PageID == uuid.Nil {
		return nil, ErrPageRequired
	}
	elementName, cellName := cells.ParseQualifiedName(input.Name)
	if elementName == "" {
		return nil, ErrNameRequired
	}
	page, layout, err := s.pageLayout(ctx, input.PageID)
	if err != nil {
		return nil, err
	}
	if !layout.CanHaveCells() {
		cellName = ""
	}
	def, err := s.definitions.Element(elementName)
	if err != nil {
		return nil, err
	}
	if cellName == "" && !layout.AllowsElement(elementName) {
		return nil, fmt.Errorf("%w: %s on %s", ErrElementNotAllowed, elementName, layout.Name)
	}
	if cellName != "" {
		if cellDef, err := s.definitions.Cell(cellName); err == nil && !cellDef.AllowsElement(elementName) {
			return nil, fmt.Errorf("%w: %s in %s", ErrElementNotAllowed, elementName, cellName)
		}
	}

	public := true
	if input.Public != nil {
		public = *input.Public
	}
	now := s.now()
	record := &Element{
		ID:        s.id(),
		PageID:    page.ID,
		Name:      elementName,
		Public:    public,
		Tags:      normalizeTags(input.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		if def.Unique {
			if err := ensureUnique(ctx, repos.Elements, page.ID, elementName); err != nil {
				return err
			}
		}
		if cellName != "" {
			cell, err := s.resolver.Resolve(ctx, repos.Cells, page.ID, cellName)
			if err != nil {
				return err
			}
			cellID := cell.ID
			record.CellID = &cellID
		}
		if err := repos.Elements.Create(ctx, record); err != nil {
			return err
		}
		items, err := contents.Build(record.ID, def, now, s.id)
		if err != nil {
			return err
		}
		if err := contents.Insert(ctx, repos.Contents, items); err != nil {
			return err
		}
		return s.insert(ctx, repos.Elements, layout, record)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.Get(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	s.queueTranslations(ctx, page, created, created.Contents)
	logging.WithElementContext(s.logger, created.ID.String(), page.ID.String(), "create").
		Info("elements.create.completed", "name", created.Name, "position", created.Position)
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Element, error) {
	repos := s.store.Repositories()
	record, err := repos.Elements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := attachContents(ctx, repos.Contents, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) List(ctx context.Context, pageID uuid.UUID) ([]*Element, error) {
	repos := s.store.Repositories()
	records, err := repos.Elements.ListByPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if err := attachContents(ctx, repos.Contents, records...); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *service) ListGrouped(ctx context.Context, pageID uuid.UUID) (*GroupedElements, error) {
	records, err := s.List(ctx, pageID)
	if err != nil {
		return nil, err
	}
	pageCells, err := s.store.Repositories().Cells.ListByPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	grouped := &GroupedElements{Page: []*Element{}, Cells: make([]CellGroup, 0, len(pageCells))}
	index := make(map[uuid.UUID]int, len(pageCells))
	for _, cell := range pageCells {
		index[cell.ID] = len(grouped.Cells)
		grouped.Cells = append(grouped.Cells, CellGroup{Cell: cell, Elements: []*Element{}})
	}
	for _, record := range records {
		if record.CellID == nil {
			grouped.Page = append(grouped.Page, record)
			continue
		}
		idx, ok := index[*record.CellID]
		if !ok {
			continue
		}
		grouped.Cells[idx].Elements = append(grouped.Cells[idx].Elements, record)
	}
	return grouped, nil
}

func (s *service) ListPublished(ctx context.Context, pageID uuid.UUID) ([]*Element, error) {
	records, err := s.List(ctx, pageID)
	if err != nil {
		return nil, err
	}
	out := make([]*Element, 0, len(records))
	for _, record := range records {
		if record.Public {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *service) ListTrashed(ctx context.Context) ([]*Element, error) {
	repos := s.store.Repositories()
	records, err := repos.Elements.ListTrashed(ctx)
	if err != nil {
		return nil, err
	}
	if err := attachContents(ctx, repos.Contents, records...); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *service) pageLayout(ctx context.Context, pageID uuid.UUID) (*pages.Page, definitions.PageLayout, error) {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		return nil, definitions.PageLayout{}, err
	}
	layout, err := s.definitions.PageLayout(page.Layout)
	if err != nil {
		return nil, definitions.PageLayout{}, err
	}
	return page, layout, nil
}

// insert places a freshly created record at the top or bottom of its scope
// depending on the page layout.
func (s *service) insert(ctx context.Context, repo Repository, layout definitions.PageLayout, record *Element) error {
	manager := positions.NewManager(repo)
	key := ScopeKey(record.PageID, record.CellID)
	if layout.InsertsAtTop() {
		if err := manager.InsertAtTop(ctx, key, record.ID); err != nil {
			return err
		}
		record.Position = 1
		return nil
	}
	position, err := manager.InsertAtBottom(ctx, key, record.ID)
	if err != nil {
		return err
	}
	record.Position = position
	return nil
}

// queueTranslations hands the translatable contents of record to the
// translator and flushes. Failures are logged and never returned.
func (s *service) queueTranslations(ctx context.Context, page *pages.Page, record *Element, items []*contents.Content) int {
	if s.translator == nil || len(items) == 0 {
		return 0
	}
	source := localesync.Source{PageName: page.Name, Locale: page.LanguageCode, ElementPosition: record.Position}
	queued, err := s.translator.Enqueue(ctx, source, items)
	if err != nil {
		logging.WithElementContext(s.logger, record.ID.String(), page.ID.String(), "translate").
			Warn("elements.translations.enqueue_failed", "error", err)
	}
	if queued > 0 {
		s.translator.Flush(ctx)
	}
	return queued
}

func ensureUnique(ctx context.Context, repo Repository, pageID uuid.UUID, name string) error {
	existing, err := repo.ListByPage(ctx, pageID)
	if err != nil {
		return err
	}
	for _, record := range existing {
		if record.Name == name {
			return fmt.Errorf("%w: %s", ErrUniqueElement, name)
		}
	}
	return nil
}

func attachContents(ctx context.Context, repo contents.Repository, records ...*Element) error {
	for _, record := range records {
		items, err := repo.ListByElement(ctx, record.ID)
		if err != nil {
			return err
		}
		record.Contents = items
	}
	return nil
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
