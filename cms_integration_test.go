package cms_test

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	cms "github.com/goliatone/go-cms-elements"
	"github.com/goliatone/go-cms-elements/internal/definitions"
	"github.com/google/uuid"
)

func newModule(t *testing.T, cfg cms.Config) *cms.Module {
	t.Helper()
	module, err := cms.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() {
		_ = module.Close()
	})
	return module
}

func TestModuleEndToEndOnSQLite(t *testing.T) {
	cfg := cms.DefaultConfig()
	cfg.Storage.Provider = cms.StorageBun
	cfg.Storage.DSN = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	cfg.Features.Commands = true
	module := newModule(t, cfg)
	ctx := context.Background()

	page, err := module.CreatePage(ctx, "About us", "en", "standard")
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	if err := cms.Dispatch(ctx, cms.CreateElementCommand{PageID: page.ID, Name: "article#news"}); err != nil {
		t.Fatalf("dispatch create: %v", err)
	}
	if err := cms.Dispatch(ctx, cms.CreateElementCommand{PageID: page.ID, Name: "headline"}); err != nil {
		t.Fatalf("dispatch create: %v", err)
	}

	grouped, err := module.Elements().ListGrouped(ctx, page.ID)
	if err != nil {
		t.Fatalf("list grouped: %v", err)
	}
	if len(grouped.Page) != 1 || len(grouped.Cells) != 1 || len(grouped.Cells[0].Elements) != 1 {
		t.Fatalf("unexpected grouping %+v", grouped)
	}

	article := grouped.Cells[0].Elements[0]
	params := map[uuid.UUID]cms.EssenceParams{}
	for _, item := range article.Contents {
		if item.Name == "body" {
			params[item.ID] = cms.EssenceParams{"body": "<p>Founded in <b>1998</b></p>"}
		}
		if item.Name == "published_on" {
			params[item.ID] = cms.EssenceParams{"date": "yesterday"}
		}
	}
	handlers := module.Container().CommandHandlers()
	err = handlers.UpdateContents.Execute(ctx, cms.UpdateContentsCommand{ElementID: article.ID, Contents: params})
	if cms.ErrorKindOf(err) != cms.KindEssenceValidationFailed {
		t.Fatalf("expected essence validation failure, got %v", err)
	}

	reloaded, err := module.Elements().Get(ctx, article.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	for _, item := range reloaded.Contents {
		if item.Name == "body" && item.Essence.StrippedBody != "Founded in 1998" {
			t.Fatalf("expected the valid body to be stored, got %q", item.Essence.StrippedBody)
		}
	}
}

func TestModuleRejectsUnknownLayout(t *testing.T) {
	module := newModule(t, cms.DefaultConfig())
	_, err := module.CreatePage(context.Background(), "Blog", "en", "magazine")
	if !errors.Is(err, definitions.ErrPageLayoutNotFound) {
		t.Fatalf("expected ErrPageLayoutNotFound, got %v", err)
	}
}

func TestModuleReportsMissingElements(t *testing.T) {
	module := newModule(t, cms.DefaultConfig())
	_, err := module.Elements().Get(context.Background(), uuid.New())
	if cms.ErrorKindOf(err) != cms.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMigrationsFSIsEmbedded(t *testing.T) {
	for _, dialect := range []string{cms.DialectSQLite, cms.DialectPostgres} {
		names, err := fs.Glob(cms.GetMigrationsFS(), "sql/"+dialect+"/*.up.sql")
		if err != nil || len(names) == 0 {
			t.Fatalf("expected %s migrations, got %v (%v)", dialect, names, err)
		}
	}
}
