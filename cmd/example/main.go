package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	cms "github.com/goliatone/go-cms-elements"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const session = cms.ClipboardSession("example")

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	ctx := context.Background()
	cfg := configFromEnv()

	module, err := cms.New(ctx, cfg)
	if err != nil {
		log.Fatalf("initialise module: %v", err)
	}
	defer func() {
		if err := module.Close(); err != nil {
			log.Printf("close module: %v", err)
		}
	}()

	if err := run(ctx, module); err != nil {
		log.Fatalf("example: %v", err)
	}
}

func configFromEnv() cms.Config {
	cfg := cms.DefaultConfig()
	cfg.Storage.Provider = env("CMS_STORAGE_PROVIDER", cms.StorageBun)
	cfg.Storage.Dialect = env("CMS_STORAGE_DIALECT", cms.DialectSQLite)
	cfg.Storage.DSN = env("CMS_STORAGE_DSN", "")
	cfg.Definitions.Path = env("CMS_DEFINITIONS_PATH", "")
	cfg.DefaultLocale = env("CMS_DEFAULT_LOCALE", "en")
	cfg.Cache.Enabled, _ = strconv.ParseBool(env("CMS_CACHE_ENABLED", "true"))
	if threshold, err := time.ParseDuration(env("CMS_LOCALE_SYNC_THRESHOLD", "")); err == nil {
		cfg.LocaleSync.Threshold = threshold
	}
	cfg.Translations.KeyStrategy = env("CMS_TRANSLATION_KEYS", "position")
	cfg.Features.Commands = true
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = env("CMS_LOG_FORMAT", "console")
	cfg.Logging.Level = env("CMS_LOG_LEVEL", "info")
	return cfg
}

func run(ctx context.Context, module *cms.Module) error {
	svc := module.Elements()

	english, err := module.CreatePage(ctx, "Home", "en", "standard")
	if err != nil {
		return err
	}
	german, err := module.CreatePage(ctx, "Home", "de", "standard")
	if err != nil {
		return err
	}

	if err := cms.Dispatch(ctx, cms.CreateElementCommand{PageID: english.ID, Name: "headline#header"}); err != nil {
		return err
	}
	teaser, err := svc.Create(ctx, cms.CreateElementInput{PageID: english.ID, Name: "teaser#news", Tags: []string{"front"}})
	if err != nil {
		return err
	}
	germanTeaser, err := svc.Create(ctx, cms.CreateElementInput{PageID: german.ID, Name: "teaser#news"})
	if err != nil {
		return err
	}

	params := map[uuid.UUID]cms.EssenceParams{}
	for _, item := range teaser.Contents {
		switch item.Name {
		case "title":
			params[item.ID] = cms.EssenceParams{"ingredient": "Spring collection"}
		case "image":
			params[item.ID] = cms.EssenceParams{"picture_id": uuid.NewString(), "caption": "Storefront"}
		case "link":
			params[item.ID] = cms.EssenceParams{"ingredient": "not a url"}
		}
	}
	result, err := svc.UpdateContents(ctx, cms.UpdateContentsInput{ElementID: teaser.ID, Contents: params})
	if err != nil {
		return err
	}
	fmt.Printf("updated=%d failed=%d synced=%d\n", len(result.Updated), len(result.Failed), len(result.Synced))
	if err := result.Err(); err != nil {
		fmt.Printf("validation: %s (%s)\n", err, cms.ErrorKindOf(err))
	}

	if err := cms.Dispatch(ctx, cms.ClipboardElementCommand{Session: session, ElementID: germanTeaser.ID, Action: "copy"}); err != nil {
		return err
	}
	if err := cms.Dispatch(ctx, cms.PasteElementCommand{Session: session, PageID: german.ID, Source: germanTeaser.ID.String() + "#news"}); err != nil {
		return err
	}

	for _, page := range []*cms.Page{english, german} {
		grouped, err := svc.ListGrouped(ctx, page.ID)
		if err != nil {
			return err
		}
		if err := printGrouped(page, grouped); err != nil {
			return err
		}
	}
	return nil
}

func printGrouped(page *cms.Page, grouped *cms.GroupedElements) error {
	summary := map[string][]string{}
	for _, record := range grouped.Page {
		summary["page"] = append(summary["page"], fmt.Sprintf("%d:%s", record.Position, record.Name))
	}
	for _, group := range grouped.Cells {
		for _, record := range group.Elements {
			summary[group.Cell.Name] = append(summary[group.Cell.Name], fmt.Sprintf("%d:%s", record.Position, record.Name))
		}
	}
	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n%s\n", page.Name, page.LanguageCode, payload)
	return nil
}

func env(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
