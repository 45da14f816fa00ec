// Command valuesref browses the values schema of a package.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/custodia-labs/valuesref/internal/adapters/driven/clipboard"
	"github.com/custodia-labs/valuesref/internal/adapters/driven/config/file"
	yamldec "github.com/custodia-labs/valuesref/internal/adapters/driven/decoder/yaml"
	"github.com/custodia-labs/valuesref/internal/adapters/driven/fetch/artifacthub"
	filefetch "github.com/custodia-labs/valuesref/internal/adapters/driven/fetch/file"
	"github.com/custodia-labs/valuesref/internal/adapters/driven/fetch/github"
	"github.com/custodia-labs/valuesref/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/valuesref/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/valuesref/internal/adapters/driving/cli"
	"github.com/custodia-labs/valuesref/internal/core/ports/driven"
	"github.com/custodia-labs/valuesref/internal/core/ports/driving"
	"github.com/custodia-labs/valuesref/internal/core/services"
	"github.com/custodia-labs/valuesref/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Wiring happens before cobra parses flags.
	if slices.Contains(os.Args[1:], "-v") || slices.Contains(os.Args[1:], "--verbose") {
		logger.SetVerbose(true)
	}

	var cfg driven.ConfigStore
	fileCfg, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: config unavailable, using defaults: %v\n", err)
		cfg = memory.NewConfigStore()
	} else {
		cfg = fileCfg
	}
	settings := services.LoadSettings(cfg)

	var (
		cache     driven.SchemaCache
		bookmarks driven.BookmarkStore
	)
	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		logger.Warn("Database unavailable, bookmarks will not persist: %v", err)
		cache = memory.NewSchemaCache()
		bookmarks = memory.NewBookmarkStore()
	} else {
		defer store.Close()
		cache = store.SchemaCache()
		bookmarks = store.BookmarkStore()
	}
	if !settings.Cache.Enabled {
		cache = nil
	}

	hub := artifacthub.NewFetcher(settings.Fetch.APIBaseURL,
		artifacthub.WithMaxRetries(settings.Fetch.MaxRetries),
		artifacthub.WithRate(settings.Fetch.RatePerSecond),
	)
	defer hub.Close()

	schemas := services.NewSchemaService(
		yamldec.NewDecoder(),
		cache,
		hub,
		github.NewFetcher(ctx, settings.Fetch.GitHubToken),
		filefetch.NewFetcher(),
	)
	schemas.SetCacheTTL(settings.Cache.TTL)

	cli.SetServices(cli.Services{
		Schema:   schemas,
		Bookmark: services.NewBookmarkService(bookmarks, schemas),
		Renderer: services.NewDocumentRenderer(),
		Config:   cfg,
	})
	cli.SetTUIConfig(&cli.TUIConfig{
		NewNavigator: func() driving.Navigator {
			return services.NewNavigator(settings.Viewer.SearchLimit)
		},
		Clipboard: clipboard.New(),
		Watcher:   filefetch.NewWatcher(0),
	})

	return cli.Execute(ctx)
}
