package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/blog-sync/app/api"
	"github.com/lysyi3m/blog-sync/app/cfg"
	"github.com/lysyi3m/blog-sync/app/content"
	"github.com/lysyi3m/blog-sync/app/database"
	"github.com/lysyi3m/blog-sync/app/deploy"
	"github.com/lysyi3m/blog-sync/app/feed"
	"github.com/lysyi3m/blog-sync/app/notion"
	"github.com/lysyi3m/blog-sync/app/render"
	"github.com/lysyi3m/blog-sync/app/site"
	"github.com/lysyi3m/blog-sync/app/snapshot"
	"github.com/lysyi3m/blog-sync/app/tasks"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		os.Exit(1)
	}
	if c == nil {
		return
	}

	setupLogging(c.Debug)

	siteCfg, err := site.Load(c.SiteConfig)
	if err != nil {
		slog.Error("Failed to load site configuration", "path", c.SiteConfig, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: 30 * time.Second}
	notionClient := notion.NewClient(httpClient, c.NotionAPIURL, c.NotionToken, c.NotionVersion, c.UserAgent)

	switch c.Command {
	case cfg.CommandSync:
		runSync(ctx, siteCfg, httpClient, notionClient)
	case cfg.CommandRender:
		if err := runRender(ctx, httpClient, notionClient); err != nil {
			slog.Error("Render failed", "page", c.PageID, "error", err)
			os.Exit(1)
		}
	case cfg.CommandServe:
		if err := runServe(ctx, siteCfg, httpClient, notionClient); err != nil {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func syncDeps(siteCfg *site.Config, httpClient *http.Client, notionClient *notion.Client, runs database.RunRepository) tasks.SyncDeps {
	c := cfg.Get()

	return tasks.SyncDeps{
		DatabaseID: c.NotionDatabaseID,
		Filter: &notion.Filter{
			Property: siteCfg.Sync.StatusProperty,
			Kind:     siteCfg.Sync.StatusKind,
			Equals:   siteCfg.Sync.StatusValue,
		},
		Notion:    notionClient,
		Snapshots: snapshot.NewStore(c.SnapshotPath),
		Hook:      deploy.NewHook(httpClient, c.DeployHookURL, c.UserAgent),
		Runs:      runs,
	}
}

// openHistory opens the run history. History is optional: a failure is
// logged and syncing continues without it.
func openHistory() (*database.DB, database.RunRepository) {
	path := cfg.Get().HistoryDB
	if path == "" {
		return nil, nil
	}

	db, err := database.Open(path)
	if err != nil {
		slog.Warn("Run history unavailable", "path", path, "error", err)
		return nil, nil
	}

	return db, database.NewRunRepository(db)
}

// runSync performs one sync. Every outcome exits 0: this runs as a scheduled
// job and the log tells which branch was taken.
func runSync(ctx context.Context, siteCfg *site.Config, httpClient *http.Client, notionClient *notion.Client) {
	db, runs := openHistory()
	if db != nil {
		defer db.Close()
	}

	task := tasks.NewSyncContentTask(tasks.SourceCLI, syncDeps(siteCfg, httpClient, notionClient, runs))
	task.Start()

	if err := task.Execute(ctx); err != nil {
		slog.Error("Sync failed", "id", task.GetID(), "error", err)
		return
	}

	run := task.Run()
	slog.Info("Sync finished",
		"id", run.ID,
		"outcome", run.Outcome,
		"fetched", run.Fetched,
		"new", run.NewCount,
		"updated", run.Updated,
		"deployed", run.Deployed,
		"duration", task.GetDuration().String())
}

func runRender(ctx context.Context, httpClient *http.Client, notionClient *notion.Client) error {
	bookmarks := render.NewBookmarkCache(render.NewBookmarkFetcher(httpClient))
	converter := render.NewConverter(notionClient, bookmarks)

	md, err := converter.PageContent(ctx, cfg.Get().PageID)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(os.Stdout, md)
	return err
}

func runServe(ctx context.Context, siteCfg *site.Config, httpClient *http.Client, notionClient *notion.Client) error {
	c := cfg.Get()

	slog.Info("Starting blog-sync server", "version", c.Version)

	db, runs := openHistory()
	if db != nil {
		defer db.Close()
	}

	deps := syncDeps(siteCfg, httpClient, notionClient, runs)
	scheduler := tasks.NewScheduler(func(source string) tasks.TaskInterface {
		return tasks.NewSyncContentTask(source, deps)
	}, time.Duration(c.SyncInterval)*time.Second)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(api.Deps{
		Notion:         notionClient,
		DatabaseID:     c.NotionDatabaseID,
		Mapper:         content.NewMapper(siteCfg.Schema),
		Bookmarks:      render.NewBookmarkFetcher(httpClient),
		Generator:      feed.NewGenerator(siteCfg, c.Version),
		Hook:           deploy.NewHook(httpClient, c.DeployHookURL, c.UserAgent),
		DeployPassword: c.DeployPassword,
		Runs:           runs,
		Scheduler:      scheduler,
		Version:        c.Version,
	})

	httpServer := &http.Server{
		Addr:         ":" + c.Port,
		Handler:      api.NewServer(handler, c.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", c.Port, "sync_interval", c.SyncInterval)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	case serveErr = <-serverErrChan:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return serveErr
}
