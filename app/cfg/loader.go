package cfg

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

const (
	CommandSync   = "sync"
	CommandServe  = "serve"
	CommandRender = "render"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Notion configuration
	NotionToken      string `long:"notion-token" env:"NOTION_TOKEN" description:"Notion integration token"`
	NotionDatabaseID string `long:"notion-database-id" env:"NOTION_DATABASE_ID" description:"Notion database holding the posts"`
	NotionAPIURL     string `long:"notion-api-url" env:"NOTION_API_URL" default:"https://api.notion.com/v1" description:"Notion API base URL"`
	NotionVersion    string `long:"notion-version" env:"NOTION_VERSION" default:"2025-09-03" description:"Notion-Version header sent with every API request"`

	// Sync configuration
	DeployHookURL  string `long:"deploy-hook" env:"VERCEL_DEPLOY_HOOK" description:"Webhook URL that triggers a redeploy"`
	DeployPassword string `long:"password" env:"PASSWORD" description:"Shared secret for the admin deploy endpoint"`
	SnapshotPath   string `long:"snapshot-path" env:"SNAPSHOT_PATH" default:".notionsync/published.json" description:"Snapshot of published pages"`
	HistoryDB      string `long:"history-db" env:"HISTORY_DB" default:".notionsync/history.db" description:"SQLite database recording sync runs"`
	SiteConfig     string `long:"site-config" env:"SITE_CONFIG" default:"./site.yml" description:"Site configuration file"`

	// Server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	SyncInterval int    `long:"sync-interval" env:"SYNC_INTERVAL" default:"0" description:"Seconds between scheduled syncs in serve mode (0 disables)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"blog-sync/1.0" description:"User agent string for Notion and webhook requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Seoul)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Sync   struct{}  `command:"sync" description:"Run one content sync and trigger a deploy when public posts changed"`
	Serve  struct{}  `command:"serve" description:"Serve the admin deploy endpoint, posts API and RSS feed"`
	Render renderCmd `command:"render" description:"Print the converted content of a Notion page"`
}

type renderCmd struct {
	Args struct {
		PageID string `positional-arg-name:"page-id" required:"yes"`
	} `positional-args:"yes"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.SyncInterval < 0 {
		return nil, fmt.Errorf("sync interval must be non-negative")
	}

	cfg := &Cfg{
		NotionToken:      raw.NotionToken,
		NotionDatabaseID: raw.NotionDatabaseID,
		NotionAPIURL:     raw.NotionAPIURL,
		NotionVersion:    raw.NotionVersion,
		DeployHookURL:    raw.DeployHookURL,
		DeployPassword:   raw.DeployPassword,
		SnapshotPath:     raw.SnapshotPath,
		HistoryDB:        raw.HistoryDB,
		SiteConfig:       raw.SiteConfig,
		Port:             raw.Port,
		SyncInterval:     raw.SyncInterval,
		APIAccessKey:     raw.APIAccessKey,
		UserAgent:        raw.UserAgent,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
		PageID:           raw.Render.Args.PageID,
	}

	if parser.Active != nil {
		cfg.Command = parser.Active.Name
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
