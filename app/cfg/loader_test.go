package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestLoadSyncCommand(t *testing.T) {
	t.Setenv("NOTION_DATABASE_ID", "db-123")
	t.Setenv("VERCEL_DEPLOY_HOOK", "https://hooks.example.com/deploy")

	cfg, err := load([]string{"--snapshot-path", "/tmp/snap.json", "sync"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Command != CommandSync {
		t.Errorf("Expected command '%s', got '%s'", CommandSync, cfg.Command)
	}
	if cfg.NotionDatabaseID != "db-123" {
		t.Errorf("Expected database ID 'db-123', got '%s'", cfg.NotionDatabaseID)
	}
	if cfg.DeployHookURL != "https://hooks.example.com/deploy" {
		t.Errorf("Expected deploy hook from env, got '%s'", cfg.DeployHookURL)
	}
	if cfg.SnapshotPath != "/tmp/snap.json" {
		t.Errorf("Expected snapshot path '/tmp/snap.json', got '%s'", cfg.SnapshotPath)
	}
	if cfg.NotionAPIURL != "https://api.notion.com/v1" {
		t.Errorf("Expected default Notion API URL, got '%s'", cfg.NotionAPIURL)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected default port '8080', got '%s'", cfg.Port)
	}
	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
}

func TestLoadRenderCommand(t *testing.T) {
	cfg, err := load([]string{"render", "page-abc"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Command != CommandRender {
		t.Errorf("Expected command '%s', got '%s'", CommandRender, cfg.Command)
	}
	if cfg.PageID != "page-abc" {
		t.Errorf("Expected page ID 'page-abc', got '%s'", cfg.PageID)
	}
}

func TestLoadRejectsNegativeInterval(t *testing.T) {
	_, err := load([]string{"--sync-interval=-5", "serve"})
	if err == nil {
		t.Error("Expected error for negative sync interval")
	}
}

func TestLoadRequiresCommand(t *testing.T) {
	_, err := load([]string{})
	if err == nil {
		t.Error("Expected error when no command is given")
	}
}
