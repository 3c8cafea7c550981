package site

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()

	content := `
title: "0ju-log"
description: "potato escape"
link: "https://blog.example.com"
lang: "ko-KR"

sync:
  status_kind: "status"

schema:
  title:
    - "Headline"
`

	path := filepath.Join(tempDir, "site.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	siteConfig, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if siteConfig.Title != "0ju-log" {
		t.Errorf("Expected title '0ju-log', got '%s'", siteConfig.Title)
	}
	if siteConfig.Lang != "ko-KR" {
		t.Errorf("Expected lang 'ko-KR', got '%s'", siteConfig.Lang)
	}
	if siteConfig.Sync.StatusKind != "status" {
		t.Errorf("Expected status kind 'status', got '%s'", siteConfig.Sync.StatusKind)
	}
	if siteConfig.Sync.StatusProperty != "status" {
		t.Errorf("Expected default status property 'status', got '%s'", siteConfig.Sync.StatusProperty)
	}
	if siteConfig.Sync.StatusValue != "Public" {
		t.Errorf("Expected default status value 'Public', got '%s'", siteConfig.Sync.StatusValue)
	}
	if len(siteConfig.Schema.Title) != 1 || siteConfig.Schema.Title[0] != "Headline" {
		t.Errorf("Expected title aliases [Headline], got %v", siteConfig.Schema.Title)
	}
	if len(siteConfig.Schema.Slug) != 2 {
		t.Errorf("Expected default slug aliases, got %v", siteConfig.Schema.Slug)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	siteConfig, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Expected no error for missing file, got: %v", err)
	}

	if siteConfig.Sync.StatusKind != "select" {
		t.Errorf("Expected default status kind 'select', got '%s'", siteConfig.Sync.StatusKind)
	}
	if len(siteConfig.Schema.Thumbnail) != 4 {
		t.Errorf("Expected 4 thumbnail aliases, got %v", siteConfig.Schema.Thumbnail)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad status kind", "sync:\n  status_kind: checkbox\n"},
		{"relative link", "link: /blog\n"},
		{"broken yaml", "title: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "site.yml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			if _, err := Load(path); err == nil {
				t.Error("Expected error for invalid config")
			}
		})
	}
}
