package site

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

func DefaultSchema() Schema {
	return Schema{
		Title:     []string{"Title", "Name", "title"},
		Slug:      []string{"Slug", "slug"},
		Summary:   []string{"Summary", "summary", "Description"},
		Date:      []string{"Date", "date"},
		Type:      []string{"Type", "type"},
		Status:    []string{"Status", "status"},
		Tags:      []string{"Tags", "tags"},
		Category:  []string{"Category", "category"},
		Author:    []string{"Author", "author"},
		Thumbnail: []string{"Thumbnail", "thumbnail", "Cover", "cover"},
		FullWidth: []string{"FullWidth", "fullWidth", "Full Width"},
	}
}

func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

// Load reads the site configuration. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("Site configuration not found, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var siteConfig Config
	if err := yaml.Unmarshal(data, &siteConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&siteConfig)

	if err := validate(&siteConfig); err != nil {
		return nil, fmt.Errorf("invalid site config %s: %w", path, err)
	}

	return &siteConfig, nil
}

func applyDefaults(c *Config) {
	if c.Title == "" {
		c.Title = "blog"
	}
	if c.Lang == "" {
		c.Lang = "en-US"
	}
	if c.Sync.StatusProperty == "" {
		c.Sync.StatusProperty = "status"
	}
	if c.Sync.StatusKind == "" {
		c.Sync.StatusKind = "select"
	}
	if c.Sync.StatusValue == "" {
		c.Sync.StatusValue = "Public"
	}

	defaults := DefaultSchema()
	fields := []struct {
		dst *[]string
		def []string
	}{
		{&c.Schema.Title, defaults.Title},
		{&c.Schema.Slug, defaults.Slug},
		{&c.Schema.Summary, defaults.Summary},
		{&c.Schema.Date, defaults.Date},
		{&c.Schema.Type, defaults.Type},
		{&c.Schema.Status, defaults.Status},
		{&c.Schema.Tags, defaults.Tags},
		{&c.Schema.Category, defaults.Category},
		{&c.Schema.Author, defaults.Author},
		{&c.Schema.Thumbnail, defaults.Thumbnail},
		{&c.Schema.FullWidth, defaults.FullWidth},
	}
	for _, f := range fields {
		if len(*f.dst) == 0 {
			*f.dst = f.def
		}
	}
}

func validate(c *Config) error {
	if c.Sync.StatusKind != "select" && c.Sync.StatusKind != "status" {
		return fmt.Errorf("status kind must be 'select' or 'status', got '%s'", c.Sync.StatusKind)
	}

	if c.Link != "" {
		u, err := url.Parse(c.Link)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("link must be an absolute URL: %s", c.Link)
		}
	}

	return nil
}
