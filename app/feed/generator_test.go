package feed

import (
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"

	"github.com/lysyi3m/blog-sync/app/content"
	"github.com/lysyi3m/blog-sync/app/site"
)

func testSite() *site.Config {
	cfg := site.Default()
	cfg.Title = "Test Blog"
	cfg.Description = "Notes and papers"
	cfg.Link = "https://blog.example.com/"
	cfg.Author = "Site Owner"
	return cfg
}

func strPtr(s string) *string { return &s }

func TestGenerateRSS(t *testing.T) {
	generator := NewGenerator(testSite(), "1.2.3")

	posts := []content.Post{
		{
			ID:       "page-2",
			Title:    "Second Post",
			Slug:     "second-post",
			Date:     content.PostDate{StartDate: "2024-06-01"},
			Summary:  strPtr("Summary of the second post"),
			Category: []string{"Dev"},
			Tags:     []string{"go", "notion"},
			Author:   []content.Author{{ID: "u1", Name: "Writer"}},
		},
		{
			ID:    "page-1",
			Title: "First Post",
			Date:  content.PostDate{StartDate: "2024-01-01"},
		},
	}

	rss, err := generator.Run(posts)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(rss, `<atom:link href="https://blog.example.com/feed.xml" rel="self" type="application/rss+xml" />`) {
		t.Error("RSS should contain atom:link self reference")
	}
	if !strings.Contains(rss, "<generator>blog-sync/1.2.3</generator>") {
		t.Error("RSS should contain generator with version")
	}
	if !strings.Contains(rss, "<lastBuildDate>Sat, 01 Jun 2024 00:00:00 +0000</lastBuildDate>") {
		t.Error("RSS lastBuildDate should follow the newest post")
	}
	if !strings.Contains(rss, "<author>Writer</author>") {
		t.Error("RSS should contain the post author")
	}
	if !strings.Contains(rss, "<author>Site Owner</author>") {
		t.Error("RSS should fall back to the site author")
	}

	parsed, err := gofeed.NewParser().ParseString(rss)
	if err != nil {
		t.Fatalf("Expected generated RSS to parse, got: %v", err)
	}

	if parsed.Title != "Test Blog" {
		t.Errorf("Expected title 'Test Blog', got '%s'", parsed.Title)
	}
	if parsed.Description != "Notes and papers" {
		t.Errorf("Expected description 'Notes and papers', got '%s'", parsed.Description)
	}
	if parsed.Language != "en-US" {
		t.Errorf("Expected language 'en-US', got '%s'", parsed.Language)
	}
	if len(parsed.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(parsed.Items))
	}

	first := parsed.Items[0]
	if first.GUID != "page-2" {
		t.Errorf("Expected GUID 'page-2', got '%s'", first.GUID)
	}
	if first.Link != "https://blog.example.com/second-post" {
		t.Errorf("Expected slug link, got '%s'", first.Link)
	}
	if first.Description != "Summary of the second post" {
		t.Errorf("Expected summary as description, got '%s'", first.Description)
	}
	if len(first.Categories) != 3 || first.Categories[0] != "Dev" || first.Categories[2] != "notion" {
		t.Errorf("Expected categories [Dev go notion], got %v", first.Categories)
	}
	if first.PublishedParsed == nil || first.PublishedParsed.Format("2006-01-02") != "2024-06-01" {
		t.Errorf("Expected published 2024-06-01, got %v", first.PublishedParsed)
	}

	second := parsed.Items[1]
	if second.Link != "https://blog.example.com/page-1" {
		t.Errorf("Expected id link without slug, got '%s'", second.Link)
	}
	if second.Description != "No description available" {
		t.Errorf("Expected placeholder description, got '%s'", second.Description)
	}
}

func TestGenerateWithSpecialCharacters(t *testing.T) {
	siteCfg := testSite()
	siteCfg.Title = `Blog with <special> & "characters"`
	generator := NewGenerator(siteCfg, "dev")

	posts := []content.Post{
		{
			ID:       "special",
			Title:    `Item with <tags> & "quotes"`,
			Category: []string{"Category & Ampersand"},
		},
	}

	rss, err := generator.Run(posts)
	if err != nil {
		t.Fatalf("Expected no error with special characters, got: %v", err)
	}

	if !strings.Contains(rss, "Blog with &lt;special&gt; &amp; &#34;characters&#34;") {
		t.Error("Feed title should have escaped special characters")
	}
	if !strings.Contains(rss, "Item with &lt;tags&gt; &amp; &#34;quotes&#34;") {
		t.Error("Item title should have escaped special characters")
	}
	if !strings.Contains(rss, "<category>Category &amp; Ampersand</category>") {
		t.Error("Category with ampersand should be escaped")
	}
	if strings.Contains(rss, "<pubDate>") {
		t.Error("Post without date should not have pubDate")
	}

	if _, err := gofeed.NewParser().ParseString(rss); err != nil {
		t.Errorf("Expected escaped RSS to parse, got: %v", err)
	}
}

func TestGenerateWithEmptyItems(t *testing.T) {
	siteCfg := testSite()
	siteCfg.Link = ""
	generator := NewGenerator(siteCfg, "dev")

	rss, err := generator.Run(nil)
	if err != nil {
		t.Fatalf("Expected no error with empty items, got: %v", err)
	}

	if strings.Contains(rss, "<item>") {
		t.Error("Empty items RSS should not contain any items")
	}
	if strings.Contains(rss, "atom:link") {
		t.Error("RSS without site link should not contain self reference")
	}
	if !strings.HasSuffix(rss, "  </channel>\n</rss>") {
		t.Error("RSS should end with closing channel and rss tags")
	}
}
