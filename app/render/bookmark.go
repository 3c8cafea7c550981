package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/lysyi3m/blog-sync/app/metrics"
	"github.com/lysyi3m/blog-sync/app/notion"
)

const (
	BookmarkUserAgent = "Mozilla/5.0 (Notion Bookmark Bot)"

	maxBookmarkBody = 2 << 20
)

// BookmarkMeta is the preview scraped from a bookmarked page. Missing fields
// are empty.
type BookmarkMeta struct {
	URL         string
	Title       string
	Description string
	Image       string
}

func metaPattern(attr, name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + attr + `=["']` + regexp.QuoteMeta(name) + `["']\s+content=["']([^"']+)["']`)
}

var (
	titlePatterns = []*regexp.Regexp{
		metaPattern("property", "og:title"),
		metaPattern("name", "twitter:title"),
		regexp.MustCompile(`(?i)<title>([^<]+)</title>`),
	}
	descriptionPatterns = []*regexp.Regexp{
		metaPattern("property", "og:description"),
		metaPattern("name", "description"),
		metaPattern("name", "twitter:description"),
	}
	imagePatterns = []*regexp.Regexp{
		metaPattern("property", "og:image"),
		metaPattern("name", "twitter:image"),
	}
)

func firstMatch(html string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(html); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

// ParseBookmarkMeta extracts title, description and image from raw HTML.
func ParseBookmarkMeta(pageURL, html string) BookmarkMeta {
	return BookmarkMeta{
		URL:         pageURL,
		Title:       firstMatch(html, titlePatterns),
		Description: firstMatch(html, descriptionPatterns),
		Image:       firstMatch(html, imagePatterns),
	}
}

type BookmarkFetcher struct {
	httpClient *http.Client
}

func NewBookmarkFetcher(httpClient *http.Client) *BookmarkFetcher {
	return &BookmarkFetcher{httpClient: httpClient}
}

// Fetch never fails: any error yields metadata holding only the URL.
func (f *BookmarkFetcher) Fetch(ctx context.Context, pageURL string) BookmarkMeta {
	html, err := f.download(ctx, pageURL)
	if err != nil {
		slog.Debug("Bookmark metadata unavailable", "url", pageURL, "error", err)
		metrics.BookmarkFetchesTotal.WithLabelValues("fallback").Inc()
		return BookmarkMeta{URL: pageURL}
	}
	metrics.BookmarkFetchesTotal.WithLabelValues("success").Inc()
	return ParseBookmarkMeta(pageURL, html)
}

func (f *BookmarkFetcher) download(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", BookmarkUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBookmarkBody))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(body), nil
}

// BookmarkCache memoizes metadata per URL for one conversion run. Entries are
// written once and never evicted; concurrent lookups of the same URL share a
// single fetch.
type BookmarkCache struct {
	fetcher *BookmarkFetcher
	group   singleflight.Group

	mu      sync.RWMutex
	entries map[string]BookmarkMeta
}

func NewBookmarkCache(fetcher *BookmarkFetcher) *BookmarkCache {
	return &BookmarkCache{
		fetcher: fetcher,
		entries: make(map[string]BookmarkMeta),
	}
}

func (c *BookmarkCache) Get(ctx context.Context, pageURL string) BookmarkMeta {
	c.mu.RLock()
	meta, ok := c.entries[pageURL]
	c.mu.RUnlock()
	if ok {
		return meta
	}

	v, _, _ := c.group.Do(pageURL, func() (any, error) {
		c.mu.RLock()
		cached, ok := c.entries[pageURL]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		fetched := c.fetcher.Fetch(ctx, pageURL)
		c.mu.Lock()
		c.entries[pageURL] = fetched
		c.mu.Unlock()
		return fetched, nil
	})
	return v.(BookmarkMeta)
}

func hostname(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return pageURL
	}
	return u.Hostname()
}

func bookmarkCard(block *notion.BookmarkBlock, meta BookmarkMeta) string {
	title := strings.TrimSpace(notion.PlainText(block.Caption))
	if title == "" {
		title = meta.Title
	}
	if title == "" {
		title = block.URL
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="notion-bookmark"><a href="%s" target="_blank" rel="noopener noreferrer">`, escapeHTML(block.URL))
	fmt.Fprintf(&b, `<div class="notion-bookmark-content"><div class="notion-bookmark-title">%s</div>`, escapeHTML(title))
	if meta.Description != "" {
		fmt.Fprintf(&b, `<div class="notion-bookmark-desc">%s</div>`, escapeHTML(meta.Description))
	}
	fmt.Fprintf(&b, `<div class="notion-bookmark-url">%s</div></div>`, escapeHTML(hostname(block.URL)))
	if meta.Image != "" {
		fmt.Fprintf(&b, `<div class="notion-bookmark-thumb"><img src="%s" alt="" /></div>`, escapeHTML(meta.Image))
	}
	b.WriteString("</a></div>")
	return b.String()
}
