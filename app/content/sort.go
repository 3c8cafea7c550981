package content

import (
	"slices"
	"sort"
	"time"

	"golang.org/x/text/unicode/norm"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

func parseTime(value string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// PublishedAt is the publication date, or the creation time when no date is set.
func (p Post) PublishedAt() time.Time {
	if p.Date.StartDate != "" {
		return parseTime(p.Date.StartDate)
	}
	return parseTime(p.CreatedTime)
}

// Sort orders posts newest first. Ties keep their input order.
func Sort(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedAt().After(posts[j].PublishedAt())
	})
}

type FilterOptions struct {
	Statuses []string
	Types    []string
}

// ListFilter selects what the post index shows.
var ListFilter = FilterOptions{
	Statuses: []string{StatusPublic},
	Types:    []string{TypePost, TypePaper},
}

// DetailFilter selects what may be opened by slug.
var DetailFilter = FilterOptions{
	Statuses: []string{StatusPublic, StatusPublicOnDetail},
	Types:    postTypes,
}

func Filter(posts []Post, opts FilterOptions) []Post {
	filtered := make([]Post, 0, len(posts))
	for _, post := range posts {
		if matches(post, opts) {
			filtered = append(filtered, post)
		}
	}
	return filtered
}

func matches(post Post, opts FilterOptions) bool {
	return containsAny(post.Status, opts.Statuses) && containsAny(post.Type, opts.Types)
}

func containsAny(values, wanted []string) bool {
	for _, v := range values {
		if slices.Contains(wanted, v) {
			return true
		}
	}
	return false
}

// FindBySlug returns the post reachable under slug. Slugs are compared in
// NFC form since pasted Hangul may arrive decomposed.
func FindBySlug(posts []Post, slug string) (Post, bool) {
	want := norm.NFC.String(slug)
	for _, post := range posts {
		if post.Slug == "" || norm.NFC.String(post.Slug) != want {
			continue
		}
		if matches(post, DetailFilter) {
			return post, true
		}
	}
	return Post{}, false
}
