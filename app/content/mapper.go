package content

import (
	"slices"

	"github.com/lysyi3m/blog-sync/app/notion"
	"github.com/lysyi3m/blog-sync/app/site"
)

type Mapper struct {
	schema site.Schema
}

func NewMapper(schema site.Schema) *Mapper {
	return &Mapper{schema: schema}
}

// MapAll maps every page and orders the result newest first.
func (m *Mapper) MapAll(pages []notion.Page) []Post {
	posts := make([]Post, 0, len(pages))
	for _, page := range pages {
		posts = append(posts, m.Map(page))
	}
	Sort(posts)
	return posts
}

func (m *Mapper) Map(page notion.Page) Post {
	post := Post{
		ID:          page.ID,
		Date:        PostDate{StartDate: page.CreatedTime},
		Type:        whitelist(multiSelect(page, m.schema.Type), postTypes, TypePost),
		Slug:        plainText(page, m.schema.Slug),
		Tags:        orEmpty(multiSelect(page, m.schema.Tags)),
		Category:    orEmpty(multiSelect(page, m.schema.Category)),
		Author:      people(page, m.schema.Author),
		Title:       plainText(page, m.schema.Title),
		Status:      whitelist(multiSelect(page, m.schema.Status), postStatuses, StatusPrivate),
		CreatedTime: page.CreatedTime,
		FullWidth:   checkbox(page, m.schema.FullWidth),
	}

	if start := dateStart(page, m.schema.Date); start != "" {
		post.Date.StartDate = start
	}

	if summary := plainText(page, m.schema.Summary); summary != "" {
		post.Summary = &summary
	}

	thumbnail := firstFile(page, m.schema.Thumbnail)
	if thumbnail == "" {
		thumbnail = page.Cover.URL()
	}
	if thumbnail != "" {
		post.Thumbnail = &thumbnail
	}

	return post
}

// property returns the first property present under any of names.
func property(page notion.Page, names []string) (notion.Property, bool) {
	for _, name := range names {
		if prop, ok := page.Properties[name]; ok {
			return prop, true
		}
	}
	return notion.Property{}, false
}

func plainText(page notion.Page, names []string) string {
	prop, ok := property(page, names)
	if !ok {
		return ""
	}
	switch prop.Type {
	case "title":
		return notion.PlainText(prop.Title)
	case "rich_text":
		return notion.PlainText(prop.RichText)
	}
	return ""
}

func multiSelect(page notion.Page, names []string) []string {
	prop, ok := property(page, names)
	if !ok {
		return nil
	}
	switch prop.Type {
	case "multi_select":
		values := make([]string, 0, len(prop.MultiSelect))
		for _, option := range prop.MultiSelect {
			values = append(values, option.Name)
		}
		return values
	case "select":
		if prop.Select != nil && prop.Select.Name != "" {
			return []string{prop.Select.Name}
		}
	case "status":
		if prop.Status != nil && prop.Status.Name != "" {
			return []string{prop.Status.Name}
		}
	}
	return nil
}

func dateStart(page notion.Page, names []string) string {
	prop, ok := property(page, names)
	if !ok || prop.Type != "date" || prop.Date == nil {
		return ""
	}
	return prop.Date.Start
}

func people(page notion.Page, names []string) []Author {
	prop, ok := property(page, names)
	if !ok || prop.Type != "people" {
		return nil
	}
	authors := make([]Author, 0, len(prop.People))
	for _, person := range prop.People {
		author := Author{ID: person.ID, Name: person.Name}
		if person.AvatarURL != "" {
			photo := person.AvatarURL
			author.ProfilePhoto = &photo
		}
		authors = append(authors, author)
	}
	return authors
}

func checkbox(page notion.Page, names []string) bool {
	prop, ok := property(page, names)
	if !ok || prop.Type != "checkbox" {
		return false
	}
	return prop.Checkbox
}

func firstFile(page notion.Page, names []string) string {
	prop, ok := property(page, names)
	if !ok || prop.Type != "files" || len(prop.Files) == 0 {
		return ""
	}
	return prop.Files[0].URL()
}

// whitelist keeps recognized values and falls back to fallback when none remain.
func whitelist(values, allowed []string, fallback string) []string {
	filtered := make([]string, 0, len(values))
	for _, v := range values {
		if slices.Contains(allowed, v) {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		return []string{fallback}
	}
	return filtered
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
