package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/lysyi3m/blog-sync/app/content"
	"github.com/lysyi3m/blog-sync/app/site"
)

// Generator writes the RSS 2.0 document for the blog's listed posts.
type Generator struct {
	site    *site.Config
	version string
}

func NewGenerator(siteCfg *site.Config, version string) *Generator {
	return &Generator{site: siteCfg, version: version}
}

// Run expects posts already filtered and sorted newest first.
func (g *Generator) Run(posts []content.Post) (string, error) {
	var buf bytes.Buffer
	base := strings.TrimRight(g.site.Link, "/")

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", g.site.Title, 4)
	g.writeElement(&buf, "link", g.site.Link, 4)
	g.writeElement(&buf, "description", cmp.Or(g.site.Description, g.site.Title), 4)

	if base != "" {
		fmt.Fprintf(&buf, "    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(base+"/feed.xml"))
	}

	lastBuildDate := time.Now().In(time.Local)
	if len(posts) > 0 {
		if published := posts[0].PublishedAt(); !published.IsZero() {
			lastBuildDate = published
		}
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("blog-sync/%s", g.version), 4)
	g.writeElement(&buf, "language", g.site.Lang, 4)

	for _, post := range posts {
		g.writeItem(&buf, base, post)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, base string, post content.Post) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(post.ID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", post.Title, 6)

	if base != "" {
		g.writeElement(buf, "link", base+"/"+cmp.Or(post.Slug, post.ID), 6)
	}

	description := "No description available"
	if post.Summary != nil && *post.Summary != "" {
		description = *post.Summary
	}
	g.writeElement(buf, "description", description, 6)

	if published := post.PublishedAt(); !published.IsZero() {
		g.writeElement(buf, "pubDate", published.Format(time.RFC1123Z), 6)
	}

	author := g.site.Author
	if len(post.Author) > 0 && post.Author[0].Name != "" {
		author = post.Author[0].Name
	}
	g.writeElement(buf, "author", author, 6)

	for _, category := range append(append([]string{}, post.Category...), post.Tags...) {
		g.writeElement(buf, "category", category, 6)
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
