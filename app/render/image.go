package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lysyi3m/blog-sync/app/notion"
)

var widthDirective = regexp.MustCompile(`(?i)\b(?:w|width)\s*[:=]\s*([\d.]+%|\d+px\b)`)

// parseImageCaption pulls a "w: 50%" or "width=320px" directive out of a caption.
func parseImageCaption(caption string) (width, cleaned string) {
	loc := widthDirective.FindStringSubmatchIndex(caption)
	if loc == nil {
		return "", strings.TrimSpace(caption)
	}
	width = caption[loc[2]:loc[3]]
	cleaned = strings.TrimSpace(caption[:loc[0]] + caption[loc[1]:])
	return width, cleaned
}

func imageMarkup(image *notion.MediaBlock) string {
	if image == nil {
		return ""
	}
	url := image.SourceURL()
	if url == "" {
		return ""
	}

	width, caption := parseImageCaption(strings.TrimSpace(notion.PlainText(image.Caption)))
	caption = escapeHTML(caption)

	style := ""
	if width != "" {
		style = fmt.Sprintf(` style="--notion-image-width:%s;"`, width)
	}
	figcaption := ""
	if caption != "" {
		figcaption = "<figcaption>" + caption + "</figcaption>"
	}

	return fmt.Sprintf("<figure class=\"notion-image\"%s>\n  <img src=\"%s\" alt=\"%s\" />\n  %s\n</figure>",
		style, escapeHTML(url), caption, figcaption)
}
