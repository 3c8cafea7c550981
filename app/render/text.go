package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lysyi3m/blog-sync/app/notion"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// annotate wraps the trimmed text of one run in its inline styles. The order
// of the wrappers is fixed: code, bold, italic, strikethrough, underline, color.
func annotate(text string, a notion.Annotations) string {
	content := strings.TrimSpace(text)
	if content == "" {
		return text
	}

	leading := text[:strings.Index(text, content)]
	trailing := text[len(leading)+len(content):]

	content = escapeHTML(content)
	if a.Code {
		content = "<code>" + content + "</code>"
	}
	if a.Bold {
		content = "<strong>" + content + "</strong>"
	}
	if a.Italic {
		content = "<em>" + content + "</em>"
	}
	if a.Strikethrough {
		content = "<del>" + content + "</del>"
	}
	if a.Underline {
		content = "<u>" + content + "</u>"
	}
	if a.Color != "" && a.Color != "default" {
		content = fmt.Sprintf(`<span class="notion-color-%s">%s</span>`, a.Color, content)
	}

	return leading + content + trailing
}

// RichText renders a sequence of runs as inline HTML.
func RichText(runs []notion.RichText) string {
	var b strings.Builder
	for _, run := range runs {
		var text string
		if run.Type == "equation" && run.Equation != nil {
			text = "$" + run.Equation.Expression + "$"
		} else {
			text = annotate(run.PlainText, run.Annotations)
		}

		if run.Href != "" {
			fmt.Fprintf(&b, `<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`, escapeHTML(run.Href), text)
			continue
		}
		b.WriteString(text)
	}
	return b.String()
}

func toBlockquote(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	return "> " + strings.ReplaceAll(trimmed, "\n", "\n> ")
}

var tableNewlines = regexp.MustCompile(`\n+`)

func escapeTableCell(s string) string {
	return tableNewlines.ReplaceAllString(strings.ReplaceAll(s, "|", `\|`), "<br />")
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
