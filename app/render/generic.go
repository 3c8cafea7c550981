package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/lysyi3m/blog-sync/app/notion"
)

const listIndent = "    "

func (c *Converter) generic(ctx context.Context, block notion.Block) (string, error) {
	// Sub-pages render as their title only.
	if block.Type == notion.BlockChildPage {
		if block.ChildPage == nil {
			return "", nil
		}
		return "## " + escapeHTML(block.ChildPage.Title), nil
	}

	children, err := c.childrenOf(ctx, block)
	if err != nil {
		return "", err
	}

	switch block.Type {
	case notion.BlockParagraph:
		return withChildren(textOf(block.Paragraph), children, ""), nil
	case notion.BlockHeading1:
		return heading("#", block.Heading1, children), nil
	case notion.BlockHeading2:
		return heading("##", block.Heading2, children), nil
	case notion.BlockHeading3:
		return heading("###", block.Heading3, children), nil
	case notion.BlockBulletedListItem:
		return withChildren("- "+textOf(block.BulletedListItem), children, listIndent), nil
	case notion.BlockNumberedListItem:
		return withChildren("1. "+textOf(block.NumberedListItem), children, listIndent), nil
	case notion.BlockToDo:
		if block.ToDo == nil {
			return "", nil
		}
		box := "[ ]"
		if block.ToDo.Checked {
			box = "[x]"
		}
		return withChildren("- "+box+" "+RichText(block.ToDo.RichText), children, listIndent), nil
	case notion.BlockQuote:
		return toBlockquote(withChildren(textOf(block.Quote), children, "")), nil
	case notion.BlockToggle:
		summary := textOf(block.Toggle)
		if children == "" {
			return "<details><summary>" + summary + "</summary></details>", nil
		}
		return "<details><summary>" + summary + "</summary>\n\n" + children + "\n\n</details>", nil
	case notion.BlockCode:
		if block.Code == nil {
			return "", nil
		}
		return "```" + block.Code.Language + "\n" + notion.PlainText(block.Code.RichText) + "\n```", nil
	case notion.BlockEquation:
		if block.Equation == nil {
			return "", nil
		}
		return "$$\n" + block.Equation.Expression + "\n$$", nil
	case notion.BlockDivider:
		return "---", nil
	case notion.BlockVideo:
		return mediaLink("video", block.Video), nil
	case notion.BlockFile:
		return mediaLink("file", block.File), nil
	case notion.BlockPDF:
		return mediaLink("pdf", block.PDF), nil
	case notion.BlockEmbed:
		return mediaLink("embed", block.Embed), nil
	}
	return children, nil
}

func textOf(block *notion.TextBlock) string {
	if block == nil {
		return ""
	}
	return RichText(block.RichText)
}

func heading(marker string, block *notion.TextBlock, children string) string {
	text := textOf(block)
	if text == "" {
		return children
	}
	return withChildren(marker+" "+text, children, "")
}

func withChildren(head, children, prefix string) string {
	if children == "" {
		return head
	}
	if prefix == "" {
		if head == "" {
			return children
		}
		return head + "\n\n" + children
	}
	return head + "\n" + indent(children, prefix)
}

func mediaLink(label string, media *notion.MediaBlock) string {
	url := media.SourceURL()
	if url == "" {
		return ""
	}
	if caption := strings.TrimSpace(notion.PlainText(media.Caption)); caption != "" {
		label = caption
	}
	return fmt.Sprintf("[%s](%s)", label, url)
}
