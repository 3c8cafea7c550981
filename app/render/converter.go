package render

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lysyi3m/blog-sync/app/notion"
)

const defaultConcurrency = 4

// BlockSource lists the direct children of a page or block, following
// pagination to the end.
type BlockSource interface {
	ListBlockChildren(ctx context.Context, blockID string) ([]notion.Block, error)
}

// Converter turns a block tree into the markdown and HTML hybrid consumed by
// the site. One Converter corresponds to one conversion run; its bookmark
// cache lives as long as it does.
type Converter struct {
	source      BlockSource
	bookmarks   *BookmarkCache
	concurrency int
}

func NewConverter(source BlockSource, bookmarks *BookmarkCache) *Converter {
	return &Converter{
		source:      source,
		bookmarks:   bookmarks,
		concurrency: defaultConcurrency,
	}
}

// PageContent converts the whole content of a page. An empty page id or a
// page without blocks yields an empty string.
func (c *Converter) PageContent(ctx context.Context, pageID string) (string, error) {
	if pageID == "" {
		return "", nil
	}
	return c.children(ctx, pageID)
}

// Blocks converts a sequence of sibling blocks. Siblings are converted
// concurrently and joined in their original order.
func (c *Converter) Blocks(ctx context.Context, blocks []notion.Block) (string, error) {
	parts := make([]string, len(blocks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, block := range blocks {
		g.Go(func() error {
			md, err := c.Block(ctx, block)
			if err != nil {
				return err
			}
			parts[i] = md
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return join(blocks, parts), nil
}

// join separates blocks with a blank line, except consecutive items of the
// same list which stay on adjacent lines.
func join(blocks []notion.Block, parts []string) string {
	var b strings.Builder
	prevType := ""
	for i, part := range parts {
		if part == "" {
			continue
		}
		if b.Len() > 0 {
			if isListItem(blocks[i].Type) && blocks[i].Type == prevType {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}
		b.WriteString(part)
		prevType = blocks[i].Type
	}
	return b.String()
}

func isListItem(blockType string) bool {
	switch blockType {
	case notion.BlockBulletedListItem, notion.BlockNumberedListItem, notion.BlockToDo:
		return true
	}
	return false
}

func (c *Converter) children(ctx context.Context, blockID string) (string, error) {
	blocks, err := c.source.ListBlockChildren(ctx, blockID)
	if err != nil {
		return "", fmt.Errorf("failed to list children of %s: %w", blockID, err)
	}
	return c.Blocks(ctx, blocks)
}

func (c *Converter) childrenOf(ctx context.Context, block notion.Block) (string, error) {
	if !block.HasChildren {
		return "", nil
	}
	return c.children(ctx, block.ID)
}

// Block converts a single block, fetching its children where the kind
// renders them.
func (c *Converter) Block(ctx context.Context, block notion.Block) (string, error) {
	switch block.Type {
	case notion.BlockImage:
		return imageMarkup(block.Image), nil
	case notion.BlockCallout:
		return c.callout(ctx, block)
	case notion.BlockBookmark:
		if block.Bookmark == nil || block.Bookmark.URL == "" {
			return "", nil
		}
		return bookmarkCard(block.Bookmark, c.bookmarks.Get(ctx, block.Bookmark.URL)), nil
	case notion.BlockColumnList:
		return c.columnList(ctx, block)
	case notion.BlockColumn:
		md, err := c.children(ctx, block.ID)
		return strings.TrimSpace(md), err
	case notion.BlockTable:
		return c.table(ctx, block)
	}
	return c.generic(ctx, block)
}

func (c *Converter) callout(ctx context.Context, block notion.Block) (string, error) {
	if block.Callout == nil {
		return "", nil
	}

	head := ""
	if icon := block.Callout.Icon; icon != nil && icon.Type == "emoji" {
		head = `<span class="notion-callout-icon">` + escapeHTML(icon.Emoji) + `</span>`
	}
	if text := RichText(block.Callout.RichText); text != "" {
		head += ` <span class="notion-callout-text">` + text + `</span>`
	}

	body, err := c.childrenOf(ctx, block)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, 2)
	for _, part := range []string{head, body} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return toBlockquote(strings.Join(parts, "\n\n")), nil
}

func (c *Converter) columnList(ctx context.Context, block notion.Block) (string, error) {
	children, err := c.source.ListBlockChildren(ctx, block.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list columns of %s: %w", block.ID, err)
	}

	var columns []notion.Block
	for _, child := range children {
		if child.Type == notion.BlockColumn {
			columns = append(columns, child)
		}
	}
	if len(columns) == 0 {
		return "", nil
	}

	rendered := make([]string, len(columns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, column := range columns {
		g.Go(func() error {
			md, err := c.children(gctx, column.ID)
			if err != nil {
				return err
			}
			html, err := markdownToHTML(md)
			if err != nil {
				return err
			}
			rendered[i] = `<div class="notion-column">` + html + `</div>`
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return "<div class=\"notion-columns\">\n  " + strings.Join(rendered, "") + "\n</div>", nil
}

func (c *Converter) table(ctx context.Context, block notion.Block) (string, error) {
	rows, err := c.source.ListBlockChildren(ctx, block.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list rows of %s: %w", block.ID, err)
	}

	var lines []string
	for _, row := range rows {
		if row.Type != notion.BlockTableRow || row.TableRow == nil {
			continue
		}
		cells := make([]string, len(row.TableRow.Cells))
		for i, cell := range row.TableRow.Cells {
			cells[i] = escapeTableCell(RichText(cell))
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
		if len(lines) == 1 {
			sep := make([]string, len(cells))
			for i := range sep {
				sep[i] = "---"
			}
			lines = append(lines, "| "+strings.Join(sep, " | ")+" |")
		}
	}
	return strings.Join(lines, "\n"), nil
}
