package notion

import (
	"encoding/json"
	"strings"
)

type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

type RichText struct {
	Type        string      `json:"type"`
	PlainText   string      `json:"plain_text"`
	Href        string      `json:"href"`
	Annotations Annotations `json:"annotations"`
	Equation    *Equation   `json:"equation,omitempty"`
}

type Equation struct {
	Expression string `json:"expression"`
}

// PlainText concatenates the plain text of every run.
func PlainText(runs []RichText) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.PlainText)
	}
	return b.String()
}

type FileURL struct {
	URL string `json:"url"`
}

// File is a hosted or external file reference. Type selects which of
// External and File is set.
type File struct {
	Type     string   `json:"type"`
	Name     string   `json:"name,omitempty"`
	External *FileURL `json:"external,omitempty"`
	File     *FileURL `json:"file,omitempty"`
}

func (f *File) URL() string {
	if f == nil {
		return ""
	}
	if f.Type == "external" {
		if f.External != nil {
			return f.External.URL
		}
		return ""
	}
	if f.File != nil {
		return f.File.URL
	}
	return ""
}

type Option struct {
	Name string `json:"name"`
}

type Person struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type DateValue struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

type Property struct {
	Type        string     `json:"type"`
	Title       []RichText `json:"title"`
	RichText    []RichText `json:"rich_text"`
	Select      *Option    `json:"select"`
	Status      *Option    `json:"status"`
	MultiSelect []Option   `json:"multi_select"`
	Date        *DateValue `json:"date"`
	People      []Person   `json:"people"`
	Checkbox    bool       `json:"checkbox"`
	Files       []File     `json:"files"`
}

// Page is one database entry.
type Page struct {
	ID             string              `json:"id"`
	CreatedTime    string              `json:"created_time"`
	LastEditedTime string              `json:"last_edited_time"`
	Cover          *File               `json:"cover"`
	Properties     map[string]Property `json:"properties"`
}

// ParsePage decodes one query result. The second return value is false when
// the record is not a page with a property container and must be skipped.
func ParsePage(raw json.RawMessage) (Page, bool) {
	var page Page
	if err := json.Unmarshal(raw, &page); err != nil {
		return Page{}, false
	}
	if page.Properties == nil {
		return Page{}, false
	}
	return page, true
}

type TextBlock struct {
	RichText []RichText `json:"rich_text"`
	Color    string     `json:"color"`
}

type ToDoBlock struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
}

type Icon struct {
	Type     string   `json:"type"`
	Emoji    string   `json:"emoji"`
	External *FileURL `json:"external,omitempty"`
	File     *FileURL `json:"file,omitempty"`
}

type CalloutBlock struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon"`
	Color    string     `json:"color"`
}

type CodeBlock struct {
	RichText []RichText `json:"rich_text"`
	Caption  []RichText `json:"caption"`
	Language string     `json:"language"`
}

// MediaBlock covers image, video, file, pdf and embed payloads.
type MediaBlock struct {
	Type     string     `json:"type"`
	External *FileURL   `json:"external,omitempty"`
	File     *FileURL   `json:"file,omitempty"`
	URL      string     `json:"url,omitempty"`
	Caption  []RichText `json:"caption"`
}

func (m *MediaBlock) SourceURL() string {
	if m == nil {
		return ""
	}
	if m.URL != "" {
		return m.URL
	}
	f := File{Type: m.Type, External: m.External, File: m.File}
	return f.URL()
}

type BookmarkBlock struct {
	URL     string     `json:"url"`
	Caption []RichText `json:"caption"`
}

type TableBlock struct {
	TableWidth      int  `json:"table_width"`
	HasColumnHeader bool `json:"has_column_header"`
	HasRowHeader    bool `json:"has_row_header"`
}

type TableRowBlock struct {
	Cells [][]RichText `json:"cells"`
}

type ChildPageBlock struct {
	Title string `json:"title"`
}

// Block is a node of a page's content tree. Type names the populated payload.
type Block struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	HasChildren bool   `json:"has_children"`

	Paragraph        *TextBlock      `json:"paragraph,omitempty"`
	Heading1         *TextBlock      `json:"heading_1,omitempty"`
	Heading2         *TextBlock      `json:"heading_2,omitempty"`
	Heading3         *TextBlock      `json:"heading_3,omitempty"`
	BulletedListItem *TextBlock      `json:"bulleted_list_item,omitempty"`
	NumberedListItem *TextBlock      `json:"numbered_list_item,omitempty"`
	ToDo             *ToDoBlock      `json:"to_do,omitempty"`
	Toggle           *TextBlock      `json:"toggle,omitempty"`
	Quote            *TextBlock      `json:"quote,omitempty"`
	Callout          *CalloutBlock   `json:"callout,omitempty"`
	Code             *CodeBlock      `json:"code,omitempty"`
	Image            *MediaBlock     `json:"image,omitempty"`
	Video            *MediaBlock     `json:"video,omitempty"`
	File             *MediaBlock     `json:"file,omitempty"`
	PDF              *MediaBlock     `json:"pdf,omitempty"`
	Embed            *MediaBlock     `json:"embed,omitempty"`
	Bookmark         *BookmarkBlock  `json:"bookmark,omitempty"`
	Equation         *Equation       `json:"equation,omitempty"`
	Table            *TableBlock     `json:"table,omitempty"`
	TableRow         *TableRowBlock  `json:"table_row,omitempty"`
	ChildPage        *ChildPageBlock `json:"child_page,omitempty"`
}

const (
	BlockParagraph        = "paragraph"
	BlockHeading1         = "heading_1"
	BlockHeading2         = "heading_2"
	BlockHeading3         = "heading_3"
	BlockBulletedListItem = "bulleted_list_item"
	BlockNumberedListItem = "numbered_list_item"
	BlockToDo             = "to_do"
	BlockToggle           = "toggle"
	BlockQuote            = "quote"
	BlockCallout          = "callout"
	BlockCode             = "code"
	BlockImage            = "image"
	BlockVideo            = "video"
	BlockFile             = "file"
	BlockPDF              = "pdf"
	BlockEmbed            = "embed"
	BlockBookmark         = "bookmark"
	BlockEquation         = "equation"
	BlockDivider          = "divider"
	BlockTable            = "table"
	BlockTableRow         = "table_row"
	BlockColumnList       = "column_list"
	BlockColumn           = "column"
	BlockChildPage        = "child_page"
)
