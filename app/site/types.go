package site

type Config struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Link        string       `yaml:"link"`
	Lang        string       `yaml:"lang"`
	Author      string       `yaml:"author"`
	Sync        SyncSettings `yaml:"sync"`
	Schema      Schema       `yaml:"schema"`
}

// SyncSettings selects which database entries count as published.
type SyncSettings struct {
	StatusProperty string `yaml:"status_property"`
	StatusKind     string `yaml:"status_kind"` // select or status
	StatusValue    string `yaml:"status_value"`
}

// Schema lists, per post field, the property names tried in order.
type Schema struct {
	Title     []string `yaml:"title"`
	Slug      []string `yaml:"slug"`
	Summary   []string `yaml:"summary"`
	Date      []string `yaml:"date"`
	Type      []string `yaml:"type"`
	Status    []string `yaml:"status"`
	Tags      []string `yaml:"tags"`
	Category  []string `yaml:"category"`
	Author    []string `yaml:"author"`
	Thumbnail []string `yaml:"thumbnail"`
	FullWidth []string `yaml:"full_width"`
}
