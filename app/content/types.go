package content

const (
	TypePost  = "Post"
	TypePaper = "Paper"
	TypePage  = "Page"

	StatusPrivate        = "Private"
	StatusPublic         = "Public"
	StatusPublicOnDetail = "PublicOnDetail"
)

var (
	postTypes    = []string{TypePost, TypePaper, TypePage}
	postStatuses = []string{StatusPrivate, StatusPublic, StatusPublicOnDetail}
)

type PostDate struct {
	StartDate string `json:"start_date"`
}

type Author struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ProfilePhoto *string `json:"profile_photo"`
}

// Post is the render-ready form of one database entry. Type and Status are
// never empty.
type Post struct {
	ID          string   `json:"id"`
	Date        PostDate `json:"date"`
	Type        []string `json:"type"`
	Slug        string   `json:"slug"`
	Tags        []string `json:"tags"`
	Category    []string `json:"category"`
	Summary     *string  `json:"summary"`
	Author      []Author `json:"author,omitempty"`
	Title       string   `json:"title"`
	Status      []string `json:"status"`
	CreatedTime string   `json:"createdTime"`
	FullWidth   bool     `json:"fullWidth"`
	Thumbnail   *string  `json:"thumbnail"`
}
