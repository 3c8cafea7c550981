package api

import (
	"context"

	"github.com/lysyi3m/blog-sync/app/content"
	"github.com/lysyi3m/blog-sync/app/database"
	"github.com/lysyi3m/blog-sync/app/feed"
	"github.com/lysyi3m/blog-sync/app/notion"
	"github.com/lysyi3m/blog-sync/app/render"
	"github.com/lysyi3m/blog-sync/app/tasks"
)

type GeneratorInterface interface {
	Run(posts []content.Post) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

// NotionSource is the part of the Notion client the handlers use.
type NotionSource interface {
	tasks.ContentSource
	render.BlockSource
}

var _ NotionSource = (*notion.Client)(nil)

type DeployTrigger interface {
	Fire(ctx context.Context, source string) error
}

// Deps wires the handler. Runs and Scheduler may be nil.
type Deps struct {
	Notion         NotionSource
	DatabaseID     string
	Mapper         *content.Mapper
	Bookmarks      *render.BookmarkFetcher
	Generator      GeneratorInterface
	Hook           DeployTrigger
	DeployPassword string
	Runs           database.RunRepository
	Scheduler      tasks.TaskSchedulerInterface
	Version        string
}

type Handler struct {
	notion     NotionSource
	databaseID string
	mapper     *content.Mapper
	bookmarks  *render.BookmarkFetcher
	generator  GeneratorInterface
	hook       DeployTrigger
	password   string
	runRepo    database.RunRepository
	scheduler  tasks.TaskSchedulerInterface
	version    string
}

type DeployRequest struct {
	Password string `json:"password" form:"password"`
}

type DeployResponse struct {
	OK bool `json:"ok"`
}

type PostDetail struct {
	Post    content.Post `json:"post"`
	Content string       `json:"content"`
	HTML    string       `json:"html"`
}

type RunResponse struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	Outcome    string `json:"outcome"`
	Fetched    int    `json:"fetched"`
	New        int    `json:"new"`
	Updated    int    `json:"updated"`
	Deployed   bool   `json:"deployed"`
	Error      string `json:"error,omitempty"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
	Duration   string `json:"duration"`
}
