package api

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/blog-sync/app/content"
	"github.com/lysyi3m/blog-sync/app/database"
	"github.com/lysyi3m/blog-sync/app/deploy"
	"github.com/lysyi3m/blog-sync/app/render"
	"github.com/lysyi3m/blog-sync/app/tasks"
)

const (
	deploySource    = "admin"
	defaultRunLimit = 20
	maxRunLimit     = 200
)

func NewHandler(deps Deps) *Handler {
	return &Handler{
		notion:     deps.Notion,
		databaseID: deps.DatabaseID,
		mapper:     deps.Mapper,
		bookmarks:  deps.Bookmarks,
		generator:  deps.Generator,
		hook:       deps.Hook,
		password:   deps.DeployPassword,
		runRepo:    deps.Runs,
		scheduler:  deps.Scheduler,
		version:    deps.Version,
	}
}

// Deploy fires the deploy hook for a caller holding the shared secret. A
// delivered call answers ok even when the build service rejected it.
func (h *Handler) Deploy(c *gin.Context) {
	var req DeployRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.Debug("Deploy request without readable body", "error", err)
	}

	if !h.authorized(req.Password) {
		c.JSON(http.StatusUnauthorized, DeployResponse{OK: false})
		return
	}

	err := h.hook.Fire(c.Request.Context(), deploySource)

	var statusErr *deploy.StatusError
	switch {
	case err == nil:
	case errors.As(err, &statusErr):
		slog.Warn("Deploy hook rejected the call", "status", statusErr.StatusCode)
	default:
		slog.Error("Failed to call deploy hook", "error", err)
		c.JSON(http.StatusBadGateway, DeployResponse{OK: false})
		return
	}

	c.JSON(http.StatusOK, DeployResponse{OK: true})
}

func (h *Handler) authorized(password string) bool {
	secret := strings.TrimSpace(h.password)
	if secret == "" {
		return false
	}
	provided := strings.TrimSpace(password)
	return subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) == 1
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	if h.runRepo != nil {
		if count, err := h.runRepo.CountRuns(); err == nil {
			health["runs"] = count
		}
		if runs, err := h.runRepo.ListRuns(1); err == nil && len(runs) > 0 {
			health["last_run"] = toRunResponse(runs[0])
		}
	}

	c.JSON(http.StatusOK, health)
}

// posts loads and maps every database entry, newest first.
func (h *Handler) posts(c *gin.Context) ([]content.Post, bool) {
	pages, err := h.notion.QueryDatabase(c.Request.Context(), h.databaseID, nil)
	if err != nil {
		slog.Error("Failed to query posts", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to query posts"})
		return nil, false
	}
	return h.mapper.MapAll(pages), true
}

func (h *Handler) ListPosts(c *gin.Context) {
	all, ok := h.posts(c)
	if !ok {
		return
	}

	listed := content.Filter(all, content.ListFilter)
	c.JSON(http.StatusOK, gin.H{
		"posts": listed,
		"total": len(listed),
	})
}

func (h *Handler) GetPost(c *gin.Context) {
	slug := c.Param("slug")

	all, ok := h.posts(c)
	if !ok {
		return
	}

	post, found := content.FindBySlug(all, slug)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	converter := render.NewConverter(h.notion, render.NewBookmarkCache(h.bookmarks))
	md, err := converter.PageContent(c.Request.Context(), post.ID)
	if err != nil {
		slog.Error("Failed to convert page content", "post", post.ID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load post content"})
		return
	}

	html, err := render.HTML(md)
	if err != nil {
		slog.Error("Failed to render page content", "post", post.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render post content"})
		return
	}

	c.JSON(http.StatusOK, PostDetail{Post: post, Content: md, HTML: html})
}

func (h *Handler) GetFeed(c *gin.Context) {
	all, ok := h.posts(c)
	if !ok {
		return
	}

	listed := content.Filter(all, content.ListFilter)
	rss, err := h.generator.Run(listed)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(listed)))
	c.String(http.StatusOK, rss)
}

func (h *Handler) APIListRuns(c *gin.Context) {
	if h.runRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Run history is disabled"})
		return
	}

	limit := defaultRunLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = min(parsed, maxRunLimit)
	}

	runs, err := h.runRepo.ListRuns(limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	response := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		response = append(response, toRunResponse(run))
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  response,
		"total": len(response),
	})
}

func (h *Handler) APITriggerSync(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scheduler is not running"})
		return
	}

	id, err := h.scheduler.TriggerSync(tasks.SourceAPI)
	if err != nil {
		slog.Error("Error enqueueing sync task", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue sync task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"task": gin.H{
			"id":   id,
			"type": tasks.TaskTypeSyncContent,
		},
	})
}

func toRunResponse(run database.Run) RunResponse {
	return RunResponse{
		ID:         run.ID,
		Source:     run.Source,
		Outcome:    run.Outcome,
		Fetched:    run.Fetched,
		New:        run.NewCount,
		Updated:    run.Updated,
		Deployed:   run.Deployed,
		Error:      run.Error,
		StartedAt:  run.StartedAt.In(time.Local).Format(time.RFC3339),
		FinishedAt: run.FinishedAt.In(time.Local).Format(time.RFC3339),
		Duration:   run.Duration().String(),
	}
}
