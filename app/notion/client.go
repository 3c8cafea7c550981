package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/lysyi3m/blog-sync/app/metrics"
)

const pageSize = 100

// ErrUnexpectedShape is returned when a list endpoint answers with something
// other than a results array, e.g. an error envelope.
var ErrUnexpectedShape = errors.New("unexpected response shape: results is not a list")

// APIError is a non-2xx answer from the Notion API.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion API error: HTTP %d", e.Status)
	}
	return fmt.Sprintf("notion API error: HTTP %d %s: %s", e.Status, e.Code, e.Message)
}

// Filter is a single property equality filter, e.g.
// {"property": "status", "select": {"equals": "Public"}}.
type Filter struct {
	Property string
	Kind     string
	Equals   string
}

func (f Filter) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"property": f.Property,
		f.Kind:     map[string]string{"equals": f.Equals},
	})
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	version    string
	userAgent  string
}

func NewClient(httpClient *http.Client, baseURL, token, version, userAgent string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		version:    version,
		userAgent:  userAgent,
	}
}

type listResponse struct {
	Results    json.RawMessage `json:"results"`
	HasMore    bool            `json:"has_more"`
	NextCursor *string         `json:"next_cursor"`
}

func (r *listResponse) items() ([]json.RawMessage, error) {
	var items []json.RawMessage
	trimmed := bytes.TrimSpace(r.Results)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrUnexpectedShape
	}
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, ErrUnexpectedShape
	}
	return items, nil
}

func (r *listResponse) cursor() string {
	if !r.HasMore || r.NextCursor == nil {
		return ""
	}
	return *r.NextCursor
}

type queryRequest struct {
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size"`
	Filter      *Filter `json:"filter,omitempty"`
}

// QueryDatabase returns every page of the database matching filter, following
// pagination cursors until the API reports no further pages. An empty
// databaseID means the integration is not configured and yields no pages.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, filter *Filter) ([]Page, error) {
	if databaseID == "" {
		return nil, nil
	}

	dataSourceID := c.ResolveDataSourceID(ctx, databaseID)

	var pages []Page
	skipped := 0
	cursor := ""

	for {
		body := queryRequest{StartCursor: cursor, PageSize: pageSize, Filter: filter}

		var resp listResponse
		if err := c.do(ctx, "query", http.MethodPost, "/data_sources/"+url.PathEscape(dataSourceID)+"/query", body, &resp); err != nil {
			return nil, err
		}

		items, err := resp.items()
		if err != nil {
			return nil, err
		}

		for _, raw := range items {
			page, ok := ParsePage(raw)
			if !ok {
				skipped++
				continue
			}
			pages = append(pages, page)
		}

		cursor = resp.cursor()
		if cursor == "" {
			break
		}
	}

	if skipped > 0 {
		metrics.NotionRecordsSkipped.Add(float64(skipped))
		slog.Warn("Skipped query results without properties", "database", databaseID, "skipped", skipped)
	}

	slog.Debug("Database queried", "database", databaseID, "data_source", dataSourceID, "pages", len(pages))

	return pages, nil
}

// ResolveDataSourceID maps a database to its first data source. Any failure
// falls back to the database id itself.
func (c *Client) ResolveDataSourceID(ctx context.Context, databaseID string) string {
	var database struct {
		DataSources []struct {
			ID string `json:"id"`
		} `json:"data_sources"`
	}

	if err := c.do(ctx, "retrieve_database", http.MethodGet, "/databases/"+url.PathEscape(databaseID), nil, &database); err != nil {
		slog.Debug("Failed to resolve data source, using database id", "database", databaseID, "error", err)
		return databaseID
	}

	if len(database.DataSources) == 0 || database.DataSources[0].ID == "" {
		return databaseID
	}

	return database.DataSources[0].ID
}

// ListBlockChildren returns all direct children of a block or page.
func (c *Client) ListBlockChildren(ctx context.Context, blockID string) ([]Block, error) {
	var blocks []Block
	cursor := ""

	for {
		query := url.Values{}
		query.Set("page_size", strconv.Itoa(pageSize))
		if cursor != "" {
			query.Set("start_cursor", cursor)
		}

		var resp listResponse
		path := "/blocks/" + url.PathEscape(blockID) + "/children?" + query.Encode()
		if err := c.do(ctx, "list_block_children", http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}

		items, err := resp.items()
		if err != nil {
			return nil, err
		}

		for _, raw := range items {
			var block Block
			if err := json.Unmarshal(raw, &block); err != nil {
				slog.Warn("Skipping undecodable block", "parent", blockID, "error", err)
				continue
			}
			blocks = append(blocks, block)
		}

		cursor = resp.cursor()
		if cursor == "" {
			break
		}
	}

	return blocks, nil
}

func (c *Client) do(ctx context.Context, operation, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.NotionRequestsTotal.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("failed to call Notion API: %w", err)
	}
	defer resp.Body.Close()

	metrics.NotionRequestsTotal.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
