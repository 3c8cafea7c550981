package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/lysyi3m/blog-sync/app/metrics"
)

var ErrNotConfigured = errors.New("deploy hook URL is not configured")

// Hook calls a build service's deploy webhook. Requests are never retried.
type Hook struct {
	httpClient *http.Client
	url        string
	userAgent  string
}

func NewHook(httpClient *http.Client, url, userAgent string) *Hook {
	return &Hook{
		httpClient: httpClient,
		url:        url,
		userAgent:  userAgent,
	}
}

// Fire issues exactly one empty POST. source labels the caller in metrics.
func (h *Hook) Fire(ctx context.Context, source string) error {
	if h.url == "" {
		metrics.DeployTriggersTotal.WithLabelValues(source, "not_configured").Inc()
		return ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, nil)
	if err != nil {
		metrics.DeployTriggersTotal.WithLabelValues(source, "error").Inc()
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		metrics.DeployTriggersTotal.WithLabelValues(source, "error").Inc()
		return fmt.Errorf("failed to call deploy hook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.DeployTriggersTotal.WithLabelValues(source, "rejected").Inc()
		return &StatusError{StatusCode: resp.StatusCode}
	}

	metrics.DeployTriggersTotal.WithLabelValues(source, "ok").Inc()
	slog.Info("Deploy hook called", "source", source, "status", resp.StatusCode)

	return nil
}

// StatusError reports a hook call that was delivered but answered with a
// non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("deploy hook answered HTTP %d", e.StatusCode)
}
