package deploy

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestFirePostsOnce(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if len(body) != 0 {
			t.Errorf("Expected empty body, got %q", body)
		}
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("Expected user agent 'test-agent', got '%s'", r.Header.Get("User-Agent"))
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	hook := NewHook(server.Client(), server.URL, "test-agent")
	if err := hook.Fire(context.Background(), "test"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if calls.Load() != 1 {
		t.Errorf("Expected exactly 1 call, got %d", calls.Load())
	}
}

func TestFireDoesNotRetryOnFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	hook := NewHook(server.Client(), server.URL, "test-agent")
	err := hook.Fire(context.Background(), "test")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected StatusError, got: %v", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", statusErr.StatusCode)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected exactly 1 call, got %d", calls.Load())
	}
}

func TestFireNotConfigured(t *testing.T) {
	hook := NewHook(http.DefaultClient, "", "test-agent")

	if err := hook.Fire(context.Background(), "test"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got: %v", err)
	}
}
