package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func strPtr(s string) *string {
	return &s
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "published.json"))

	snap := store.Load()
	if snap == nil {
		t.Fatal("Expected non-nil snapshot")
	}
	if len(snap) != 0 {
		t.Errorf("Expected empty snapshot, got %d entries", len(snap))
	}
}

func TestLoadMalformedFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{{{"},
		{"wrong pages type", `{"pages": ["a", "b"]}`},
		{"wrong pageIds type", `{"pageIds": {"a": 1}}`},
		{"array root", `["a"]`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "published.json")
			writeFile(t, path, tt.content)

			snap := NewStore(path).Load()
			if len(snap) != 0 {
				t.Errorf("Expected empty snapshot, got %v", snap)
			}
		})
	}
}

func TestLoadLegacyFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "published.json")
	writeFile(t, path, `{"pageIds": ["a", "b"]}`)

	snap := NewStore(path).Load()

	if len(snap) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(snap))
	}
	for _, id := range []string{"a", "b"} {
		marker, ok := snap[id]
		if !ok {
			t.Errorf("Expected id '%s' in snapshot", id)
		}
		if marker != nil {
			t.Errorf("Expected nil marker for legacy id '%s', got '%s'", id, *marker)
		}
	}
}

func TestLoadCurrentFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "published.json")
	writeFile(t, path, `{"pages": {"a": "2024-01-01T00:00:00.000Z", "b": null}}`)

	snap := NewStore(path).Load()

	if snap["a"] == nil || *snap["a"] != "2024-01-01T00:00:00.000Z" {
		t.Errorf("Expected marker for 'a', got %v", snap["a"])
	}
	if marker, ok := snap["b"]; !ok || marker != nil {
		t.Errorf("Expected 'b' present with nil marker")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "published.json")
	store := NewStore(path)

	snap := Snapshot{
		"a": strPtr("2024-06-01T10:00:00.000Z"),
		"b": nil,
	}

	if err := store.Save(snap); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"pages"`) {
		t.Errorf("Expected pages key in saved file, got %s", data)
	}
	if strings.Contains(string(data), "pageIds") {
		t.Errorf("Expected legacy key to be dropped, got %s", data)
	}

	loaded := store.Load()
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(loaded))
	}
	if loaded["a"] == nil || *loaded["a"] != "2024-06-01T10:00:00.000Z" {
		t.Errorf("Expected marker for 'a' to survive round trip")
	}
	if loaded["b"] != nil {
		t.Errorf("Expected nil marker for 'b'")
	}
}

func TestSaveReplacesLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "published.json")
	writeFile(t, path, `{"pageIds": ["old"]}`)
	store := NewStore(path)

	if err := store.Save(Snapshot{"new": strPtr("2024-01-01")}); err != nil {
		t.Fatal(err)
	}

	loaded := store.Load()
	if _, ok := loaded["old"]; ok {
		t.Error("Expected old entry to be replaced")
	}
	if _, ok := loaded["new"]; !ok {
		t.Error("Expected new entry to be present")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected no leftover temp files, got %d entries", len(entries))
	}
}
