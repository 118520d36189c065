package docs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func memIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := NewMemoryIndex(nil)
	if err != nil {
		t.Fatalf("NewMemoryIndex: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestSearchEmptyIndexUnavailable(t *testing.T) {
	idx := memIndex(t)

	got := idx.Search(context.Background(), "volte setup")
	if got != "Error: Document index not available." {
		t.Errorf("empty index search = %q", got)
	}
}

func TestSearchReturnsFragments(t *testing.T) {
	idx := memIndex(t)

	docs := map[string]Document{
		"volte.md": {
			Title:   "VoLTE Setup",
			Content: "To enable VoLTE on Samsung devices open Settings, Connections, Mobile Networks and toggle VoLTE calls.",
		},
		"apn.md": {
			Title:   "APN Settings",
			Content: "Android APN settings for data: open Settings, Network, Access Point Names and add the carrier APN.",
		},
	}
	for id, doc := range docs {
		if err := idx.Add(id, doc); err != nil {
			t.Fatalf("Add(%s): %v", id, err)
		}
	}

	got := idx.Search(context.Background(), "how do I enable VoLTE")
	if strings.HasPrefix(got, "Error") {
		t.Fatalf("search errored: %q", got)
	}
	if !strings.Contains(got, "VoLTE") {
		t.Errorf("search result missing relevant fragment: %q", got)
	}
	if !strings.Contains(got, "VoLTE Setup:") {
		t.Errorf("fragment not labeled with title: %q", got)
	}
}

func TestSearchNoHits(t *testing.T) {
	idx := memIndex(t)
	if err := idx.Add("a.md", Document{Title: "Roaming", Content: "Activate roaming from the account portal."}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got := idx.Search(context.Background(), "zzzzqqq")
	if got != "No matching documentation found for your question." {
		t.Errorf("no-hit search = %q", got)
	}
}

func TestLoaderGlobFilter(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"volte.md":   "# VoLTE\nEnable VoLTE under mobile network settings.",
		"apn.txt":    "APN settings for Android devices.",
		"notes.json": `{"skip": true}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	idx := memIndex(t)
	loader, err := NewLoader(idx, dir, nil)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	count, err := loader.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if count != 2 {
		t.Errorf("indexed %d documents, want 2", count)
	}
	if idx.DocCount() != 2 {
		t.Errorf("DocCount = %d, want 2", idx.DocCount())
	}
}

func TestLoaderTitleFromFirstLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.md")
	if err := os.WriteFile(path, []byte("# Roaming Guide\nActivate roaming before traveling."), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	idx := memIndex(t)
	loader, err := NewLoader(idx, dir, nil)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	if _, err := loader.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	got := idx.Search(context.Background(), "roaming")
	if !strings.Contains(got, "Roaming Guide:") {
		t.Errorf("title not extracted from heading line: %q", got)
	}
}
