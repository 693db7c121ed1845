package digitize

import (
	"archive/zip"
	"bytes"
	"testing"

	"papercast/pkg/models"
)

func buildArchive(t *testing.T, entries map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range order {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(entries[name])); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestExtractArchiveText_MatchingEntriesInOrder(t *testing.T) {
	archive := buildArchive(t, map[string]string{
		"page_0001.md":   "# First\n",
		"metrics.json":   `{"pages": 2}`,
		"page_0002.md":   "# Second\n",
		"page_0001.html": "<h1>ignored</h1>",
	}, []string{"page_0001.md", "metrics.json", "page_0002.md", "page_0001.html"})

	text, err := ExtractArchiveText(archive, models.FormatMarkdown)
	if err != nil {
		t.Fatalf("ExtractArchiveText failed: %v", err)
	}
	if text != "# First\n# Second\n" {
		t.Errorf("text = %q, want concatenated md entries", text)
	}
}

func TestExtractArchiveText_FormatFilter(t *testing.T) {
	archive := buildArchive(t, map[string]string{
		"out.md":   "markdown",
		"out.html": "<p>html</p>",
	}, []string{"out.md", "out.html"})

	text, err := ExtractArchiveText(archive, models.FormatHTML)
	if err != nil {
		t.Fatalf("ExtractArchiveText failed: %v", err)
	}
	if text != "<p>html</p>" {
		t.Errorf("text = %q, want html entry only", text)
	}
}

func TestExtractArchiveText_NoMatchingEntries(t *testing.T) {
	archive := buildArchive(t, map[string]string{"notes.txt": "hi"}, []string{"notes.txt"})

	text, err := ExtractArchiveText(archive, models.FormatMarkdown)
	if err != nil {
		t.Fatalf("ExtractArchiveText failed: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}

func TestExtractArchiveText_InvalidZip(t *testing.T) {
	if _, err := ExtractArchiveText([]byte("not a zip"), models.FormatMarkdown); err == nil {
		t.Fatal("expected error for invalid archive")
	}
}
