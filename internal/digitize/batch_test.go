package digitize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"papercast/pkg/models"
)

func testChunks(n int) []models.Chunk {
	chunks := make([]models.Chunk, n)
	for i := range chunks {
		chunks[i] = models.Chunk{Index: i, StartPage: i * 5, EndPage: (i + 1) * 5}
	}
	return chunks
}

func TestProcessBatch_OneChunkFails(t *testing.T) {
	chunks := testChunks(3)

	merged, succeeded := ProcessBatch(context.Background(), chunks, models.FormatMarkdown,
		func(ctx context.Context, chunk models.Chunk) (string, error) {
			if chunk.Index == 1 {
				return "", errors.New("start rejected")
			}
			return fmt.Sprintf("text-%d", chunk.Index), nil
		})

	if succeeded != 2 {
		t.Errorf("succeeded = %d, want 2", succeeded)
	}
	if !strings.Contains(merged, "<!-- Chunk 1 -->") || !strings.Contains(merged, "<!-- Chunk 3 -->") {
		t.Errorf("merged missing surviving chunk markers: %q", merged)
	}
	if strings.Contains(merged, "<!-- Chunk 2 -->") {
		t.Errorf("merged contains failed chunk marker: %q", merged)
	}
	if strings.Index(merged, "<!-- Chunk 1 -->") > strings.Index(merged, "<!-- Chunk 3 -->") {
		t.Errorf("chunk markers out of order: %q", merged)
	}
}

func TestProcessBatch_OrderRestoredDespiteCompletionOrder(t *testing.T) {
	const n = 6
	chunks := testChunks(n)

	// Earlier chunks finish last.
	merged, succeeded := ProcessBatch(context.Background(), chunks, models.FormatMarkdown,
		func(ctx context.Context, chunk models.Chunk) (string, error) {
			time.Sleep(time.Duration(n-chunk.Index) * 5 * time.Millisecond)
			return fmt.Sprintf("text-%d", chunk.Index), nil
		})

	if succeeded != n {
		t.Fatalf("succeeded = %d, want %d", succeeded, n)
	}

	last := -1
	for i := 1; i <= n; i++ {
		pos := strings.Index(merged, fmt.Sprintf("<!-- Chunk %d -->", i))
		if pos < 0 {
			t.Fatalf("marker for chunk %d missing: %q", i, merged)
		}
		if pos < last {
			t.Errorf("marker for chunk %d appears before its predecessor", i)
		}
		last = pos
	}
}

func TestProcessBatch_AllFail(t *testing.T) {
	merged, succeeded := ProcessBatch(context.Background(), testChunks(4), models.FormatMarkdown,
		func(ctx context.Context, chunk models.Chunk) (string, error) {
			return "", errors.New("boom")
		})

	if succeeded != 0 {
		t.Errorf("succeeded = %d, want 0", succeeded)
	}
	if merged != "" {
		t.Errorf("merged = %q, want empty", merged)
	}
}

func TestMergeResults_Separators(t *testing.T) {
	results := []models.ChunkResult{
		{Index: 0, Text: "a", Success: true},
		{Index: 1, Text: "b", Success: true},
	}

	md, _ := MergeResults(results, models.FormatMarkdown)
	if !strings.Contains(md, "\n\n---\n\n") {
		t.Errorf("markdown merge missing horizontal rule separator: %q", md)
	}

	html, _ := MergeResults(results, models.FormatHTML)
	if !strings.Contains(html, "\n\n<!-- Page Break -->\n\n") {
		t.Errorf("html merge missing page-break separator: %q", html)
	}
}

func TestMergeResults_SortsByIndex(t *testing.T) {
	// Completion order scrambled.
	results := []models.ChunkResult{
		{Index: 2, Text: "c", Success: true},
		{Index: 0, Text: "a", Success: true},
		{Index: 1, Text: "b", Success: true},
	}

	merged, succeeded := MergeResults(results, models.FormatMarkdown)
	if succeeded != 3 {
		t.Fatalf("succeeded = %d, want 3", succeeded)
	}
	want := "<!-- Chunk 1 -->\n\na\n\n---\n\n<!-- Chunk 2 -->\n\nb\n\n---\n\n<!-- Chunk 3 -->\n\nc"
	if merged != want {
		t.Errorf("merged = %q, want %q", merged, want)
	}
}
