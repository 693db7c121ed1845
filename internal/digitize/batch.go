package digitize

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"papercast/internal/logger"
	"papercast/pkg/models"
)

// ChunkProcessor runs one chunk's job lifecycle and returns its text.
type ChunkProcessor func(ctx context.Context, chunk models.Chunk) (string, error)

// Separators between merged chunk texts. Markdown gets a horizontal rule,
// everything else a comment-style page break.
const (
	markdownSeparator = "\n\n---\n\n"
	commentSeparator  = "\n\n<!-- Page Break -->\n\n"
)

// ProcessBatch fans out every chunk job at once, fans the results back in,
// and merges the successful texts in chunk order.
//
// Each chunk's outcome is captured independently: an error from one chunk
// becomes ChunkResult{Success: false} and never cancels sibling jobs.
// Completion order is immaterial; the merge sorts by chunk index. The
// returned count is the number of chunks that succeeded.
func ProcessBatch(ctx context.Context, chunks []models.Chunk, format models.OutputFormat, process ChunkProcessor) (string, int) {
	log := logger.WithComponent("batch")
	results := make([]models.ChunkResult, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk models.Chunk) {
			defer wg.Done()

			text, err := process(ctx, chunk)
			if err != nil {
				log.Error().
					Err(err).
					Int("chunk", chunk.Index+1).
					Msg("Chunk processing failed")
				results[i] = models.ChunkResult{Index: chunk.Index, Success: false}
				return
			}
			results[i] = models.ChunkResult{Index: chunk.Index, Text: text, Success: true}
		}(i, chunk)
	}
	wg.Wait()

	return MergeResults(results, format)
}

// MergeResults joins successful chunk texts in ascending chunk-index order,
// each wrapped with a human-readable chunk marker. Failed chunks contribute
// nothing. Returns the merged text and the success count.
func MergeResults(results []models.ChunkResult, format models.OutputFormat) (string, int) {
	succeeded := make([]models.ChunkResult, 0, len(results))
	for _, r := range results {
		if r.Success {
			succeeded = append(succeeded, r)
		}
	}
	sort.Slice(succeeded, func(i, j int) bool { return succeeded[i].Index < succeeded[j].Index })

	parts := make([]string, len(succeeded))
	for i, r := range succeeded {
		parts[i] = fmt.Sprintf("<!-- Chunk %d -->\n\n%s", r.Index+1, r.Text)
	}

	separator := commentSeparator
	if format == models.FormatMarkdown {
		separator = markdownSeparator
	}
	return strings.Join(parts, separator), len(succeeded)
}
