package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"papercast/pkg/models"
)

// PageRange is a half-open page interval [Start, End) assigned to one chunk.
type PageRange struct {
	Start int
	End   int
}

// ChunkRanges partitions pageCount pages into contiguous chunkSize-page
// ranges. Every page belongs to exactly one range, ranges are ordered, and
// only the final range may be shorter than chunkSize.
func ChunkRanges(pageCount, chunkSize int) []PageRange {
	if pageCount < 1 || chunkSize < 1 {
		return nil
	}
	ranges := make([]PageRange, 0, (pageCount+chunkSize-1)/chunkSize)
	for start := 0; start < pageCount; start += chunkSize {
		end := start + chunkSize
		if end > pageCount {
			end = pageCount
		}
		ranges = append(ranges, PageRange{Start: start, End: end})
	}
	return ranges
}

// Split partitions the PDF into chunkSize-page sub-documents, writing each
// one into dir as an independent file. Page content and ordering are
// preserved exactly and the source bytes are never mutated.
//
// An unparseable source is a precondition violation: the whole operation
// fails and no chunk files are produced.
func Split(data []byte, chunkSize int, dir string) ([]models.Chunk, error) {
	pageCount, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("source PDF is not splittable: %w", err)
	}

	ranges := ChunkRanges(pageCount, chunkSize)
	chunks := make([]models.Chunk, 0, len(ranges))

	for i, r := range ranges {
		var buf bytes.Buffer
		// pdfcpu page selections are 1-based and inclusive.
		selection := []string{fmt.Sprintf("%d-%d", r.Start+1, r.End)}
		if err := api.Trim(bytes.NewReader(data), &buf, selection, nil); err != nil {
			return nil, fmt.Errorf("failed to extract pages %d-%d: %w", r.Start+1, r.End, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("chunk_%03d.pdf", i+1))
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("failed to write chunk file %s: %w", path, err)
		}

		chunks = append(chunks, models.Chunk{
			Index:     i,
			StartPage: r.Start,
			EndPage:   r.End,
			Path:      path,
		})
	}

	return chunks, nil
}
