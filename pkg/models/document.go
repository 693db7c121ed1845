package models

// OutputFormat is the digitization output format requested from the service.
type OutputFormat string

const (
	FormatMarkdown OutputFormat = "md"
	FormatHTML     OutputFormat = "html"
	FormatJSON     OutputFormat = "json"
)

// ParseOutputFormat maps a user-supplied format string to an OutputFormat,
// defaulting to markdown for unknown values.
func ParseOutputFormat(s string) OutputFormat {
	switch s {
	case "html":
		return FormatHTML
	case "json":
		return FormatJSON
	default:
		return FormatMarkdown
	}
}

// Extension returns the file extension used by archive entries of this format.
func (f OutputFormat) Extension() string {
	return "." + string(f)
}

// Document is a raw source document together with its page count.
// The page count is authoritative once computed and is never re-derived
// downstream.
type Document struct {
	Data      []byte
	PageCount int
}

// Chunk is a contiguous page-range sub-document written to its own file and
// processed as one independent digitization job.
type Chunk struct {
	// Index is the 0-based ordinal of the chunk within its parent document.
	Index int

	// StartPage and EndPage delimit the half-open page range [StartPage, EndPage).
	StartPage int
	EndPage   int

	// Path is the chunk's transient file, scoped to one batch request.
	Path string
}

// Pages returns the number of pages in the chunk.
func (c Chunk) Pages() int {
	return c.EndPage - c.StartPage
}

// ChunkResult is the outcome of one chunk's digitization job. The ordering
// key is Index, never completion order.
type ChunkResult struct {
	Index   int
	Text    string
	Success bool
}

// BatchResult is what a digitization request returns to its caller.
type BatchResult struct {
	// PageCount is the authoritative page count of the source document.
	PageCount int `json:"page_count"`

	// UsedBatch reports whether the document was split and processed as
	// parallel chunk jobs rather than as a single job.
	UsedBatch bool `json:"used_batch_processing"`

	// Text is the merged digitized text.
	Text string `json:"extracted_text"`

	// ChunksProcessed counts the chunks that completed successfully.
	ChunksProcessed int `json:"chunks_processed"`
}
