// Package digitize converts PDF documents into structured text using the
// Sarvam document digitization service.
//
// The service runs asynchronous jobs: a job is created with a language and
// output format, the document is uploaded, the job is started, its status is
// polled until terminal, and the result is downloaded as a zip archive of
// digitized entries.
//
// Small documents go through a single job. Documents larger than the
// configured chunk size are split into page-range chunks, each chunk runs
// as its own job with all jobs in flight concurrently, and the per-chunk
// texts are reassembled in page order. A single failing chunk degrades the
// result instead of failing the whole request.
//
// Required Environment Variables:
//   - SARVAM_API_KEY: API subscription key for the digitization service
package digitize

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"papercast/internal/logger"
	"papercast/internal/pdf"
	"papercast/pkg/models"
)

// Digitizer creates remote digitization jobs.
type Digitizer interface {
	// CreateJob registers a new job bound to a language and output format.
	CreateJob(ctx context.Context, language string, format models.OutputFormat) (Job, error)
}

// Job is one asynchronous digitization unit of work. Lifecycle methods must
// be called in order: Upload, Start, Status (until terminal), Download.
type Job interface {
	// ID returns the remote job identifier.
	ID() string

	// Upload sends the document file to the service.
	Upload(ctx context.Context, path string) error

	// Start begins remote processing of the uploaded document.
	Start(ctx context.Context) error

	// Status fetches the job's current state.
	Status(ctx context.Context) (JobStatus, error)

	// Download fetches the result archive of a successfully completed job.
	Download(ctx context.Context) ([]byte, error)
}

// ServiceConfig holds chunking and polling knobs for the extraction service.
type ServiceConfig struct {
	// PagesPerChunk is the fixed chunk size; documents with more pages than
	// this are batch processed.
	PagesPerChunk int

	// PollInterval is the fixed delay between job status checks.
	PollInterval time.Duration

	// PollMaxAttempts bounds status checks per job; together with
	// PollInterval it forms the hard per-chunk ceiling.
	PollMaxAttempts int
}

// DefaultServiceConfig matches the service's reference behavior: 5-page
// chunks polled every 2 seconds for at most 300 attempts (~10 minutes).
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		PagesPerChunk:   5,
		PollInterval:    2 * time.Second,
		PollMaxAttempts: 300,
	}
}

// Service is the document extraction entry point.
type Service struct {
	client Digitizer
	config ServiceConfig
	log    zerolog.Logger
}

// NewService creates an extraction service on top of a job client.
func NewService(client Digitizer, config ServiceConfig) *Service {
	if config.PagesPerChunk < 1 {
		config.PagesPerChunk = 5
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 2 * time.Second
	}
	if config.PollMaxAttempts < 1 {
		config.PollMaxAttempts = 300
	}
	return &Service{
		client: client,
		config: config,
		log:    logger.WithComponent("digitize"),
	}
}

// ExtractText digitizes a PDF document. The page count decides the path:
// documents within the chunk size run as one job, larger documents are split
// and processed as parallel chunk jobs.
//
// A batch in which zero chunks succeed is an error, never an empty success.
func (s *Service) ExtractText(ctx context.Context, data []byte, language string, format models.OutputFormat) (*models.BatchResult, error) {
	pageCount := pdf.PageCount(data)
	usedBatch := pageCount > s.config.PagesPerChunk

	s.log.Info().
		Int("page_count", pageCount).
		Bool("batch", usedBatch).
		Str("language", language).
		Str("format", string(format)).
		Msg("Starting document extraction")

	if !usedBatch {
		text, err := s.extractDirect(ctx, data, language, format)
		if err != nil {
			return nil, err
		}
		return &models.BatchResult{
			PageCount:       pageCount,
			UsedBatch:       false,
			Text:            text,
			ChunksProcessed: 1,
		}, nil
	}

	text, succeeded, err := s.extractBatch(ctx, data, language, format)
	if err != nil {
		return nil, err
	}
	if succeeded == 0 {
		return nil, fmt.Errorf("batch of %d pages produced no output: %w", pageCount, ErrNoChunksSucceeded)
	}

	return &models.BatchResult{
		PageCount:       pageCount,
		UsedBatch:       true,
		Text:            text,
		ChunksProcessed: succeeded,
	}, nil
}

// extractDirect runs the whole document through a single job.
func (s *Service) extractDirect(ctx context.Context, data []byte, language string, format models.OutputFormat) (string, error) {
	wd, err := NewWorkdir()
	if err != nil {
		return "", err
	}
	defer wd.Cleanup(s.log)

	path := wd.File("document.pdf")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to stage document: %w", err)
	}

	return s.processChunk(ctx, models.Chunk{Index: 0, Path: path}, language, format)
}

// extractBatch splits the document and fans out one job per chunk.
func (s *Service) extractBatch(ctx context.Context, data []byte, language string, format models.OutputFormat) (string, int, error) {
	wd, err := NewWorkdir()
	if err != nil {
		return "", 0, err
	}
	defer wd.Cleanup(s.log)

	chunks, err := pdf.Split(data, s.config.PagesPerChunk, wd.Path())
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	s.log.Info().
		Int("chunks", len(chunks)).
		Int("pages_per_chunk", s.config.PagesPerChunk).
		Msg("Split document for batch processing")

	merged, succeeded := ProcessBatch(ctx, chunks, format, func(ctx context.Context, chunk models.Chunk) (string, error) {
		return s.processChunk(ctx, chunk, language, format)
	})
	return merged, succeeded, nil
}

// processChunk walks one chunk through the full job lifecycle: create,
// upload, start, poll to terminal, download, unpack. Any step error is
// fatal for this chunk only.
func (s *Service) processChunk(ctx context.Context, chunk models.Chunk, language string, format models.OutputFormat) (string, error) {
	log := s.log.With().Int("chunk", chunk.Index+1).Logger()

	job, err := s.client.CreateJob(ctx, language, format)
	if err != nil {
		return "", NewJobError("CreateJob", "", err, "")
	}
	log.Debug().Str("job_id", job.ID()).Msg("Job created")

	if err := job.Upload(ctx, chunk.Path); err != nil {
		return "", NewJobError("Upload", job.ID(), err, chunk.Path)
	}
	log.Debug().Str("job_id", job.ID()).Msg("Chunk uploaded")

	if err := job.Start(ctx); err != nil {
		return "", NewJobError("Start", job.ID(), err, "")
	}
	log.Debug().Str("job_id", job.ID()).Msg("Job started")

	state, err := WaitUntilTerminal(ctx, job, s.config.PollInterval, s.config.PollMaxAttempts, log)
	if err != nil {
		return "", err
	}
	log.Debug().Str("job_id", job.ID()).Str("state", string(state)).Msg("Job finished")

	archive, err := job.Download(ctx)
	if err != nil {
		return "", NewJobError("Download", job.ID(), err, "")
	}

	text, err := ExtractArchiveText(archive, format)
	if err != nil {
		return "", NewJobError("Extract", job.ID(), err, "")
	}
	return text, nil
}
