package digitize

import (
	"errors"
	"fmt"
)

// Common digitization errors
var (
	// ErrMissingAPIKey is returned when no API subscription key is configured.
	ErrMissingAPIKey = errors.New("missing API subscription key")

	// ErrJobFailed is returned when the remote service reports a job as Failed.
	ErrJobFailed = errors.New("digitization job failed")

	// ErrJobTimeout is returned when a job's poll budget is exhausted before
	// it reaches a terminal state.
	ErrJobTimeout = errors.New("digitization job timed out")

	// ErrInvalidPDF is returned when the source bytes are not a processable PDF.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	// ErrNoChunksSucceeded is returned when every chunk of a batch failed and
	// the merge would yield empty text.
	ErrNoChunksSucceeded = errors.New("no chunks were digitized successfully")

	// ErrUnexpectedStatus is returned for unexpected HTTP responses from the
	// digitization service.
	ErrUnexpectedStatus = errors.New("unexpected response from digitization service")
)

// JobError wraps errors with context about which job lifecycle step failed.
type JobError struct {
	// Op is the lifecycle step that failed (e.g., "CreateJob", "Upload", "Start").
	Op string

	// JobID is the remote job identifier, if one was assigned.
	JobID string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *JobError) Error() string {
	switch {
	case e.Details != "" && e.JobID != "":
		return fmt.Sprintf("digitize: %s failed (job: %s): %s: %v", e.Op, e.JobID, e.Details, e.Err)
	case e.Details != "":
		return fmt.Sprintf("digitize: %s failed: %s: %v", e.Op, e.Details, e.Err)
	case e.JobID != "":
		return fmt.Sprintf("digitize: %s failed (job: %s): %v", e.Op, e.JobID, e.Err)
	default:
		return fmt.Sprintf("digitize: %s failed: %v", e.Op, e.Err)
	}
}

// Unwrap returns the underlying error for error unwrapping.
func (e *JobError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *JobError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewJobError creates a new JobError for the given lifecycle step.
func NewJobError(op, jobID string, err error, details string) *JobError {
	return &JobError{Op: op, JobID: jobID, Err: err, Details: details}
}
