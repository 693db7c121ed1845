package digitize

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// JobState is the remote digitization job lifecycle state.
type JobState string

const (
	StateCreated            JobState = "Created"
	StateUploaded           JobState = "Uploaded"
	StateStarted            JobState = "Started"
	StateCompleted          JobState = "Completed"
	StatePartiallyCompleted JobState = "PartiallyCompleted"
	StateFailed             JobState = "Failed"

	// StateTimedOut is assigned locally when the poll budget runs out; the
	// remote service never reports it.
	StateTimedOut JobState = "TimedOut"
)

// Terminal reports whether no further polling should occur for this state.
func (s JobState) Terminal() bool {
	switch s {
	case StateCompleted, StatePartiallyCompleted, StateFailed, StateTimedOut:
		return true
	}
	return false
}

// Succeeded reports whether a terminal state yields usable output. A
// partially completed job still produces text for the pages that digitized.
func (s JobState) Succeeded() bool {
	return s == StateCompleted || s == StatePartiallyCompleted
}

// JobStatus is one observation of a remote job.
type JobStatus struct {
	State        JobState `json:"job_state"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

// WaitUntilTerminal polls the job at a fixed interval until it reaches a
// terminal state or the attempt budget is exhausted.
//
// A failing status call is treated as transient and does not end the loop;
// only an explicit Failed state or attempt exhaustion does. Exhaustion maps
// to StateTimedOut and ErrJobTimeout, scoped to this job alone.
func WaitUntilTerminal(ctx context.Context, job Job, interval time.Duration, maxAttempts int, log zerolog.Logger) (JobState, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		status, err := job.Status(ctx)
		if err == nil {
			if status.State.Succeeded() {
				log.Debug().
					Str("job_id", job.ID()).
					Str("state", string(status.State)).
					Int("attempts", attempt).
					Msg("Job reached terminal state")
				return status.State, nil
			}
			if status.State == StateFailed {
				return StateFailed, NewJobError("Poll", job.ID(), ErrJobFailed, status.ErrorMessage)
			}
		} else if ctx.Err() != nil {
			return StateTimedOut, NewJobError("Poll", job.ID(), ctx.Err(), "context ended while polling")
		}

		if attempt%30 == 0 {
			log.Info().
				Str("job_id", job.ID()).
				Dur("elapsed", time.Duration(attempt)*interval).
				Msg("Job still processing")
		}

		select {
		case <-ctx.Done():
			return StateTimedOut, NewJobError("Poll", job.ID(), ctx.Err(), "context ended while polling")
		case <-time.After(interval):
		}
	}

	return StateTimedOut, NewJobError("Poll", job.ID(), ErrJobTimeout,
		"poll budget exhausted after "+(time.Duration(maxAttempts)*interval).String())
}
