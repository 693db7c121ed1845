package digitize

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"papercast/pkg/models"
)

// stubJob feeds a scripted sequence of status observations to the poll loop.
type stubJob struct {
	id       string
	statuses []JobStatus
	errs     []error
	calls    int

	uploadErr   error
	startErr    error
	downloadErr error
	archive     []byte

	uploaded bool
	started  bool
}

func (j *stubJob) ID() string { return j.id }

func (j *stubJob) Upload(ctx context.Context, path string) error {
	j.uploaded = true
	return j.uploadErr
}

func (j *stubJob) Start(ctx context.Context) error {
	j.started = true
	return j.startErr
}

func (j *stubJob) Status(ctx context.Context) (JobStatus, error) {
	i := j.calls
	if i >= len(j.statuses) {
		i = len(j.statuses) - 1
	}
	j.calls++
	if j.errs != nil && j.errs[i] != nil {
		return JobStatus{}, j.errs[i]
	}
	return j.statuses[i], nil
}

func (j *stubJob) Download(ctx context.Context) ([]byte, error) {
	return j.archive, j.downloadErr
}

// stubClient hands out pre-built jobs in order.
type stubClient struct {
	jobs      []*stubJob
	created   int
	createErr error
}

func (c *stubClient) CreateJob(ctx context.Context, language string, format models.OutputFormat) (Job, error) {
	if c.createErr != nil {
		return nil, c.createErr
	}
	job := c.jobs[c.created]
	c.created++
	return job, nil
}

func TestJobState_Terminal(t *testing.T) {
	cases := []struct {
		state    JobState
		terminal bool
		success  bool
	}{
		{StateCreated, false, false},
		{StateUploaded, false, false},
		{StateStarted, false, false},
		{StateCompleted, true, true},
		{StatePartiallyCompleted, true, true},
		{StateFailed, true, false},
		{StateTimedOut, true, false},
	}

	for _, tc := range cases {
		if got := tc.state.Terminal(); got != tc.terminal {
			t.Errorf("%s.Terminal() = %v, want %v", tc.state, got, tc.terminal)
		}
		if got := tc.state.Succeeded(); got != tc.success {
			t.Errorf("%s.Succeeded() = %v, want %v", tc.state, got, tc.success)
		}
	}
}

func TestWaitUntilTerminal_Completes(t *testing.T) {
	job := &stubJob{id: "job-1", statuses: []JobStatus{
		{State: StateStarted},
		{State: StateStarted},
		{State: StateCompleted},
	}}

	state, err := WaitUntilTerminal(context.Background(), job, time.Millisecond, 10, zerolog.Nop())
	if err != nil {
		t.Fatalf("WaitUntilTerminal failed: %v", err)
	}
	if state != StateCompleted {
		t.Errorf("state = %s, want %s", state, StateCompleted)
	}
	if job.calls != 3 {
		t.Errorf("status calls = %d, want 3", job.calls)
	}
}

func TestWaitUntilTerminal_PartiallyCompletedIsSuccess(t *testing.T) {
	job := &stubJob{id: "job-1", statuses: []JobStatus{
		{State: StatePartiallyCompleted},
	}}

	state, err := WaitUntilTerminal(context.Background(), job, time.Millisecond, 10, zerolog.Nop())
	if err != nil {
		t.Fatalf("WaitUntilTerminal failed: %v", err)
	}
	if state != StatePartiallyCompleted {
		t.Errorf("state = %s, want %s", state, StatePartiallyCompleted)
	}
}

func TestWaitUntilTerminal_Failed(t *testing.T) {
	job := &stubJob{id: "job-1", statuses: []JobStatus{
		{State: StateStarted},
		{State: StateFailed, ErrorMessage: "page 3 unreadable"},
	}}

	state, err := WaitUntilTerminal(context.Background(), job, time.Millisecond, 10, zerolog.Nop())
	if !errors.Is(err, ErrJobFailed) {
		t.Fatalf("err = %v, want ErrJobFailed", err)
	}
	if state != StateFailed {
		t.Errorf("state = %s, want %s", state, StateFailed)
	}
}

func TestWaitUntilTerminal_TransientErrorsIgnored(t *testing.T) {
	transient := errors.New("connection reset")
	job := &stubJob{
		id:       "job-1",
		statuses: []JobStatus{{}, {}, {State: StateCompleted}},
		errs:     []error{transient, transient, nil},
	}

	state, err := WaitUntilTerminal(context.Background(), job, time.Millisecond, 10, zerolog.Nop())
	if err != nil {
		t.Fatalf("WaitUntilTerminal failed: %v", err)
	}
	if state != StateCompleted {
		t.Errorf("state = %s, want %s", state, StateCompleted)
	}
}

func TestWaitUntilTerminal_Timeout(t *testing.T) {
	job := &stubJob{id: "job-1", statuses: []JobStatus{{State: StateStarted}}}

	state, err := WaitUntilTerminal(context.Background(), job, time.Millisecond, 5, zerolog.Nop())
	if !errors.Is(err, ErrJobTimeout) {
		t.Fatalf("err = %v, want ErrJobTimeout", err)
	}
	if state != StateTimedOut {
		t.Errorf("state = %s, want %s", state, StateTimedOut)
	}
	if job.calls != 5 {
		t.Errorf("status calls = %d, want 5", job.calls)
	}
}
