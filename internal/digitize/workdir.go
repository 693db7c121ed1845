package digitize

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Workdir is a request-scoped working directory for transient chunk files.
// It must not outlive the request: callers defer Cleanup on every exit path.
type Workdir struct {
	path string
}

// NewWorkdir creates a uniquely named directory under the system temp dir.
func NewWorkdir() (*Workdir, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("papercast_%s", uuid.NewString()))
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}
	return &Workdir{path: path}, nil
}

// Path returns the directory path.
func (w *Workdir) Path() string {
	return w.path
}

// File returns the path of a file inside the directory.
func (w *Workdir) File(name string) string {
	return filepath.Join(w.path, name)
}

// Cleanup removes the directory and everything in it. Cleanup errors are
// logged and swallowed, never surfaced to the caller.
func (w *Workdir) Cleanup(log zerolog.Logger) {
	if err := os.RemoveAll(w.path); err != nil {
		log.Warn().Err(err).Str("dir", w.path).Msg("Failed to remove working directory")
	}
}
