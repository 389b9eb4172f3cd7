package workspace

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Workspace allocates per-job temp file paths under a single working
// directory. Paths embed the job ID, so concurrent jobs never collide and no
// locking is needed.
type Workspace struct {
	dir string
}

// New creates a workspace rooted at dir. The directory itself is created
// lazily on the first Allocate.
func New(dir string) *Workspace {
	return &Workspace{dir: dir}
}

// Dir returns the working directory path
func (w *Workspace) Dir() string {
	return w.dir
}

// Allocate returns the input and output paths for one job. Nothing is created
// on disk besides the working directory.
func (w *Workspace) Allocate(jobID string) (inputPath, outputPath string, err error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create work directory %s: %w", w.dir, err)
	}

	inputPath = filepath.Join(w.dir, fmt.Sprintf("input_%s.mp4", jobID))
	outputPath = filepath.Join(w.dir, fmt.Sprintf("circle_%s.mp4", jobID))
	return inputPath, outputPath, nil
}

// Cleanup removes every given path that exists. It runs on every job exit
// path, so it only logs failures and never returns an error. Empty paths
// (never allocated) are skipped.
func (w *Workspace) Cleanup(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️  Failed to remove temp file %s: %v", path, err)
		}
	}
}
