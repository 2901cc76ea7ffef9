package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	// RunDirectoryPrefix is the standardized prefix for run directories
	RunDirectoryPrefix = "bddrun-"

	passedDirName = "passed"
	failedDirName = "failed"
)

// RunDirFor returns the run directory path for a run ID without creating it.
func RunDirFor(baseDir, runID string) string {
	return filepath.Join(baseDir, RunDirectoryPrefix+runID)
}

// RunDirectory manages the on-disk layout of a single run: the run root with
// the report files, and passed/ and failed/ directories holding one detail
// file per scenario.
type RunDirectory struct {
	baseDir   string
	runID     string
	runDir    string
	passedDir string
	failedDir string

	mu      sync.Mutex
	writers map[string]*AsyncFile
}

// NewRunDirectory creates the directory layout for the given run.
func NewRunDirectory(baseDir, runID string) (*RunDirectory, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("baseDir cannot be empty")
	}
	if runID == "" {
		return nil, fmt.Errorf("runID cannot be empty")
	}

	runDir := RunDirFor(baseDir, runID)
	passedDir := filepath.Join(runDir, passedDirName)
	failedDir := filepath.Join(runDir, failedDirName)

	for _, dir := range []string{baseDir, runDir, passedDir, failedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return &RunDirectory{
		baseDir:   baseDir,
		runID:     runID,
		runDir:    runDir,
		passedDir: passedDir,
		failedDir: failedDir,
		writers:   make(map[string]*AsyncFile),
	}, nil
}

// RunID returns the run this directory belongs to.
func (d *RunDirectory) RunID() string {
	return d.runID
}

// Dir returns the run root directory.
func (d *RunDirectory) Dir() string {
	return d.runDir
}

// PassedDir returns the directory holding detail files of passed scenarios.
func (d *RunDirectory) PassedDir() string {
	return d.passedDir
}

// FailedDir returns the directory holding detail files of failed scenarios.
func (d *RunDirectory) FailedDir() string {
	return d.failedDir
}

// WriteFile writes a file with the given name into the run root.
func (d *RunDirectory) WriteFile(name, content string) error {
	return d.WriteFileAt(filepath.Join(d.runDir, name), content)
}

// WriteFileAt writes a file at the given path inside the run layout.
func (d *RunDirectory) WriteFileAt(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Writer returns a shared async writer for the given path, creating it on
// first use.
func (d *RunDirectory) Writer(path string) (*AsyncFile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if writer, exists := d.writers[path]; exists {
		return writer, nil
	}

	writer, err := NewAsyncFile(path)
	if err != nil {
		return nil, err
	}
	d.writers[path] = writer
	return writer, nil
}

// Close flushes and closes all async writers.
func (d *RunDirectory) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, writer := range d.writers {
		_ = writer.Close()
	}
	d.writers = make(map[string]*AsyncFile)
}

// safeFilename converts a string to a safe filename by replacing problematic characters
func safeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	return replacer.Replace(s)
}
