package reporting

import (
	"fmt"
	"os"
)

// Writer defines the interface for writing formatted reports to various
// destinations.
type Writer interface {
	Write(content string) error
}

// FileWriter writes reports to a file
type FileWriter struct {
	path string
}

// NewFileWriter creates a new file writer
func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

// Write writes the content to the file
func (w *FileWriter) Write(content string) error {
	return os.WriteFile(w.path, []byte(content), 0644)
}

// StdoutWriter writes reports to stdout
type StdoutWriter struct{}

// NewStdoutWriter creates a new stdout writer
func NewStdoutWriter() *StdoutWriter {
	return &StdoutWriter{}
}

// Write writes the content to stdout
func (w *StdoutWriter) Write(content string) error {
	_, err := fmt.Print(content)
	return err
}
