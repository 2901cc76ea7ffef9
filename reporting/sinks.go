package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum-optimism/infra/op-bdd/runner"
	"github.com/ethereum-optimism/infra/op-bdd/types"
)

var (
	_ runner.ResultSink = (*ResultsFileSink)(nil)
	_ runner.ResultSink = (*ConsoleSink)(nil)
	_ runner.ResultSink = (*ArchiveSink)(nil)
)

// ResultsFileSink collects feature results per run and writes one formatted
// report file into the run's directory when the run completes.
type ResultsFileSink struct {
	baseDir   string
	formatter Formatter
	filename  string

	mu      sync.Mutex
	results map[string][]*types.FeatureResult
}

// NewResultsFileSink creates a sink rendering with formatter into filename
// under baseDir/bddrun-<runID>/.
func NewResultsFileSink(baseDir string, formatter Formatter, filename string) *ResultsFileSink {
	return &ResultsFileSink{
		baseDir:   baseDir,
		formatter: formatter,
		filename:  filename,
		results:   make(map[string][]*types.FeatureResult),
	}
}

// NewXMLFileSink writes the XML report as results.xml.
func NewXMLFileSink(baseDir string) *ResultsFileSink {
	return NewResultsFileSink(baseDir, NewXMLFormatter(), "results.xml")
}

// NewTextFileSink writes the plain text summary as summary.log.
func NewTextFileSink(baseDir string) *ResultsFileSink {
	return NewResultsFileSink(baseDir, NewTextFormatter(), "summary.log")
}

// NewHTMLFileSink writes the HTML report as results.html using the embedded
// template.
func NewHTMLFileSink(baseDir string) (*ResultsFileSink, error) {
	formatter, err := NewDefaultHTMLFormatter()
	if err != nil {
		return nil, err
	}
	return NewResultsFileSink(baseDir, formatter, "results.html"), nil
}

// Consume records the feature result for later rendering.
func (s *ResultsFileSink) Consume(result *types.FeatureResult, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[runID] = append(s.results[runID], result)
	return nil
}

// Complete renders the collected results and writes the report file.
func (s *ResultsFileSink) Complete(runID string) error {
	s.mu.Lock()
	features := s.results[runID]
	delete(s.results, runID)
	s.mu.Unlock()

	content, err := s.formatter.Format(features)
	if err != nil {
		return fmt.Errorf("failed to format %s report: %w", s.formatter.Name(), err)
	}

	dir := filepath.Join(s.baseDir, runDirPrefix+runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}
	path := filepath.Join(dir, s.filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s report: %w", s.formatter.Name(), err)
	}
	return nil
}

// ConsoleSink prints a colored summary table to the writer once the run
// completes.
type ConsoleSink struct {
	formatter Formatter
	writer    Writer

	mu      sync.Mutex
	results map[string][]*types.FeatureResult
}

// NewConsoleSink creates a sink printing the run summary table to stdout.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{
		formatter: NewTableFormatter("Scenario Results", true),
		writer:    NewStdoutWriter(),
		results:   make(map[string][]*types.FeatureResult),
	}
}

// WithWriter redirects the sink's output, mainly for tests.
func (s *ConsoleSink) WithWriter(writer Writer) *ConsoleSink {
	s.writer = writer
	return s
}

// WithFormatter swaps the rendering, e.g. for a table without step rows.
func (s *ConsoleSink) WithFormatter(formatter Formatter) *ConsoleSink {
	s.formatter = formatter
	return s
}

// Consume records the feature result for later rendering.
func (s *ConsoleSink) Consume(result *types.FeatureResult, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[runID] = append(s.results[runID], result)
	return nil
}

// Complete renders the table for the run and prints it.
func (s *ConsoleSink) Complete(runID string) error {
	s.mu.Lock()
	features := s.results[runID]
	delete(s.results, runID)
	s.mu.Unlock()

	content, err := s.formatter.Format(features)
	if err != nil {
		return fmt.Errorf("failed to format results table: %w", err)
	}
	return s.writer.Write(content + "\n")
}

// ArchiveSink saves the JSON run archive when the run completes.
type ArchiveSink struct {
	store *Store

	mu      sync.Mutex
	results map[string][]*types.FeatureResult
}

// NewArchiveSink creates a sink archiving runs into store.
func NewArchiveSink(store *Store) *ArchiveSink {
	return &ArchiveSink{
		store:   store,
		results: make(map[string][]*types.FeatureResult),
	}
}

// Consume records the feature result for archiving.
func (s *ArchiveSink) Consume(result *types.FeatureResult, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[runID] = append(s.results[runID], result)
	return nil
}

// Complete writes the run archive.
func (s *ArchiveSink) Complete(runID string) error {
	s.mu.Lock()
	features := s.results[runID]
	delete(s.results, runID)
	s.mu.Unlock()

	return s.store.SaveRun(NewRun(runID, features))
}
