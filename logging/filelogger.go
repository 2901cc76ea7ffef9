package logging

import (
	"errors"
	"fmt"

	"github.com/ethereum-optimism/infra/op-bdd/reporting"
	"github.com/ethereum-optimism/infra/op-bdd/runner"
	"github.com/ethereum-optimism/infra/op-bdd/types"
)

var _ runner.ResultSink = (*FileLogger)(nil)

// FileLogger writes the complete report set of a run to disk. It owns the
// run directory and fans every consumed feature result out to its sinks:
// per scenario detail files, the combined all.log, the XML, HTML and text
// reports and the JSON run archive.
type FileLogger struct {
	dir   *RunDirectory
	sinks []runner.ResultSink
}

// NewFileLogger creates the run directory under baseDir and wires the
// default sink set.
func NewFileLogger(baseDir, runID string) (*FileLogger, error) {
	dir, err := NewRunDirectory(baseDir, runID)
	if err != nil {
		return nil, err
	}

	htmlSink, err := reporting.NewHTMLFileSink(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTML sink: %w", err)
	}

	sinks := []runner.ResultSink{
		NewScenarioFileSink(dir),
		NewAllLogsFileSink(dir),
		reporting.NewXMLFileSink(baseDir),
		htmlSink,
		reporting.NewTextFileSink(baseDir),
		reporting.NewArchiveSink(reporting.NewStore(baseDir)),
	}

	return &FileLogger{dir: dir, sinks: sinks}, nil
}

// WithSink appends an extra sink to the fan-out.
func (l *FileLogger) WithSink(sink runner.ResultSink) *FileLogger {
	l.sinks = append(l.sinks, sink)
	return l
}

// Dir returns the run directory layout.
func (l *FileLogger) Dir() *RunDirectory {
	return l.dir
}

// Consume feeds the feature result to every sink. All sinks are attempted
// even when one fails.
func (l *FileLogger) Consume(result *types.FeatureResult, runID string) error {
	var errs []error
	for _, sink := range l.sinks {
		if err := sink.Consume(result, runID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Complete finalizes every sink and closes the async writers.
func (l *FileLogger) Complete(runID string) error {
	var errs []error
	for _, sink := range l.sinks {
		if err := sink.Complete(runID); err != nil {
			errs = append(errs, err)
		}
	}
	l.dir.Close()
	return errors.Join(errs...)
}
