package runner

import (
	"context"
	"errors"
)

// TestingT is the minimal surface of *testing.T the runner reports through.
// Keeping it an interface leaves this package free of the testing package
// and lets other hosts adapt.
type TestingT interface {
	Helper()
	Name() string
	Context() context.Context
	Skip(args ...any)
	Fatal(args ...any)
}

// Scenario runs the steps as a scenario named after the current test and
// maps the outcome onto the host: ignored and inconclusive scenarios skip
// the test, failed scenarios terminate it, passed and bypassed scenarios
// return normally.
func (r *Runner) Scenario(t TestingT, steps ...Step) {
	t.Helper()
	r.ScenarioWithOptions(t, ScenarioOptions{}, steps...)
}

// ScenarioWithOptions is Scenario with explicit naming.
func (r *Runner) ScenarioWithOptions(t TestingT, opts ScenarioOptions, steps ...Step) {
	t.Helper()
	if opts.Name == "" {
		opts.Name = NameFromTestName(t.Name())
	}
	err := r.runScenario(t.Context(), opts, steps)
	if err == nil {
		return
	}

	var ignore *IgnoreError
	if errors.As(err, &ignore) {
		t.Skip(ignore.Reason)
		return
	}
	var inconclusive *InconclusiveError
	if errors.As(err, &inconclusive) {
		t.Skip("inconclusive: " + inconclusive.Reason)
		return
	}
	t.Fatal(err.Error())
}
