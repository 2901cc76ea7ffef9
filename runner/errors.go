package runner

import (
	"fmt"

	"github.com/ethereum-optimism/infra/op-bdd/types"
)

// BypassError signals that the remaining logic of a step was intentionally
// skipped. The step is recorded as Bypassed and the scenario continues with
// the next step.
type BypassError struct {
	Reason string
}

func (e *BypassError) Error() string {
	return e.Reason
}

// Bypass builds the error a step body returns to skip its remaining logic
// without failing the scenario, e.g. when covering for a known defect.
func Bypass(format string, args ...any) error {
	return &BypassError{Reason: fmt.Sprintf(format, args...)}
}

// IgnoreError signals that the scenario cannot proceed and should be reported
// as ignored rather than failed, e.g. when a required backend is unavailable.
type IgnoreError struct {
	Reason string
}

func (e *IgnoreError) Error() string {
	return e.Reason
}

// Ignore builds the error a step body returns to abort the scenario and
// report it as ignored to the host.
func Ignore(format string, args ...any) error {
	return &IgnoreError{Reason: fmt.Sprintf(format, args...)}
}

// InconclusiveError signals that the scenario outcome could not be
// determined. It aborts the scenario and is always rethrown as-is so the
// host sees the inconclusive verdict rather than a failure.
type InconclusiveError struct {
	Reason string
}

func (e *InconclusiveError) Error() string {
	return e.Reason
}

// Inconclusive builds the error a step body returns when the scenario
// outcome cannot be decided.
func Inconclusive(format string, args ...any) error {
	return &InconclusiveError{Reason: fmt.Sprintf(format, args...)}
}

// ParameterError reports a step parameter evaluation or verification failure.
type ParameterError struct {
	Parameter string
	// Phase is "evaluation" or "verification".
	Phase string
	Err   error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("parameter %q %s failed: %v", e.Parameter, e.Phase, e.Err)
}

func (e *ParameterError) Unwrap() error {
	return e.Err
}

// ScenarioError is the terminal error a scenario run surfaces to its caller
// when a step failed. It carries the scenario status and the first fatal
// error; bypass and ignore signals never produce a ScenarioError.
type ScenarioError struct {
	Scenario string
	Status   types.ExecutionStatus
	Details  string
	Err      error
}

func (e *ScenarioError) Error() string {
	return fmt.Sprintf("scenario %q %s: %s", e.Scenario, e.Status, e.Details)
}

func (e *ScenarioError) Unwrap() error {
	return e.Err
}
