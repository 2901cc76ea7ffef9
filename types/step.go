package types

import (
	"strconv"
	"time"
)

// StepInfo identifies a step within its scenario or parent step group.
type StepInfo struct {
	// Number is the 1-based position of the step within its group.
	Number int
	// Name is the display name of the step. Steps with parameters get their
	// name rewritten once, when the parameters are evaluated.
	Name string
	// GroupPrefix is the dotted path of the enclosing composite step,
	// e.g. "2.1." for a step nested under sub-step 1 of step 2.
	// Empty for top-level scenario steps.
	GroupPrefix string
	// Total is the number of steps in the group.
	Total int
}

// Path returns the full dotted step number, e.g. "2" or "2.1.3".
func (i StepInfo) Path() string {
	return i.GroupPrefix + strconv.Itoa(i.Number)
}

// ParameterResult records the evaluation and verification outcome of a single
// step parameter.
type ParameterResult struct {
	Name string
	// Value holds the formatted evaluated value. Empty until evaluation.
	Value     string
	Evaluated bool
	// Status is NotRun before evaluation, Passed after successful evaluation
	// and verification, Failed otherwise.
	Status  ExecutionStatus
	Details string
}

// StepResult is the execution record of a single step. It is mutated only by
// the executor running the step and must be treated as read-only once the
// owning scenario completes.
type StepResult struct {
	Info           StepInfo
	Status         ExecutionStatus
	Details        string
	ExecutionStart time.Time
	ExecutionTime  time.Duration
	// Executed reports whether the step body was reached. Steps skipped after
	// an aborting failure keep Executed false and Status NotRun.
	Executed   bool
	Comments   []string
	Parameters []*ParameterResult
	SubSteps   []*StepResult
}

// SetStatus records the final status and details of the step.
func (r *StepResult) SetStatus(status ExecutionStatus, details string) {
	r.Status = status
	r.Details = details
}

// AddComment appends a comment in emission order.
func (r *StepResult) AddComment(comment string) {
	r.Comments = append(r.Comments, comment)
}

// AddSubStep appends a sub-step result in declaration order.
func (r *StepResult) AddSubStep(sub *StepResult) {
	r.SubSteps = append(r.SubSteps, sub)
}

// AddParameter appends a parameter result in declaration order.
func (r *StepResult) AddParameter(p *ParameterResult) {
	r.Parameters = append(r.Parameters, p)
}

// StepsStatus returns the most severe status among the given step results.
// An empty set counts as Passed.
func StepsStatus(steps []*StepResult) ExecutionStatus {
	status := StatusPassed
	for _, s := range steps {
		status = MostSevere(status, s.Status)
	}
	return status
}
