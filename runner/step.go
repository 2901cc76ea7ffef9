package runner

import "fmt"

// StepFunc is the body of a basic step.
type StepFunc func(sc *StepContext) error

// CompositeFunc is the body of a composite step. The returned steps execute
// sequentially as sub-steps of the composite.
type CompositeFunc func(sc *StepContext) ([]Step, error)

// Step declares a single scenario step. Zero-value steps are invalid; build
// them with NewStep, NamedStep, Composite or NamedComposite.
type Step struct {
	name              string
	run               StepFunc
	compose           CompositeFunc
	params            []Parameter
	continueOnFailure bool
}

// NewStep declares a basic step named after its function,
// e.g. Given_user_is_logged_in becomes "Given user is logged in".
func NewStep(fn StepFunc) Step {
	return Step{name: nameOfFunc(fn), run: fn}
}

// NamedStep declares a basic step with an explicit name. Names may contain
// "{param}" placeholders resolved from the step's parameters.
func NamedStep(name string, fn StepFunc) Step {
	return Step{name: name, run: fn}
}

// Composite declares a step whose body yields sub-steps, named after its
// function.
func Composite(fn CompositeFunc) Step {
	return Step{name: nameOfFunc(fn), compose: fn}
}

// NamedComposite declares a composite step with an explicit name.
func NamedComposite(name string, fn CompositeFunc) Step {
	return Step{name: name, compose: fn}
}

// Steps converts plain step functions into steps, preserving order.
func Steps(fns ...StepFunc) []Step {
	out := make([]Step, len(fns))
	for i, fn := range fns {
		out[i] = NewStep(fn)
	}
	return out
}

// WithParameters attaches parameters to the step. They are evaluated in
// declaration order before the step body runs.
func (s Step) WithParameters(params ...Parameter) Step {
	s.params = append(s.params[:len(s.params):len(s.params)], params...)
	return s
}

// ContinueOnFailure lets the remaining sub-steps of this composite run even
// after one of them fails. The failure still fails the composite; only the
// sibling scheduling changes.
func (s Step) ContinueOnFailure() Step {
	s.continueOnFailure = true
	return s
}

// Name returns the declared or derived step name. Anonymous unnamed steps
// get a positional name when the scenario runs.
func (s Step) Name() string {
	return s.name
}

func (s Step) displayName(number int) string {
	if s.name != "" {
		return s.name
	}
	return fmt.Sprintf("step %d", number)
}
