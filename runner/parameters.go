package runner

import (
	"context"
	"fmt"
)

// Parameter declares a lazily evaluated step argument. Evaluation happens
// just before the step body runs; the formatted value replaces the
// "{name}" placeholder in the step name. An optional verification runs
// after the step body and fails the step when it reports an error.
type Parameter struct {
	name   string
	eval   func(context.Context) (any, error)
	verify func(value any) error
	format func(value any) string
}

// Param declares a parameter whose value is computed when the step runs.
func Param(name string, eval func(ctx context.Context) (any, error)) Parameter {
	return Parameter{name: name, eval: eval}
}

// ConstParam declares a parameter with a fixed value.
func ConstParam(name string, value any) Parameter {
	return Parameter{
		name: name,
		eval: func(context.Context) (any, error) { return value, nil },
	}
}

// Name returns the parameter name used for placeholder substitution.
func (p Parameter) Name() string {
	return p.name
}

// WithVerification attaches a post-step check of the evaluated value.
// A verification error fails the step.
func (p Parameter) WithVerification(verify func(value any) error) Parameter {
	p.verify = verify
	return p
}

// WithFormat overrides how the evaluated value renders in the step name and
// in parameter results. The default format is fmt.Sprintf("%v", value).
func (p Parameter) WithFormat(format func(value any) string) Parameter {
	p.format = format
	return p
}

func (p Parameter) formatValue(value any) string {
	if p.format != nil {
		return p.format(value)
	}
	return fmt.Sprintf("%v", value)
}
