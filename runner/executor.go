package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/ethereum-optimism/infra/op-bdd/types"
)

// runnableStep pairs a step declaration with the result it populates.
type runnableStep struct {
	step   Step
	result *types.StepResult
}

func newRunnableStep(step Step, number, total int, groupPrefix string) *runnableStep {
	return &runnableStep{
		step: step,
		result: &types.StepResult{
			Info: types.StepInfo{
				Number:      number,
				Name:        step.displayName(number),
				GroupPrefix: groupPrefix,
				Total:       total,
			},
		},
	}
}

// stepExecutor runs individual steps: parameter handling, body invocation,
// composite recursion, pending work draining and status classification.
type stepExecutor struct {
	classifier  *Classifier
	notifier    ProgressNotifier
	clock       Clock
	shouldAbort func(error) bool
	tracer      trace.Tracer
}

// run executes one step and returns the error the enclosing layer must deal
// with: nil when the scenario may continue (Passed or Bypassed), otherwise
// the fatal error to propagate.
func (x *stepExecutor) run(ctx context.Context, rs *runnableStep) error {
	res := rs.result
	res.Executed = true
	res.ExecutionStart = x.clock.Now()

	ctx, span := x.tracer.Start(ctx, fmt.Sprintf("step %s", res.Info.Path()))
	defer span.End()

	sc := newStepContext(ctx, res, x.notifier)
	defer func() {
		sc.release()
		res.ExecutionTime = x.clock.Since(res.ExecutionStart)
		x.notifier.NotifyStepFinished(res)
	}()

	if err := x.evaluateParameters(sc, rs); err != nil {
		v := x.classifier.Classify(err)
		res.SetStatus(v.Status, v.Details)
		return err
	}

	x.notifier.NotifyStepStart(res.Info)

	children, stepErr := x.invoke(sc, rs.step)

	var subErr error
	if stepErr == nil && len(children) > 0 {
		subErr = x.runSubSteps(sc.Context(), rs, children)
	}

	// Tracked background work joins here so its failures belong to this step.
	if pendErr := sc.waitPending(); stepErr == nil && pendErr != nil {
		stepErr = pendErr
	}

	if stepErr == nil && subErr == nil {
		stepErr = x.verifyParameters(rs, sc)
	}

	if stepErr != nil {
		v := x.classifier.Classify(stepErr)
		res.SetStatus(v.Status, v.Details)
		if !v.Fatal {
			return nil
		}
		return stepErr
	}

	res.SetStatus(types.StepsStatus(res.SubSteps), "")
	return subErr
}

// invoke calls the step body, converting panics into plain step failures.
func (x *stepExecutor) invoke(sc *StepContext, step Step) (children []Step, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step panicked: %v", r)
		}
	}()
	switch {
	case step.compose != nil:
		return step.compose(sc)
	case step.run != nil:
		return nil, step.run(sc)
	default:
		return nil, errors.New("step has no body")
	}
}

// runSubSteps executes the yielded sub-steps of a composite sequentially.
// Once a sub-step aborts the group, the remaining siblings stay NotRun.
func (x *stepExecutor) runSubSteps(ctx context.Context, parent *runnableStep, children []Step) error {
	prefix := parent.result.Info.Path() + "."
	runnables := make([]*runnableStep, len(children))
	for i, child := range children {
		runnables[i] = newRunnableStep(child, i+1, len(children), prefix)
		parent.result.AddSubStep(runnables[i].result)
	}

	var firstErr error
	aborted := false
	for _, child := range runnables {
		if aborted {
			continue
		}
		err := x.run(ctx, child)
		if err == nil {
			continue
		}
		if firstErr == nil {
			firstErr = err
		}
		if x.abortsGroup(parent.step, err) {
			aborted = true
		}
	}
	return firstErr
}

// abortsGroup decides whether err stops the remaining siblings of a group.
// Ignore and inconclusive signals always abort; plain failures consult the
// abort policy unless the composite opted into continue-on-failure.
func (x *stepExecutor) abortsGroup(parent Step, err error) bool {
	if isAlwaysFatal(err) {
		return true
	}
	if parent.continueOnFailure {
		return false
	}
	return x.shouldAbort(err)
}

func isAlwaysFatal(err error) bool {
	var ignore *IgnoreError
	var inconclusive *InconclusiveError
	return errors.As(err, &ignore) || errors.As(err, &inconclusive)
}

// evaluateParameters resolves the step's parameters in declaration order and
// substitutes the formatted values into the step name. The first evaluation
// failure aborts; later parameters stay unevaluated and the raw name with
// its placeholders is kept.
func (x *stepExecutor) evaluateParameters(sc *StepContext, rs *runnableStep) error {
	if len(rs.step.params) == 0 {
		return nil
	}
	var firstErr error
	name := rs.result.Info.Name
	for _, p := range rs.step.params {
		pr := &types.ParameterResult{Name: p.name}
		rs.result.AddParameter(pr)
		if firstErr != nil {
			continue
		}
		value, err := p.eval(sc.Context())
		if err != nil {
			pr.Status = types.StatusFailed
			pr.Details = err.Error()
			firstErr = &ParameterError{Parameter: p.name, Phase: "evaluation", Err: err}
			continue
		}
		pr.Evaluated = true
		pr.Value = p.formatValue(value)
		pr.Status = types.StatusPassed
		sc.setParam(p.name, value)
		name = strings.ReplaceAll(name, "{"+p.name+"}", pr.Value)
	}
	if firstErr != nil {
		return firstErr
	}
	rs.result.Info.Name = name
	return nil
}

// verifyParameters runs the post-step checks of all verified parameters and
// joins their failures into one error.
func (x *stepExecutor) verifyParameters(rs *runnableStep, sc *StepContext) error {
	var errs []error
	for i, p := range rs.step.params {
		if p.verify == nil {
			continue
		}
		pr := rs.result.Parameters[i]
		if !pr.Evaluated {
			continue
		}
		if err := p.verify(sc.Param(p.name)); err != nil {
			pr.Status = types.StatusFailed
			pr.Details = err.Error()
			errs = append(errs, &ParameterError{Parameter: p.name, Phase: "verification", Err: err})
		}
	}
	return errors.Join(errs...)
}
