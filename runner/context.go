package runner

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ethereum-optimism/infra/op-bdd/types"
)

// StepContext is the execution context handed to a step body. It carries the
// step's context.Context, access to evaluated parameters, a comment sink and
// a handle for tracked background work. The context is released when the
// step finishes; bodies must not retain it.
type StepContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	group    *errgroup.Group
	result   *types.StepResult
	notifier ProgressNotifier

	mu     sync.Mutex
	params map[string]any
}

func newStepContext(parent context.Context, result *types.StepResult, notifier ProgressNotifier) *StepContext {
	ctx, cancel := context.WithCancel(parent)
	group, gctx := errgroup.WithContext(ctx)
	return &StepContext{
		ctx:      gctx,
		cancel:   cancel,
		group:    group,
		result:   result,
		notifier: notifier,
		params:   make(map[string]any),
	}
}

// Context returns the context the step runs under. It is canceled when the
// step finishes or when tracked background work fails.
func (sc *StepContext) Context() context.Context {
	return sc.ctx
}

// Param returns the evaluated value of the named step parameter, or nil when
// no such parameter was declared.
func (sc *StepContext) Param(name string) any {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.params[name]
}

// Comment records a comment on the running step and forwards it to the
// progress notifier. Safe for concurrent use from tracked goroutines.
func (sc *StepContext) Comment(text string) {
	sc.mu.Lock()
	sc.result.AddComment(text)
	info := sc.result.Info
	sc.mu.Unlock()
	sc.notifier.NotifyStepComment(info, text)
}

// Commentf records a formatted comment on the running step.
func (sc *StepContext) Commentf(format string, args ...any) {
	sc.Comment(fmt.Sprintf(format, args...))
}

// Go starts fn as tracked background work. The step does not finish until
// all tracked work returns; the first error fails the step and cancels the
// step context.
func (sc *StepContext) Go(fn func() error) {
	sc.group.Go(fn)
}

func (sc *StepContext) setParam(name string, value any) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.params[name] = value
}

// waitPending joins all tracked background work.
func (sc *StepContext) waitPending() error {
	return sc.group.Wait()
}

// release cancels the step context and joins any stragglers. Called on every
// executor exit path.
func (sc *StepContext) release() {
	sc.cancel()
	_ = sc.group.Wait()
}
