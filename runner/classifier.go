package runner

import (
	"errors"

	"github.com/ethereum-optimism/infra/op-bdd/types"
)

// Verdict is the classifier's decision for an error raised during step
// execution.
type Verdict struct {
	Status  types.ExecutionStatus
	Details string
	// Fatal verdicts abort the scenario, subject to the abort policy for
	// plain failures. Non-fatal verdicts let execution continue with the
	// next step.
	Fatal bool
}

// ClassificationRule maps one recognized error kind to a verdict.
type ClassificationRule struct {
	Match    func(error) bool
	Classify func(error) Verdict
}

// Classifier turns errors into execution verdicts. Rules are consulted in
// order and the first match wins; unmatched errors classify as Failed with
// the error message as details.
type Classifier struct {
	rules []ClassificationRule
}

// NewClassifier builds a classifier from the given rules. Use
// DefaultClassifier for the standard signal handling.
func NewClassifier(rules ...ClassificationRule) *Classifier {
	return &Classifier{rules: rules}
}

// DefaultClassifier recognizes the package's signal errors, in priority
// order: ignore, inconclusive, bypass, parameter failures.
func DefaultClassifier() *Classifier {
	return NewClassifier(DefaultRules()...)
}

// DefaultRules returns the standard classification table. Callers composing
// their own classifier typically append these after custom rules.
func DefaultRules() []ClassificationRule {
	return []ClassificationRule{
		{
			Match: func(err error) bool {
				var target *IgnoreError
				return errors.As(err, &target)
			},
			Classify: func(err error) Verdict {
				var target *IgnoreError
				errors.As(err, &target)
				return Verdict{Status: types.StatusIgnored, Details: target.Reason, Fatal: true}
			},
		},
		{
			Match: func(err error) bool {
				var target *InconclusiveError
				return errors.As(err, &target)
			},
			Classify: func(err error) Verdict {
				var target *InconclusiveError
				errors.As(err, &target)
				return Verdict{Status: types.StatusIgnored, Details: target.Reason, Fatal: true}
			},
		},
		{
			Match: func(err error) bool {
				var target *BypassError
				return errors.As(err, &target)
			},
			Classify: func(err error) Verdict {
				var target *BypassError
				errors.As(err, &target)
				return Verdict{Status: types.StatusBypassed, Details: target.Reason, Fatal: false}
			},
		},
		{
			Match: func(err error) bool {
				var target *ParameterError
				return errors.As(err, &target)
			},
			Classify: func(err error) Verdict {
				return Verdict{Status: types.StatusFailed, Details: err.Error(), Fatal: true}
			},
		},
	}
}

// Classify resolves err against the rule table. A nil error classifies as a
// passed, non-fatal verdict.
func (c *Classifier) Classify(err error) Verdict {
	if err == nil {
		return Verdict{Status: types.StatusPassed}
	}
	for _, rule := range c.rules {
		if rule.Match(err) {
			return rule.Classify(err)
		}
	}
	return Verdict{Status: types.StatusFailed, Details: err.Error(), Fatal: true}
}
