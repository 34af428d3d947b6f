// Package fixer drives a rule's autofix to a fixpoint.
//
// A run has three phases. The probe lints the original code without fixing
// and hands the snapshot to the caller for validation. The first fix attempt
// runs fix mode on the original code. While the code keeps changing, the
// stabilizing loop re-runs fix mode on the latest output until an attempt
// leaves it unchanged or the recursion budget is spent.
package fixer

import (
	"context"
	"fmt"
	"iter"

	"github.com/stretchr/testify/assert"

	"github.com/tylerbu/stylelint-test-lib/config"
	"github.com/tylerbu/stylelint-test-lib/linter"
	"github.com/tylerbu/stylelint-test-lib/testerr"
	"github.com/tylerbu/stylelint-test-lib/types"
)

// Logf receives progress lines when verbose output is enabled.
type Logf func(format string, args ...any)

// Engine runs the fix loop for one case.
type Engine struct {
	linter   linter.Linter
	behavior config.ResolvedBehavior
	logf     Logf
}

// New creates an engine. logf may be nil.
func New(l linter.Linter, behavior config.ResolvedBehavior, logf Logf) *Engine {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Engine{linter: l, behavior: behavior, logf: logf}
}

// MaxAttempts is the number of fix-mode calls the budget allows.
func (e *Engine) MaxAttempts() int {
	if !e.behavior.Recurse {
		return 1
	}
	return e.behavior.Recursive + 1
}

// Probe lints opts.Code without fixing.
func (e *Engine) Probe(ctx context.Context, opts types.LinterOptions) (types.LintResult, error) {
	opts.Fix = false
	_, result, err := linter.Lint(ctx, e.linter, opts)
	if err != nil {
		return types.LintResult{}, fmt.Errorf("failed to probe %s: %w", opts.CodeFilename, err)
	}
	e.logf("probe %s: %d warning(s)", opts.CodeFilename, len(result.Warnings))
	return result, nil
}

// Attempts yields one Step per fix-mode call, starting from opts.Code. The
// sequence ends after the first attempt that leaves its input unchanged,
// after an error, or once MaxAttempts calls have been made.
func (e *Engine) Attempts(ctx context.Context, opts types.LinterOptions) iter.Seq2[types.Step, error] {
	return func(yield func(types.Step, error) bool) {
		input := opts.Code
		for attempt := 1; attempt <= e.MaxAttempts(); attempt++ {
			call := opts
			call.Code = input
			call.Fix = true

			res, result, err := linter.Lint(ctx, e.linter, call)
			if err != nil {
				yield(types.Step{}, fmt.Errorf("failed to fix %s (attempt %d): %w", opts.CodeFilename, attempt, err))
				return
			}

			step := types.Step{LintResult: result, Code: res.Code, Fixed: res.Code != input}
			e.logf("fix attempt %d on %s: changed=%t", attempt, opts.CodeFilename, step.Fixed)
			if !yield(step, nil) || !step.Fixed {
				return
			}
			input = step.Code
		}
	}
}

// Run probes, then folds the fix attempts into an ExecutionResult. onProbe,
// when non-nil, sees the probe snapshot before any fix-mode call. A budget
// exhausted while the code still changes is a Convergence error.
func (e *Engine) Run(ctx context.Context, opts types.LinterOptions, onProbe func(types.LintResult)) (*types.ExecutionResult, error) {
	probe, err := e.Probe(ctx, opts)
	if err != nil {
		return nil, err
	}
	if onProbe != nil {
		onProbe(probe)
	}

	result := &types.ExecutionResult{Probe: probe}
	for step, err := range e.Attempts(ctx, opts) {
		if err != nil {
			return nil, err
		}
		result.Steps = append(result.Steps, step)
	}

	last := result.Steps[len(result.Steps)-1]
	result.LintResult = last.LintResult
	result.Code = last.Code
	result.Fixed = result.Steps[0].Fixed

	if e.behavior.Recurse && last.Fixed && len(result.Steps) == e.MaxAttempts() {
		return result, testerr.New(testerr.Convergence, fmt.Sprintf(
			"fix did not converge after %d attempts; last output: %q", len(result.Steps), last.Code))
	}
	return result, nil
}

// Verify lints the fixed code once more without fixing and expects no
// warnings. The snapshot is stored on result.
func (e *Engine) Verify(ctx context.Context, t types.TestingT, opts types.LinterOptions, result *types.ExecutionResult) error {
	opts.Code = result.Code
	opts.Fix = false
	_, verification, err := linter.Lint(ctx, e.linter, opts)
	if err != nil {
		return fmt.Errorf("failed to verify fixed %s: %w", opts.CodeFilename, err)
	}
	result.Verification = &verification
	e.logf("verify %s: %d warning(s)", opts.CodeFilename, len(verification.Warnings))

	assert.Empty(t, verification.Warnings, "expected no warnings after fixing, fixed code: %q", result.Code)
	return nil
}
