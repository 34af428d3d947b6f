// Package linter declares the interface the harness consumes from the
// style-sheet linter, and safe access to the results it returns.
package linter

import (
	"context"

	"github.com/tylerbu/stylelint-test-lib/config"
	"github.com/tylerbu/stylelint-test-lib/testerr"
	"github.com/tylerbu/stylelint-test-lib/types"
)

// Linter lints one source text per call. Implementations must be safe for
// concurrent use when the tester runs cases in parallel.
type Linter interface {
	Lint(ctx context.Context, opts types.LinterOptions) (*types.LinterResult, error)
}

// Func adapts a plain function to the Linter interface.
type Func func(ctx context.Context, opts types.LinterOptions) (*types.LinterResult, error)

// Lint calls f.
func (f Func) Lint(ctx context.Context, opts types.LinterOptions) (*types.LinterResult, error) {
	return f(ctx, opts)
}

// MetaResolver is implemented by linters that can describe their rules.
type MetaResolver interface {
	RuleMeta(ruleName string) (config.RuleMeta, bool)
}

// First returns the result for the submitted code with every collection
// non-nil. A missing result is a MissingResult error.
func First(res *types.LinterResult) (types.LintResult, error) {
	if res == nil || len(res.Results) == 0 {
		return types.LintResult{}, testerr.New(testerr.MissingResult, "linter returned no result for the submitted code")
	}
	return withDefaults(res.Results[0]), nil
}

func withDefaults(r types.LintResult) types.LintResult {
	if r.Warnings == nil {
		r.Warnings = []types.Warning{}
	}
	if r.ParseErrors == nil {
		r.ParseErrors = []types.ParseError{}
	}
	if r.Deprecations == nil {
		r.Deprecations = []types.Deprecation{}
	}
	if r.InvalidOptionWarnings == nil {
		r.InvalidOptionWarnings = []types.InvalidOptionWarning{}
	}
	return r
}

// Lint invokes l and returns the first result, classifying failures.
func Lint(ctx context.Context, l Linter, opts types.LinterOptions) (*types.LinterResult, types.LintResult, error) {
	res, err := l.Lint(ctx, opts)
	if err != nil {
		return nil, types.LintResult{}, testerr.Wrap(testerr.Linter, "failed to lint "+opts.CodeFilename, err)
	}
	first, err := First(res)
	if err != nil {
		return nil, types.LintResult{}, err
	}
	return res, first, nil
}
