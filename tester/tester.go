// Package tester runs lint-rule test cases against a linter.
//
// A Tester is built once per rule from a config.Tester and a linter. Each,
// Valid and Invalid execute a single case and return its outcome; Run
// registers a whole batch as Go subtests.
package tester

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tylerbu/stylelint-test-lib/config"
	"github.com/tylerbu/stylelint-test-lib/fixer"
	"github.com/tylerbu/stylelint-test-lib/linter"
	"github.com/tylerbu/stylelint-test-lib/normalizer"
	"github.com/tylerbu/stylelint-test-lib/options"
	"github.com/tylerbu/stylelint-test-lib/testerr"
	"github.com/tylerbu/stylelint-test-lib/types"
	"github.com/tylerbu/stylelint-test-lib/validator"
)

// Tester holds the immutable per-rule configuration.
type Tester struct {
	cfg       config.Tester
	linter    linter.Linter
	meta      *config.RuleMeta
	filenames map[config.Dialect]string
}

// Outcome is what running one case produced. Result is nil when the case
// failed before the linter was called.
type Outcome struct {
	Case   types.NormalizedCase
	Result *types.ExecutionResult
}

// New validates cfg and keeps a private copy of it.
func New(cfg config.Tester, l linter.Linter) (*Tester, error) {
	if l == nil {
		return nil, testerr.New(testerr.Config, "a linter is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, testerr.Wrap(testerr.Config, "invalid tester configuration", err)
	}

	cfg = cfg.Clone()
	return &Tester{
		cfg:       cfg,
		linter:    l,
		meta:      options.ResolveRuleMeta(cfg, l),
		filenames: cfg.Filenames(),
	}, nil
}

// RuleName is the name of the rule under test.
func (tr *Tester) RuleName() string {
	return tr.cfg.RuleName()
}

// Config returns a copy of the tester configuration.
func (tr *Tester) Config() config.Tester {
	return tr.cfg.Clone()
}

// Each runs a case with its polarity inferred from its expectations.
func (tr *Tester) Each(ctx context.Context, t types.TestingT, c types.Case) (Outcome, error) {
	return tr.execute(ctx, t, c, "")
}

// Valid runs c as a valid case: it must not be fixed and must report nothing.
func (tr *Tester) Valid(ctx context.Context, t types.TestingT, c types.Case) (Outcome, error) {
	return tr.checked(ctx, t, c, types.Valid)
}

// Invalid runs c as an invalid case: it must report something, or be fixed
// into code without warnings.
func (tr *Tester) Invalid(ctx context.Context, t types.TestingT, c types.Case) (Outcome, error) {
	return tr.checked(ctx, t, c, types.Invalid)
}

func (tr *Tester) checked(ctx context.Context, t types.TestingT, c types.Case, typ types.CaseType) (Outcome, error) {
	out, err := tr.execute(ctx, t, c, typ)
	if err != nil {
		return out, err
	}
	validator.ValidatePolarity(t, out.Case, out.Result)
	return out, nil
}

func (tr *Tester) execute(ctx context.Context, t types.TestingT, c types.Case, typ types.CaseType) (Outcome, error) {
	nc := normalizer.NormalizeCase(c, tr.filenames, typ)
	out := Outcome{Case: nc}

	if err := validator.CheckStructure(nc); err != nil {
		return out, err
	}

	behavior := tr.cfg.Behavior.Merge(nc.Behavior)
	if err := behavior.Validate(); err != nil {
		return out, testerr.Wrap(testerr.Config, "invalid case behavior", err)
	}
	resolved := behavior.Resolve()

	ruleOptions := options.ResolveRuleOptions(nc, tr.cfg, tr.meta)
	opts := options.ResolveLinterOptions(tr.cfg, nc, ruleOptions)

	if nc.Before != nil {
		if err := nc.Before(nc, &opts); err != nil {
			return out, testerr.Wrap(testerr.Hook, "before hook failed", err)
		}
	}

	engine := fixer.New(tr.linter, resolved, tr.logf(t))
	result, err := engine.Run(ctx, opts, func(probe types.LintResult) {
		validator.ValidateLintResult(t, nc, probe)
	})
	out.Result = result
	if err != nil {
		return out, err
	}

	validator.ValidateOutput(t, nc, result.Code)

	if result.Fixed && resolved.VerifyAfterFix {
		if err := engine.Verify(ctx, t, opts, result); err != nil {
			return out, err
		}
	}

	if nc.After != nil {
		if err := nc.After(nc, result); err != nil {
			return out, testerr.Wrap(testerr.Hook, "after hook failed", err)
		}
	}
	if nc.OnResult != nil {
		if err := nc.OnResult(result); err != nil {
			return out, testerr.Wrap(testerr.Hook, "onResult hook failed", err)
		}
	}
	return out, nil
}

type logger interface {
	Logf(format string, args ...any)
}

func (tr *Tester) logf(t types.TestingT) fixer.Logf {
	if !tr.cfg.Verbose {
		return nil
	}
	if l, ok := t.(logger); ok {
		return l.Logf
	}
	return nil
}

// Run registers the batch under a subtest named after the rule, with one
// "valid" and one "invalid" group. When any case sets Only, every other
// case is skipped.
func (tr *Tester) Run(t *testing.T, batch types.Batch) {
	t.Helper()

	only := hasOnly(batch.Valid) || hasOnly(batch.Invalid)
	t.Run(tr.RuleName(), func(t *testing.T) {
		tr.runGroup(t, types.Valid, batch.Valid, only, batch.OnResult)
		tr.runGroup(t, types.Invalid, batch.Invalid, only, batch.OnResult)
	})
}

func (tr *Tester) runGroup(t *testing.T, typ types.CaseType, cases []types.Case, only bool, onResult func(types.NormalizedCase, *types.ExecutionResult) error) {
	if len(cases) == 0 {
		return
	}

	run := tr.Valid
	title := "Valid"
	if typ == types.Invalid {
		run = tr.Invalid
		title = "Invalid"
	}

	t.Run(string(typ), func(t *testing.T) {
		for i, c := range cases {
			nc := normalizer.NormalizeCase(c, tr.filenames, typ)

			t.Run(fmt.Sprintf("%s #%d: %s", title, i, nc.Label()), func(t *testing.T) {
				if tr.cfg.Parallel {
					t.Parallel()
				}
				if nc.Skip {
					t.Skip("case is marked skip")
				}
				if only && !nc.Only {
					t.Skip("another case is marked only")
				}

				out, err := run(t.Context(), t, nc)
				require.NoError(t, err)

				if onResult != nil {
					require.NoError(t, onResult(out.Case, out.Result), "batch onResult hook failed")
				}
			})
		}
	})
}

func hasOnly(cases []types.Case) bool {
	for _, c := range cases {
		if types.Raw(c).Only {
			return true
		}
	}
	return false
}
