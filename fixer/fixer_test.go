package fixer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tylerbu/stylelint-test-lib/config"
	"github.com/tylerbu/stylelint-test-lib/internal/fakelint"
	"github.com/tylerbu/stylelint-test-lib/testerr"
	"github.com/tylerbu/stylelint-test-lib/types"
)

type recorder struct {
	errors []string
}

func (r *recorder) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recorder) FailNow() {}

func opts(rule, code string) types.LinterOptions {
	return types.LinterOptions{
		Config:                   config.Stylelint{"rules": map[string]any{rule: []any{true}}},
		Code:                     code,
		CodeFilename:             "file.css",
		QuietDeprecationWarnings: true,
	}
}

func behavior(recursive int) config.ResolvedBehavior {
	return config.Behavior{Recursive: config.Int(recursive)}.Resolve()
}

func TestRun_ConvergesAfterOneFix(t *testing.T) {
	l := fakelint.New()
	e := New(l, config.Behavior{}.Resolve(), t.Logf)

	result, err := e.Run(t.Context(), opts(fakelint.AtRuleNoVendorPrefix, "@-webkit-keyframes { 0% { top: 0; } }"), nil)
	require.NoError(t, err)

	assert.True(t, result.Fixed)
	assert.Equal(t, "@keyframes { 0% { top: 0; } }", result.Code)
	require.Len(t, result.Steps, 2)
	assert.True(t, result.Steps[0].Fixed)
	assert.False(t, result.Steps[1].Fixed)
	assert.Len(t, result.Probe.Warnings, 1)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 2, l.FixCalls())
}

func TestRun_NothingToFix(t *testing.T) {
	l := fakelint.New()
	e := New(l, config.Behavior{}.Resolve(), nil)

	result, err := e.Run(t.Context(), opts(fakelint.NoEmptySource, ""), nil)
	require.NoError(t, err)

	assert.False(t, result.Fixed)
	assert.Equal(t, "", result.Code)
	assert.Len(t, result.Steps, 1)
	assert.Len(t, result.Warnings, 1)
	assert.Equal(t, 1, l.FixCalls())
}

func TestRun_MultiPassConvergence(t *testing.T) {
	l := fakelint.New()
	e := New(l, behavior(10), nil)

	result, err := e.Run(t.Context(), opts(fakelint.StripLeadingSpace, "   a {}"), nil)
	require.NoError(t, err)

	assert.Equal(t, "a {}", result.Code)
	assert.Len(t, result.Steps, 4)
	assert.True(t, result.Fixed)
}

func TestRun_BudgetExhausted(t *testing.T) {
	for _, recursive := range []int{0, 1, 3, 10} {
		t.Run(fmt.Sprintf("recursive=%d", recursive), func(t *testing.T) {
			l := fakelint.New()
			e := New(l, behavior(recursive), nil)

			result, err := e.Run(t.Context(), opts(fakelint.AlwaysChanging, "a {}"), nil)
			require.Error(t, err)
			assert.True(t, testerr.Is(err, testerr.Convergence))
			assert.Contains(t, err.Error(), fmt.Sprintf("after %d attempts", recursive+1))
			assert.Equal(t, recursive+1, l.FixCalls())
			require.NotNil(t, result)
			assert.Len(t, result.Steps, recursive+1)
		})
	}
}

func TestRun_ConvergesOnLastAllowedAttempt(t *testing.T) {
	l := fakelint.New()
	e := New(l, behavior(2), nil)

	// two changing passes and the unchanged third fit a budget of 2+1
	result, err := e.Run(t.Context(), opts(fakelint.StripLeadingSpace, "  a {}"), nil)
	require.NoError(t, err)
	assert.Len(t, result.Steps, 3)
	assert.Equal(t, "a {}", result.Code)

	l = fakelint.New()
	e = New(l, behavior(2), nil)
	result, err = e.Run(t.Context(), opts(fakelint.StripLeadingSpace, "   a {}"), nil)
	require.Error(t, err)
	assert.True(t, testerr.Is(err, testerr.Convergence))
	assert.Equal(t, "a {}", result.Code)
	assert.Equal(t, 3, l.FixCalls())
}

func TestRun_RecursionDisabled(t *testing.T) {
	l := fakelint.New()
	e := New(l, behavior(config.RecursionDisabled), nil)

	result, err := e.Run(t.Context(), opts(fakelint.AlwaysChanging, "a {}"), nil)
	require.NoError(t, err)
	assert.True(t, result.Fixed)
	assert.Equal(t, "a {};", result.Code)
	assert.Equal(t, 1, l.FixCalls())
}

func TestRun_ProbeBeforeFix(t *testing.T) {
	l := fakelint.New()
	e := New(l, config.Behavior{}.Resolve(), nil)

	probed := false
	_, err := e.Run(t.Context(), opts(fakelint.NoEmptySource, ""), func(probe types.LintResult) {
		probed = true
		assert.Equal(t, 0, l.FixCalls())
		assert.Len(t, probe.Warnings, 1)
	})
	require.NoError(t, err)
	assert.True(t, probed)

	calls := l.Calls()
	require.NotEmpty(t, calls)
	assert.False(t, calls[0].Fix)
}

func TestRun_LinterFailure(t *testing.T) {
	l := fakelint.New()
	l.Err = errors.New("engine crashed")
	e := New(l, config.Behavior{}.Resolve(), nil)

	_, err := e.Run(t.Context(), opts(fakelint.NoEmptySource, ""), nil)
	require.Error(t, err)
	assert.True(t, testerr.Is(err, testerr.Linter))

	l = fakelint.New()
	l.DropResults = true
	e = New(l, config.Behavior{}.Resolve(), nil)
	_, err = e.Run(t.Context(), opts(fakelint.NoEmptySource, ""), nil)
	assert.True(t, testerr.Is(err, testerr.MissingResult))
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(fakelint.New(), config.Behavior{}.Resolve(), nil).Run(ctx, opts(fakelint.NoEmptySource, ""), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAttempts_StopsWhenConsumerBreaks(t *testing.T) {
	l := fakelint.New()
	e := New(l, behavior(10), nil)

	for step, err := range e.Attempts(t.Context(), opts(fakelint.AlwaysChanging, "a {}")) {
		require.NoError(t, err)
		assert.True(t, step.Fixed)
		break
	}
	assert.Equal(t, 1, l.FixCalls())
}

func TestVerify(t *testing.T) {
	l := fakelint.New()
	e := New(l, config.Behavior{}.Resolve(), nil)
	o := opts(fakelint.AtRuleNoVendorPrefix, "@-moz-document {}")

	result, err := e.Run(t.Context(), o, nil)
	require.NoError(t, err)

	rec := &recorder{}
	require.NoError(t, e.Verify(t.Context(), rec, o, result))
	assert.Empty(t, rec.errors)
	require.NotNil(t, result.Verification)
	assert.Empty(t, result.Verification.Warnings)

	broken := &types.ExecutionResult{Code: "@-ms-viewport {}"}
	require.NoError(t, e.Verify(t.Context(), rec, o, broken))
	assert.Len(t, rec.errors, 1)
}
