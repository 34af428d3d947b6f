package stylelint_test_lib

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tylerbu/stylelint-test-lib/config"
	"github.com/tylerbu/stylelint-test-lib/internal/fakelint"
	"github.com/tylerbu/stylelint-test-lib/tester"
	"github.com/tylerbu/stylelint-test-lib/testerr"
	"github.com/tylerbu/stylelint-test-lib/types"
)

// End-to-end scenarios: tester, option resolution, fix loop and validation
// wired together against the in-memory linter.

type softT struct {
	errors []string
}

func (s *softT) Errorf(format string, args ...any) {
	s.errors = append(s.errors, fmt.Sprintf(format, args...))
}

func (s *softT) FailNow() {}

func mustTester(t *testing.T, l *fakelint.Linter, cfg config.Tester) *tester.Tester {
	t.Helper()
	tr, err := NewTester(l, cfg)
	if err != nil {
		t.Fatalf("Failed to create tester: %v", err)
	}
	return tr
}

func TestIntegration_EmptySourceReportsOneWarning(t *testing.T) {
	l := fakelint.New()
	tr := mustTester(t, l, config.Tester{Name: fakelint.NoEmptySource})
	st := &softT{}

	out, err := tr.Invalid(t.Context(), st, types.TestCase{Code: "", Warnings: types.Count(1)})
	require.NoError(t, err)
	assert.Empty(t, st.errors)

	require.Len(t, out.Result.Warnings, 1)
	w := out.Result.Warnings[0]
	assert.Equal(t, 1, w.Line)
	assert.Equal(t, 1, w.Column)
	assert.Equal(t, "Unexpected empty source (no-empty-source)", w.Text)
	assert.False(t, out.Result.Fixed)
}

func TestIntegration_VendorPrefixFixedAndVerified(t *testing.T) {
	l := fakelint.New()
	tr := mustTester(t, l, config.Tester{Name: fakelint.AtRuleNoVendorPrefix})
	st := &softT{}

	out, err := tr.Invalid(t.Context(), st, types.TestCase{
		Code:   "@-webkit-keyframes { 0% { top: 0; } }",
		Output: types.Exact("@keyframes { 0% { top: 0; } }"),
		Warnings: types.Messages{
			`Unexpected vendor-prefixed at-rule "@-webkit-keyframes" (at-rule-no-vendor-prefix)`,
		},
	})
	require.NoError(t, err)
	assert.Empty(t, st.errors)

	assert.True(t, out.Result.Fixed)
	assert.Equal(t, "@keyframes { 0% { top: 0; } }", out.Result.Code)
	require.NotNil(t, out.Result.Verification)
	assert.Empty(t, out.Result.Verification.Warnings)

	// probe, first fix, stabilizing fix, verification
	assert.Len(t, l.Calls(), 4)
}

func TestIntegration_BudgetExhaustion(t *testing.T) {
	for _, recursive := range []int{0, 2, config.DefaultRecursive} {
		t.Run(fmt.Sprintf("recursive=%d", recursive), func(t *testing.T) {
			l := fakelint.New()
			tr := mustTester(t, l, config.Tester{
				Name:     fakelint.AlwaysChanging,
				Behavior: config.Behavior{Recursive: config.Int(recursive)},
			})

			_, err := tr.Invalid(t.Context(), &softT{}, types.TestCase{Code: "a {}", Warnings: types.Count(1)})
			require.Error(t, err)
			assert.True(t, testerr.Is(err, testerr.Convergence))
			assert.Equal(t, recursive+1, l.FixCalls())
		})
	}
}

func TestIntegration_DefaultBudget(t *testing.T) {
	l := fakelint.New()
	tr := mustTester(t, l, config.Tester{Name: fakelint.AlwaysChanging})

	_, err := tr.Invalid(t.Context(), &softT{}, types.TestCase{Code: "a {}", Warnings: types.Count(1)})
	require.Error(t, err)
	assert.Equal(t, config.DefaultRecursive+1, l.FixCalls())
}

func TestIntegration_SpecificationErrorBeforeAnyLint(t *testing.T) {
	l := fakelint.New()
	tr := mustTester(t, l, config.Tester{Name: fakelint.NoEmptySource})

	_, err := tr.Invalid(t.Context(), &softT{}, types.TestCase{Code: "a {}", Description: "asserts nothing"})
	require.Error(t, err)
	assert.True(t, testerr.Is(err, testerr.Specification))
	assert.Empty(t, l.Calls())
	assert.Equal(t, 0, l.FixCalls())
}

func TestIntegration_DisabledRuleIsValid(t *testing.T) {
	tr := mustTester(t, fakelint.New(), config.Tester{Name: fakelint.NoEmptySource})
	st := &softT{}

	out, err := tr.Valid(t.Context(), st, types.TestCase{Code: "", RuleOptions: []any{nil}})
	require.NoError(t, err)
	assert.Empty(t, st.errors)
	assert.False(t, out.Result.HasDiagnostics())
}

func TestIntegration_SoftFailuresAreAllReported(t *testing.T) {
	tr := mustTester(t, fakelint.New(), config.Tester{Name: fakelint.AtRuleNoVendorPrefix})
	st := &softT{}

	_, err := tr.Invalid(t.Context(), st, types.TestCase{
		Code:         "@-webkit-keyframes {}",
		Output:       types.Exact("@-webkit-keyframes {}"),
		Warnings:     types.Count(2),
		Deprecations: types.Count(1),
	})
	require.NoError(t, err)
	// warning count, deprecation count, output
	assert.Len(t, st.errors, 3)
}

func TestIntegration_ConfigIsImmutable(t *testing.T) {
	cfg := config.Tester{
		Name:            fakelint.NoEmptySource,
		StylelintConfig: config.Stylelint{"rules": map[string]any{"other": true}},
		RuleOptions:     []any{true, map[string]any{"severity": "warning"}},
	}
	tr := mustTester(t, fakelint.New(), cfg)

	cfg.RuleOptions.([]any)[1].(map[string]any)["severity"] = "error"
	cfg.StylelintConfig["customSyntax"] = "postcss-less"

	st := &softT{}
	out, err := tr.Invalid(t.Context(), st, types.TestCase{Code: "", Warnings: types.Messages{types.Partial{"severity": "warning"}}})
	require.NoError(t, err)
	assert.Empty(t, st.errors)
	assert.NotContains(t, tr.Config().StylelintConfig, "customSyntax")
	assert.Equal(t, types.SeverityWarning, out.Result.Warnings[0].Severity)
}
