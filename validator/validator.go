// Package validator compares actual lint results and fixed output with a
// case's expectations. Mismatches are reported through testify's assert so
// every failing expectation of a case shows up, not just the first one.
package validator

import (
	"fmt"

	"github.com/stretchr/testify/assert"

	"github.com/tylerbu/stylelint-test-lib/normalizer"
	"github.com/tylerbu/stylelint-test-lib/testerr"
	"github.com/tylerbu/stylelint-test-lib/types"
)

// MissingAssertionsMessage is reported for invalid cases that assert nothing.
const MissingAssertionsMessage = "invalid test case must have either 'output', 'warnings', 'parseErrors', 'deprecations', or 'invalidOptionWarnings' property"

// CheckStructure rejects an invalid case without any output or diagnostic
// expectation. It runs before the linter is called.
func CheckStructure(c types.NormalizedCase) error {
	if c.Type == types.Invalid && !c.HasAssertions() {
		return testerr.New(testerr.Specification, MissingAssertionsMessage)
	}
	return nil
}

// ValidateLintResult checks each diagnostic category independently.
func ValidateLintResult(t types.TestingT, c types.NormalizedCase, result types.LintResult) {
	VerifyMessages(t, types.CategoryWarnings, c.Warnings, result.Warnings)
	VerifyMessages(t, types.CategoryParseErrors, c.ParseErrors, result.ParseErrors)
	VerifyMessages(t, types.CategoryDeprecations, c.Deprecations, result.Deprecations)
	VerifyMessages(t, types.CategoryInvalidOptionWarnings, c.InvalidOptionWarnings, result.InvalidOptionWarnings)
}

// VerifyMessages checks one category. An absent expectation checks nothing.
func VerifyMessages[T types.Diagnostic](t types.TestingT, category string, expected types.Expectation, got []T) {
	if !types.Present(expected) {
		return
	}
	switch exp := expected.(type) {
	case types.Check[T]:
		exp(t, got)
	case types.Count:
		assert.Len(t, got, int(exp), "number of %s", category)
	case types.Messages:
		if !assert.Len(t, got, len(exp), "number of %s", category) {
			return
		}
		for i, message := range exp {
			verifyMessage(t, category, i, message, got[i])
		}
	default:
		assert.Fail(t, fmt.Sprintf("unsupported expectation %T for %s", expected, category))
	}
}

// verifyMessage matches the fields present in the expected message against
// the actual diagnostic at the same index.
func verifyMessage[T types.Diagnostic](t types.TestingT, category string, idx int, message any, actual T) {
	want, err := normalizer.NormalizeMessage(message)
	if err != nil {
		assert.Fail(t, fmt.Sprintf("object of %s-%d: %v", category, idx, err))
		return
	}
	have, err := normalizer.ToFields(actual)
	if err != nil {
		assert.Fail(t, fmt.Sprintf("object of %s-%d: %v", category, idx, err))
		return
	}

	subset := make(map[string]any, len(want))
	for key := range want {
		subset[key] = have[key]
	}
	assert.Equal(t, map[string]any(want), subset, "object of %s-%d", category, idx)
}

// ValidateOutput checks the final code. A nil Output checks nothing.
func ValidateOutput(t types.TestingT, c types.NormalizedCase, code string) {
	switch exp := c.Output.(type) {
	case nil:
	case types.Unchanged:
		assert.Equal(t, c.Code, code, "output should be unchanged")
	case types.Exact:
		assert.Equal(t, string(exp), code, "output")
	case types.OutputFunc:
		exp(t, code, c.Code)
	default:
		assert.Fail(t, fmt.Sprintf("unsupported output expectation %T", c.Output))
	}
}

// ValidatePolarity applies the checks every case gets regardless of its
// expectations. Valid cases must not be fixed and must report nothing.
// Invalid cases must report something, and once fixed must be warning-free.
func ValidatePolarity(t types.TestingT, c types.NormalizedCase, result *types.ExecutionResult) {
	switch c.Type {
	case types.Valid:
		assert.False(t, result.Fixed, "valid case should not be fixed")
		assert.Empty(t, result.Warnings, "valid case should have no %s", types.CategoryWarnings)
		assert.Empty(t, result.ParseErrors, "valid case should have no %s", types.CategoryParseErrors)
		assert.Empty(t, result.Deprecations, "valid case should have no %s", types.CategoryDeprecations)
		assert.Empty(t, result.InvalidOptionWarnings, "valid case should have no %s", types.CategoryInvalidOptionWarnings)
	case types.Invalid:
		if result.Fixed {
			assert.Empty(t, result.Warnings, "fixed invalid case should have no %s", types.CategoryWarnings)
			return
		}
		assert.True(t, result.HasDiagnostics(), "invalid case should report at least one diagnostic")
	}
}
