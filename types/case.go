package types

import "github.com/tylerbu/stylelint-test-lib/config"

// CaseType is the polarity of a test case
type CaseType string

const (
	Valid   CaseType = "valid"
	Invalid CaseType = "invalid"
)

// Case is anything the normalizer accepts: a bare Code, a TestCase or an
// already NormalizedCase.
type Case interface {
	testCase() TestCase
}

// Code is the shorthand for a case that only has source code.
type Code string

func (c Code) testCase() TestCase { return TestCase{Code: string(c)} }

// TestCase is a raw test case as written in a test file.
type TestCase struct {
	// Code to lint
	Code string
	// Filename defaults to the tester's CSS filename
	Filename string
	// Name of the case
	Name string
	// Description is used as the subtest label when present
	Description string

	// StylelintConfig is deep-merged over the tester's config
	StylelintConfig config.Stylelint
	// LinterOptions override the tester's pass-through linter options
	LinterOptions config.Stylelint
	// RuleOptions override the tester's rule options; nil inherits
	RuleOptions any

	Warnings              Expectation
	ParseErrors           Expectation
	Deprecations          Expectation
	InvalidOptionWarnings Expectation

	// Output is the expected code after fixing; nil skips the check
	Output Output

	config.Behavior

	Only bool
	Skip bool

	// Before runs ahead of the first lint and may adjust the options.
	Before func(c NormalizedCase, opts *LinterOptions) error
	// After runs once the case has been executed and validated.
	After func(c NormalizedCase, result *ExecutionResult) error
	// Deprecated: use After.
	OnResult func(result *ExecutionResult) error
}

func (c TestCase) testCase() TestCase { return c }

// NormalizedCase has a non-empty Filename and an explicit Type.
type NormalizedCase struct {
	TestCase
	Type CaseType
}

// Label is the description, falling back to the code.
func (c NormalizedCase) Label() string {
	if c.Description != "" {
		return c.Description
	}
	return c.Code
}

// HasAssertions reports whether the case defines any output or diagnostic expectation.
func (c TestCase) HasAssertions() bool {
	return c.Output != nil ||
		c.Warnings != nil ||
		c.ParseErrors != nil ||
		c.Deprecations != nil ||
		c.InvalidOptionWarnings != nil
}

// Raw extracts the TestCase behind any Case.
func Raw(c Case) TestCase {
	if c == nil {
		return TestCase{}
	}
	return c.testCase()
}

// Batch is an ordered set of valid and invalid cases for one rule.
type Batch struct {
	Valid   []Case
	Invalid []Case
	// OnResult is called after each case has run.
	OnResult func(c NormalizedCase, result *ExecutionResult) error
}
