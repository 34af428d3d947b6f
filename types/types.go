// Package types defines the data model shared by the harness: diagnostics
// reported by the linter, lint snapshots, test cases and execution results.
package types

import "github.com/tylerbu/stylelint-test-lib/config"

// Severity of a rule warning
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Warning is a diagnostic reported by a rule.
// Every field is omitempty so a zero field never takes part in a partial match.
type Warning struct {
	Line          int      `json:"line,omitempty"`
	Column        int      `json:"column,omitempty"`
	EndLine       int      `json:"endLine,omitempty"`
	EndColumn     int      `json:"endColumn,omitempty"`
	Rule          string   `json:"rule,omitempty"`
	Severity      Severity `json:"severity,omitempty"`
	Text          string   `json:"text,omitempty"`
	URL           string   `json:"url,omitempty"`
	StylelintType string   `json:"stylelintType,omitempty"`
}

// ParseError is a syntax problem reported while parsing the source.
type ParseError struct {
	Line          int    `json:"line,omitempty"`
	Column        int    `json:"column,omitempty"`
	EndLine       int    `json:"endLine,omitempty"`
	EndColumn     int    `json:"endColumn,omitempty"`
	Plugin        string `json:"plugin,omitempty"`
	Text          string `json:"text,omitempty"`
	StylelintType string `json:"stylelintType,omitempty"`
}

// Deprecation is reported when a deprecated rule or option is used.
type Deprecation struct {
	Text      string `json:"text,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// InvalidOptionWarning is reported for rule options the rule rejects.
type InvalidOptionWarning struct {
	Text string `json:"text,omitempty"`
}

// Diagnostic is the set of diagnostic categories.
type Diagnostic interface {
	Warning | ParseError | Deprecation | InvalidOptionWarning
}

// Category names, as used in assertion messages.
const (
	CategoryWarnings              = "warnings"
	CategoryParseErrors           = "parseErrors"
	CategoryDeprecations          = "deprecations"
	CategoryInvalidOptionWarnings = "invalidOptionWarnings"
)

// LintResult is the linter's report for one source.
type LintResult struct {
	Source                string                 `json:"source,omitempty"`
	Errored               bool                   `json:"errored"`
	Warnings              []Warning              `json:"warnings"`
	ParseErrors           []ParseError           `json:"parseErrors"`
	Deprecations          []Deprecation          `json:"deprecations"`
	InvalidOptionWarnings []InvalidOptionWarning `json:"invalidOptionWarnings"`
}

// HasDiagnostics reports whether any category is non-empty.
func (r LintResult) HasDiagnostics() bool {
	return len(r.Warnings) > 0 ||
		len(r.ParseErrors) > 0 ||
		len(r.Deprecations) > 0 ||
		len(r.InvalidOptionWarnings) > 0
}

// LinterOptions describes one linter invocation.
type LinterOptions struct {
	// Config is the merged style configuration with a single-rule "rules" map.
	Config config.Stylelint
	// Code is the source text to lint.
	Code string
	// CodeFilename selects the dialect and is reported as the result source.
	CodeFilename string
	// Fix enables autofix; the fixed text comes back in LinterResult.Code.
	Fix bool
	// QuietDeprecationWarnings keeps deprecation notices out of the process output.
	QuietDeprecationWarnings bool
	// Extra holds pass-through options the harness does not interpret.
	Extra config.Stylelint
}

// LinterResult is what the linter returns for one invocation.
type LinterResult struct {
	// Code is the output code; equal to the input unless a fix changed it.
	Code    string
	Errored bool
	Results []LintResult
}

// Step is the snapshot of one fix iteration.
type Step struct {
	LintResult
	// Code produced by this iteration.
	Code string `json:"code"`
	// Fixed reports whether this iteration changed its input.
	Fixed bool `json:"fixed"`
}

// ExecutionResult accumulates everything observed while running one case.
type ExecutionResult struct {
	// LintResult is the final snapshot (the last fix iteration).
	LintResult
	// Probe is the baseline non-fix snapshot validated against expectations.
	Probe LintResult
	// Code is the final code after all fix iterations.
	Code string
	// Fixed is true if any fix iteration changed the code.
	Fixed bool
	// Steps holds every fix iteration in order, the first attempt included.
	Steps []Step
	// Verification is the non-fix re-lint of fixed code, when it ran.
	Verification *LintResult
}
