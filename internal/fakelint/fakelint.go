// Package fakelint is an in-memory linter with a handful of toy rules. It
// implements just enough of the linter contract to drive the harness in
// tests: single-rule configs, fix mode, the four diagnostic categories and
// rule metadata.
package fakelint

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/tylerbu/stylelint-test-lib/config"
	"github.com/tylerbu/stylelint-test-lib/types"
)

// Rule names known to New.
const (
	NoEmptySource         = "no-empty-source"
	AtRuleNoVendorPrefix  = "at-rule-no-vendor-prefix"
	AlwaysChanging        = "always-changing"
	StripLeadingSpace     = "strip-leading-space"
	DeprecatedRule        = "deprecated-rule"
	RuleDocsBase          = "https://stylelint.io/user-guide/rules/"
	parseErrorPlugin      = "postcss"
	invalidOptionTemplate = "Invalid option name %q for rule %q"
)

// Rule is a toy rule. Check reports problems in code; Fix, when set,
// returns the fixed code.
type Rule struct {
	Meta config.RuleMeta
	// Secondary lists the accepted secondary option names.
	Secondary []string
	Check     func(code string) []types.Warning
	Fix       func(code string) string
}

// Linter lints with the registered rules. It is safe for concurrent use.
type Linter struct {
	// Err, when set, is returned by every Lint call.
	Err error
	// DropResults makes Lint return a result without per-source entries.
	DropResults bool

	rules map[string]Rule

	mu    sync.Mutex
	calls []types.LinterOptions
}

// New returns a linter with the built-in rules registered.
func New() *Linter {
	l := &Linter{rules: map[string]Rule{}}
	l.Register(NoEmptySource, Rule{
		Meta:  config.RuleMeta{URL: RuleDocsBase + NoEmptySource},
		Check: checkEmptySource,
	})
	l.Register(AtRuleNoVendorPrefix, Rule{
		Meta:      config.RuleMeta{URL: RuleDocsBase + AtRuleNoVendorPrefix, Fixable: true},
		Secondary: []string{"ignoreAtRules"},
		Check:     checkVendorPrefix,
		Fix:       fixVendorPrefix,
	})
	l.Register(AlwaysChanging, Rule{
		Meta: config.RuleMeta{Fixable: true},
		Check: func(code string) []types.Warning {
			return []types.Warning{{Line: 1, Column: 1, Text: "Expected stable output (always-changing)"}}
		},
		Fix: func(code string) string { return code + ";" },
	})
	l.Register(StripLeadingSpace, Rule{
		Meta:  config.RuleMeta{Fixable: true},
		Check: checkLeadingSpace,
		Fix: func(code string) string {
			return strings.TrimPrefix(code, " ")
		},
	})
	l.Register(DeprecatedRule, Rule{
		Meta: config.RuleMeta{URL: RuleDocsBase + DeprecatedRule, Deprecated: true},
	})
	return l
}

// Register adds or replaces a rule.
func (l *Linter) Register(name string, rule Rule) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rules[name] = rule
}

// RuleMeta implements linter.MetaResolver.
func (l *Linter) RuleMeta(name string) (config.RuleMeta, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rule, ok := l.rules[name]
	return rule.Meta, ok
}

// Calls returns a copy of every invocation so far.
func (l *Linter) Calls() []types.LinterOptions {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]types.LinterOptions(nil), l.calls...)
}

// FixCalls counts the invocations made in fix mode.
func (l *Linter) FixCalls() int {
	n := 0
	for _, call := range l.Calls() {
		if call.Fix {
			n++
		}
	}
	return n
}

// Lint applies every rule configured in opts.Config["rules"].
func (l *Linter) Lint(ctx context.Context, opts types.LinterOptions) (*types.LinterResult, error) {
	l.mu.Lock()
	l.calls = append(l.calls, opts)
	rules := make(map[string]Rule, len(l.rules))
	for name, rule := range l.rules {
		rules[name] = rule
	}
	l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.Err != nil {
		return nil, l.Err
	}

	code := opts.Code
	result := types.LintResult{Source: opts.CodeFilename}
	if l.DropResults {
		return &types.LinterResult{Code: code}, nil
	}

	if pe, ok := checkBraces(code); ok {
		result.ParseErrors = append(result.ParseErrors, pe)
		result.Errored = true
		return &types.LinterResult{Code: code, Errored: true, Results: []types.LintResult{result}}, nil
	}

	configured, _ := opts.Config["rules"].(map[string]any)
	names := make([]string, 0, len(configured))
	for name := range configured {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rule, ok := rules[name]
		if !ok {
			result.InvalidOptionWarnings = append(result.InvalidOptionWarnings, types.InvalidOptionWarning{
				Text: fmt.Sprintf("Unknown rule %s.", name),
			})
			continue
		}
		primary, secondary := splitOptions(configured[name])
		if primary == nil {
			continue
		}
		if invalid := unknownSecondary(name, rule, secondary); len(invalid) > 0 {
			result.InvalidOptionWarnings = append(result.InvalidOptionWarnings, invalid...)
			continue
		}
		if rule.Meta.Deprecated {
			result.Deprecations = append(result.Deprecations, types.Deprecation{
				Text:      fmt.Sprintf("The %q rule is deprecated.", name),
				Reference: rule.Meta.URL,
			})
		}

		if opts.Fix && rule.Fix != nil {
			code = rule.Fix(code)
		}
		if rule.Check == nil {
			continue
		}
		for _, w := range rule.Check(code) {
			w.Rule = name
			w.Severity = severityOf(secondary)
			if url, ok := secondary["url"].(string); ok {
				w.URL = url
			}
			if w.Severity == types.SeverityError {
				result.Errored = true
			}
			result.Warnings = append(result.Warnings, w)
		}
	}

	return &types.LinterResult{Code: code, Errored: result.Errored, Results: []types.LintResult{result}}, nil
}

func splitOptions(v any) (any, map[string]any) {
	values, ok := v.([]any)
	if !ok {
		return v, nil
	}
	if len(values) == 0 {
		return nil, nil
	}
	var secondary map[string]any
	if len(values) > 1 {
		secondary, _ = values[1].(map[string]any)
	}
	return values[0], secondary
}

func unknownSecondary(name string, rule Rule, secondary map[string]any) []types.InvalidOptionWarning {
	var invalid []types.InvalidOptionWarning
	keys := make([]string, 0, len(secondary))
	for key := range secondary {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		switch key {
		case "url", "severity", "message":
			continue
		}
		known := false
		for _, allowed := range rule.Secondary {
			if allowed == key {
				known = true
				break
			}
		}
		if !known {
			invalid = append(invalid, types.InvalidOptionWarning{Text: fmt.Sprintf(invalidOptionTemplate, key, name)})
		}
	}
	return invalid
}

func severityOf(secondary map[string]any) types.Severity {
	if s, ok := secondary["severity"].(string); ok && s == string(types.SeverityWarning) {
		return types.SeverityWarning
	}
	return types.SeverityError
}

func checkBraces(code string) (types.ParseError, bool) {
	depth := 0
	for i, r := range code {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				line, col := position(code, i)
				return types.ParseError{Line: line, Column: col, Plugin: parseErrorPlugin, Text: "Unexpected } (CssSyntaxError)", StylelintType: "parseError"}, true
			}
		}
	}
	if depth > 0 {
		return types.ParseError{Line: 1, Column: 1, Plugin: parseErrorPlugin, Text: "Unclosed block (CssSyntaxError)", StylelintType: "parseError"}, true
	}
	return types.ParseError{}, false
}

func checkEmptySource(code string) []types.Warning {
	if strings.TrimSpace(code) != "" {
		return nil
	}
	return []types.Warning{{Line: 1, Column: 1, Text: "Unexpected empty source (no-empty-source)"}}
}

var vendorPrefix = regexp.MustCompile(`(?i)@-(webkit|moz|ms|o)-([a-z-]+)`)

func checkVendorPrefix(code string) []types.Warning {
	var warnings []types.Warning
	for _, loc := range vendorPrefix.FindAllStringIndex(code, -1) {
		line, col := position(code, loc[0])
		at := code[loc[0]:loc[1]]
		warnings = append(warnings, types.Warning{
			Line:      line,
			Column:    col,
			EndLine:   line,
			EndColumn: col + len(at),
			Text:      fmt.Sprintf("Unexpected vendor-prefixed at-rule %q (%s)", at, AtRuleNoVendorPrefix),
		})
	}
	return warnings
}

func fixVendorPrefix(code string) string {
	return vendorPrefix.ReplaceAllString(code, "@$2")
}

func checkLeadingSpace(code string) []types.Warning {
	if !strings.HasPrefix(code, " ") {
		return nil
	}
	return []types.Warning{{Line: 1, Column: 1, Text: "Unexpected leading whitespace (strip-leading-space)"}}
}

// position converts a byte offset to a 1-based line and column.
func position(code string, offset int) (int, int) {
	line, col := 1, 1
	for _, r := range code[:offset] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
