// Package config provides the tester-level configuration for a rule under
// test: rule identity and metadata, default style configuration, default
// filenames per source dialect and the fix-loop behavior flags.
package config

import (
	"fmt"
	"strings"
)

const (
	// DefaultRuleName is used when neither Tester.Name nor Tester.Rule names the rule.
	DefaultRuleName = "rule-to-test"

	// DefaultFilename is the last-resort filename for cases without one.
	DefaultFilename = "file.css"

	// DefaultRecursive is the fix-loop budget when nothing overrides it.
	DefaultRecursive = 10

	// RecursionDisabled as a Recursive value turns the stabilizing loop off.
	RecursionDisabled = -1
)

// DefaultRuleOptions is the primary option used when no rule options are given.
const DefaultRuleOptions = true

// Stylelint is a free-form style configuration object (customSyntax,
// plugins, rules, ...) or a set of pass-through linter options.
type Stylelint map[string]any

// Dialect represents a source-language variant recognized by file extension
type Dialect string

const (
	DialectCSS     Dialect = "css"
	DialectLess    Dialect = "less"
	DialectPostCSS Dialect = "postcss"
	DialectSass    Dialect = "sass"
	DialectSCSS    Dialect = "scss"
	DialectStyl    Dialect = "styl"
	DialectStylus  Dialect = "stylus"
)

// AllDialects returns all built-in dialects
func AllDialects() []Dialect {
	return []Dialect{
		DialectCSS,
		DialectLess,
		DialectPostCSS,
		DialectSass,
		DialectSCSS,
		DialectStyl,
		DialectStylus,
	}
}

// DefaultFilenames returns a fresh map of the built-in filename per dialect.
func DefaultFilenames() map[Dialect]string {
	filenames := make(map[Dialect]string, len(AllDialects()))
	for _, d := range AllDialects() {
		filenames[d] = "file." + string(d)
	}
	return filenames
}

// DialectOf maps a filename to its dialect by extension. Unknown extensions
// fall back to CSS.
func DialectOf(filename string) Dialect {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return DialectCSS
	}
	ext := Dialect(strings.ToLower(filename[idx+1:]))
	for _, d := range AllDialects() {
		if d == ext {
			return d
		}
	}
	return DialectCSS
}

// RuleMeta carries rule metadata the harness can inject into rule options.
type RuleMeta struct {
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
	Fixable    bool   `json:"fixable,omitempty" yaml:"fixable,omitempty"`
	Deprecated bool   `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// Rule identifies the rule module under test.
type Rule struct {
	Name string
	Meta *RuleMeta
}

// Tester is the per-rule configuration shared by every case of a run.
// A Tester handed to the harness is cloned and never mutated afterwards.
type Tester struct {
	// Name of the rule to test. Takes precedence over Rule.Name.
	Name string

	// Rule module under test, optional.
	Rule *Rule

	// StylelintConfig is deep-merged under each case's own config.
	StylelintConfig Stylelint

	// LinterOptions are passed through to every linter invocation.
	LinterOptions Stylelint

	// RuleOptions used when a case does not provide its own.
	RuleOptions any

	// DefaultFilenames overrides the built-in filename for some dialects.
	DefaultFilenames map[Dialect]string

	Behavior

	// Verbose logs each lint invocation through the test handle.
	Verbose bool

	// Parallel runs the cases of a batch as parallel subtests.
	Parallel bool
}

// RuleName resolves the name of the rule under test
func (c Tester) RuleName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Rule != nil && c.Rule.Name != "" {
		return c.Rule.Name
	}
	return DefaultRuleName
}

// Filenames returns the built-in default filenames overlaid with the
// configured ones.
func (c Tester) Filenames() map[Dialect]string {
	filenames := DefaultFilenames()
	for d, name := range c.DefaultFilenames {
		filenames[d] = name
	}
	return filenames
}

// Clone returns a copy that shares no mutable state with c.
func (c Tester) Clone() Tester {
	clone := c
	clone.StylelintConfig = c.StylelintConfig.Clone()
	clone.LinterOptions = c.LinterOptions.Clone()
	clone.RuleOptions = CloneValue(c.RuleOptions)
	if c.Rule != nil {
		rule := *c.Rule
		if c.Rule.Meta != nil {
			meta := *c.Rule.Meta
			rule.Meta = &meta
		}
		clone.Rule = &rule
	}
	if c.DefaultFilenames != nil {
		clone.DefaultFilenames = make(map[Dialect]string, len(c.DefaultFilenames))
		for d, name := range c.DefaultFilenames {
			clone.DefaultFilenames[d] = name
		}
	}
	clone.Behavior = c.Behavior.clone()
	return clone
}

// Validate checks the configuration for values the harness cannot honor
func (c Tester) Validate() error {
	if c.Name != "" && c.Rule != nil && c.Rule.Name != "" && c.Name != c.Rule.Name {
		return &ConfigError{
			Type:    "rule_name_mismatch",
			Message: fmt.Sprintf("name %q does not match rule name %q", c.Name, c.Rule.Name),
		}
	}
	if strings.ContainsAny(c.RuleName(), " \t\n") {
		return &ConfigError{
			Type:    "invalid_rule_name",
			Message: fmt.Sprintf("rule name %q contains whitespace", c.RuleName()),
		}
	}
	for d, name := range c.DefaultFilenames {
		if name == "" {
			return &ConfigError{
				Type:    "empty_filename",
				Message: "default filename for dialect " + string(d) + " is empty",
			}
		}
	}
	return c.Behavior.Validate()
}

// ConfigError represents configuration validation errors
type ConfigError struct {
	Type    string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Type + ": " + e.Message
}

// Clone deep-copies nested maps and slices.
func (s Stylelint) Clone() Stylelint {
	if s == nil {
		return nil
	}
	clone := make(Stylelint, len(s))
	for k, v := range s {
		clone[k] = CloneValue(v)
	}
	return clone
}

// CloneValue deep-copies the map and slice shapes produced by decoding
// JSON or YAML. Other values are returned as-is.
func CloneValue(v any) any {
	switch val := v.(type) {
	case Stylelint:
		return val.Clone()
	case map[string]any:
		return map[string]any(Stylelint(val).Clone())
	case []any:
		clone := make([]any, len(val))
		for i, item := range val {
			clone[i] = CloneValue(item)
		}
		return clone
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}
