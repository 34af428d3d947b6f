// Package stylelint_test_lib provides a rule-conformance test harness for
// style-sheet lint rules: it runs valid and invalid source snippets through
// a linter, checks the diagnostics and drives autofixes to a fixpoint.
package stylelint_test_lib

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tylerbu/stylelint-test-lib/config"
	"github.com/tylerbu/stylelint-test-lib/linter"
	"github.com/tylerbu/stylelint-test-lib/loader"
	"github.com/tylerbu/stylelint-test-lib/tester"
	"github.com/tylerbu/stylelint-test-lib/types"
)

// Version of the stylelint-test-lib package
const Version = "v0.1.0"

// Quick constructor functions for common use cases

// NewTester creates a tester for one rule
func NewTester(l linter.Linter, cfg config.Tester) (*tester.Tester, error) {
	return tester.New(cfg, l)
}

// NewLoader creates a case-file loader rooted at dir
func NewLoader(dir string) *loader.CaseLoader {
	return loader.NewCaseLoader(dir)
}

// Run builds a tester from cfg and runs the batch as subtests of t.
func Run(t *testing.T, l linter.Linter, cfg config.Tester, batch types.Batch) {
	t.Helper()
	tr, err := tester.New(cfg, l)
	require.NoError(t, err)
	tr.Run(t, batch)
}

// RunClassic runs the batch for ruleName, with rule and cfg supplying the
// rest of the tester configuration.
func RunClassic(t *testing.T, l linter.Linter, ruleName string, rule *config.Rule, batch types.Batch, cfg config.Tester) {
	t.Helper()
	cfg.Name = ruleName
	if rule != nil {
		r := *rule
		if r.Name == "" {
			r.Name = ruleName
		}
		cfg.Rule = &r
	}
	Run(t, l, cfg, batch)
}

// LoadAndRun runs every case file below dir, each with its suite settings
// layered over base.
func LoadAndRun(t *testing.T, l linter.Linter, dir string, base config.Tester) {
	t.Helper()
	suites, err := loader.NewCaseLoader(dir).LoadAll(loader.LoadOptions{FilterMode: loader.FilterAll})
	require.NoError(t, err)
	require.NotEmpty(t, suites, "no case files found in %s", dir)

	for _, suite := range suites {
		Run(t, l, suite.Tester(base), suite.Batch())
	}
}

// GetCaseStats provides quick statistics for the case files below dir
func GetCaseStats(dir string) (loader.Statistics, error) {
	suites, err := loader.NewCaseLoader(dir).LoadAll(loader.LoadOptions{FilterMode: loader.FilterAll})
	if err != nil {
		return loader.Statistics{}, err
	}
	return loader.GetStatistics(suites), nil
}

// Unindent strips a leading and a trailing blank line and the indentation
// common to all non-blank lines, so snippets can be written as indented
// raw strings.
func Unindent(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) > 1 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) > 1 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return strings.Join(lines, "\n")
	}

	for i, line := range lines {
		if len(line) >= indent {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
