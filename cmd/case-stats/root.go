package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tylerbu/stylelint-test-lib/loader"
)

// NewRootCmd creates the root case-stats command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "case-stats",
		Short:         "case-stats - inspect stylelint rule case files",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
	}
	root.AddCommand(NewStatsCmd())
	root.AddCommand(NewListCmd())
	return root
}

// loadSuites loads every case file below dir, optionally only those for rule.
func loadSuites(dir, rule string) ([]loader.Suite, error) {
	opts := loader.LoadOptions{FilterMode: loader.FilterAll}
	if rule != "" {
		opts = loader.LoadOptions{FilterMode: loader.FilterRule, Rule: rule}
	}
	suites, err := loader.NewCaseLoader(dir).LoadAll(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load cases from %s: %w", dir, err)
	}
	return suites, nil
}

// isTerminal reports whether w is a terminal. Swapped out in tests.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type painter struct {
	enabled bool
}

func newPainter(w io.Writer) painter {
	return painter{enabled: isTerminal(w)}
}

func (p painter) bold(s string) string  { return p.wrap("1", s) }
func (p painter) green(s string) string { return p.wrap("32", s) }
func (p painter) red(s string) string   { return p.wrap("31", s) }

func (p painter) wrap(code, s string) string {
	if !p.enabled {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}
