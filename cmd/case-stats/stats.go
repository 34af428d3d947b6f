package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tylerbu/stylelint-test-lib/config"
	"github.com/tylerbu/stylelint-test-lib/loader"
)

// NewStatsCmd creates the stats subcommand.
func NewStatsCmd() *cobra.Command {
	var rule string
	cmd := &cobra.Command{
		Use:          "stats <dir>",
		Short:        "Print case counts per rule and per source dialect",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			suites, err := loadSuites(args[0], rule)
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), loader.GetStatistics(suites))
			return nil
		},
	}
	cmd.Flags().StringVar(&rule, "rule", "", "only count suites for this rule")
	return cmd
}

func printStats(w io.Writer, stats loader.Statistics) {
	p := newPainter(w)

	fmt.Fprintln(w, p.bold("Case statistics"))
	fmt.Fprintf(w, "  suites:      %d\n", stats.Suites)
	fmt.Fprintf(w, "  valid:       %s\n", p.green(fmt.Sprint(stats.ValidCases)))
	fmt.Fprintf(w, "  invalid:     %s\n", p.red(fmt.Sprint(stats.InvalidCases)))
	fmt.Fprintf(w, "  with output: %d\n", stats.WithOutput)

	if len(stats.ByRule) > 0 {
		fmt.Fprintln(w, p.bold("By rule"))
		rules := make([]string, 0, len(stats.ByRule))
		for r := range stats.ByRule {
			rules = append(rules, r)
		}
		sort.Strings(rules)
		for _, r := range rules {
			fmt.Fprintf(w, "  %-40s %d\n", r, stats.ByRule[r])
		}
	}

	if len(stats.ByDialect) > 0 {
		fmt.Fprintln(w, p.bold("By dialect"))
		for _, d := range config.AllDialects() {
			if n, ok := stats.ByDialect[d]; ok {
				fmt.Fprintf(w, "  %-40s %d\n", d, n)
			}
		}
	}
}
