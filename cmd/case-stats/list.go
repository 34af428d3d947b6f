package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tylerbu/stylelint-test-lib/loader"
	"github.com/tylerbu/stylelint-test-lib/types"
)

// NewListCmd creates the list subcommand. It prints one line per case,
// labeled the way the runner names its subtests.
func NewListCmd() *cobra.Command {
	var rule string
	cmd := &cobra.Command{
		Use:          "list <dir>",
		Short:        "List every case with its subtest label",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			suites, err := loadSuites(args[0], rule)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			p := newPainter(w)
			for _, s := range suites {
				fmt.Fprintf(w, "%s (%s)\n", p.bold(s.Rule), s.Path)
				for i, c := range s.Valid {
					fmt.Fprintf(w, "  %s\n", p.green(oneLine(loader.Label(types.Valid, i, c))))
				}
				for i, c := range s.Invalid {
					fmt.Fprintf(w, "  %s\n", p.red(oneLine(loader.Label(types.Invalid, i, c))))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rule, "rule", "", "only list suites for this rule")
	return cmd
}

var lineEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`, "\t", `\t`)

// oneLine escapes line breaks and tabs so a label never spans lines.
func oneLine(label string) string {
	return lineEscaper.Replace(label)
}
