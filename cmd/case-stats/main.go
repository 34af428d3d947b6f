// Command case-stats summarizes and lists the rule test cases kept in case files.
package main

import (
	"fmt"
	"os"

	stylelint_test_lib "github.com/tylerbu/stylelint-test-lib"
)

func main() {
	rootCmd := NewRootCmd()
	rootCmd.Version = stylelint_test_lib.Version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
