package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/quantasplit/internal/sql/splitter"
)

// NewRootCommand returns the splitplan command tree.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	rc := &cobra.Command{
		Use:   "splitplan",
		Short: "splitplan - split a logical query plan into distributed subplans",
		Long: `
Reads a single-partition logical plan from a YAML or JSON plan file and
rewrites it into a forest of subplans connected by exchange operators,
one subplan per unit of distributed execution.
`,
		SilenceUsage: true,
	}
	rc.SetIn(stdin)
	rc.SetOut(stdout)
	rc.SetErr(stderr)
	rc.PersistentFlags().StringP("config", "c", "", "Configuration file to read from.")
	rc.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error).")

	rc.AddCommand(newSplitCommand(stdin, stdout, stderr))
	rc.AddCommand(newVersionCommand(stdout))
	return rc
}

func newVersionCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "splitplan v%s (commit: %s)\n", version, commit)
			fmt.Fprintf(stdout, "split rules: %s\n", strings.Join(splitter.RuleNames(), ", "))
		},
	}
}
