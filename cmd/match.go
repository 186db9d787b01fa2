package cmd

import (
	"fmt"
	"io"

	"github.com/chriserin/stepx/expressions"
	"github.com/spf13/cobra"
)

var showRegexpFlag bool

var matchCmd = &cobra.Command{
	Use:   "match <expression> <text>",
	Short: "Match text against an expression and print the argument values",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunMatch(cmd.OutOrStdout(), args[0], args[1], showRegexpFlag)
	},
}

func init() {
	matchCmd.Flags().BoolVar(&showRegexpFlag, "regexp", false, "Print the compiled regular expression")
	rootCmd.AddCommand(matchCmd)
}

// RunMatch does not need an initialized project. Custom parameter types are
// picked up when the config exists.
func RunMatch(w io.Writer, source, text string, showRegexp bool) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}
	expr, err := expressions.NewExpression(source, registry)
	if err != nil {
		return err
	}

	if showRegexp {
		fmt.Fprintln(w, expr.Regexp().String())
	}

	args := expr.Match(text)
	if args == nil {
		fmt.Fprintln(w, "no match")
		return nil
	}
	fmt.Fprintf(w, "match with %d arguments\n", len(args))
	printArguments(w, args)
	return nil
}
