package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/chriserin/stepx/internal/ui"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the parameter types available to expressions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunTypes(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

func RunTypes(w io.Writer) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	types := registry.ParameterTypes()
	nameWidth, regexpWidth := 0, 0
	for _, pt := range types {
		if len(pt.Name()) > nameWidth {
			nameWidth = len(pt.Name())
		}
		if n := len(strings.Join(pt.Regexps(), " | ")); n > regexpWidth {
			regexpWidth = n
		}
	}

	for _, pt := range types {
		target := "any"
		if pt.TargetType() != nil {
			target = pt.TargetType().String()
		}
		ui.TypeRow(w, pt.Name(), strings.Join(pt.Regexps(), " | "), target, nameWidth, regexpWidth)
	}
	fmt.Fprintf(w, "locale: %s\n", registry.Locale())
	return nil
}
