package cmd

import (
	"fmt"
	"io"

	"github.com/chriserin/stepx/expressions"
	"github.com/chriserin/stepx/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a step definition and the steps it matches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func RunShow(w io.Writer, rawID string) error {
	id, err := parseDefinitionID(rawID)
	if err != nil {
		return err
	}

	sqlDB, err := openProject()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var source, kind string
	err = sqlDB.QueryRow(`SELECT expression, kind FROM definitions WHERE id = ?`, id).Scan(&source, &kind)
	if err != nil {
		return fmt.Errorf("definition %d not found", id)
	}

	registry, err := loadRegistry()
	if err != nil {
		return err
	}
	expr, err := expressions.NewExpression(source, registry)
	if err != nil {
		return err
	}

	ui.ShowHeader(w, id, source, kind)

	rows, err := sqlDB.Query(`
		SELECT f.file_path, s.line, s.keyword, s.text
		FROM steps s
		JOIN files f ON s.file_id = f.id
		WHERE s.definition_id = ?
		ORDER BY f.file_path, s.line
	`, id)
	if err != nil {
		return fmt.Errorf("querying steps: %w", err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var path, keyword, text string
		var line int
		if err := rows.Scan(&path, &line, &keyword, &text); err != nil {
			return fmt.Errorf("scanning step: %w", err)
		}
		if !found {
			fmt.Fprintln(w)
		}
		found = true

		ui.ShowStep(w, fmt.Sprintf("%s:%d", path, line), keyword, text)
		printArguments(w, expr.Match(text))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating steps: %w", err)
	}

	if !found {
		fmt.Fprintf(w, "\nno steps match #%d\n", id)
	}
	return nil
}

// printArguments prints each argument on its own line. A failing
// transformation is shown in place and does not affect its siblings.
func printArguments(w io.Writer, args []*expressions.Argument) {
	for _, arg := range args {
		raw := ""
		if v := arg.Group().Value; v != nil {
			raw = *v
		}
		value, err := arg.Value()
		ui.ShowArgument(w, arg.ParameterType().Name(), raw, value, err)
	}
}
