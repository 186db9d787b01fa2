package cmd

import (
	"fmt"
	"io"

	"github.com/chriserin/stepx/internal/ui"
	"github.com/spf13/cobra"
)

var ambiguousFlag bool

var undefinedCmd = &cobra.Command{
	Use:   "undefined",
	Short: "List steps no definition matches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status := ui.Undefined
		if ambiguousFlag {
			status = ui.Ambiguous
		}
		return RunUndefined(cmd.OutOrStdout(), status)
	},
}

func init() {
	undefinedCmd.Flags().BoolVar(&ambiguousFlag, "ambiguous", false, "List steps matched by more than one definition instead")
	rootCmd.AddCommand(undefinedCmd)
}

func RunUndefined(w io.Writer, status string) error {
	sqlDB, err := openProject()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rows, err := sqlDB.Query(`
		SELECT f.file_path, s.line, s.keyword, s.text
		FROM steps s
		JOIN files f ON s.file_id = f.id
		WHERE s.status = ?
		ORDER BY f.file_path, s.line
	`, status)
	if err != nil {
		return fmt.Errorf("querying steps: %w", err)
	}
	defer rows.Close()

	var found bool
	for rows.Next() {
		var path, keyword, text string
		var line int
		if err := rows.Scan(&path, &line, &keyword, &text); err != nil {
			return fmt.Errorf("scanning step: %w", err)
		}
		fmt.Fprintf(w, "  %s:%d  %s %s\n", path, line, keyword, text)
		found = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating steps: %w", err)
	}

	if !found {
		fmt.Fprintf(w, "no %s steps\n", status)
	}
	return nil
}
