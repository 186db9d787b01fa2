package cmd

import (
	"fmt"
	"io"

	"github.com/chriserin/stepx/internal/ui"
	"github.com/spf13/cobra"
)

var unusedFlag bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List step definitions with their usage counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), unusedFlag)
	},
}

func init() {
	listCmd.Flags().BoolVar(&unusedFlag, "unused", false, "Show only definitions no step matches")
	rootCmd.AddCommand(listCmd)
}

type listRow struct {
	id         int64
	expression string
	kind       string
	uses       int
}

func RunList(w io.Writer, unusedOnly bool) error {
	sqlDB, err := openProject()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rows, err := sqlDB.Query(`
		SELECT d.id, d.expression, d.kind, COUNT(s.id)
		FROM definitions d
		LEFT JOIN steps s ON s.definition_id = d.id
		GROUP BY d.id
		ORDER BY d.id
	`)
	if err != nil {
		return fmt.Errorf("querying definitions: %w", err)
	}
	defer rows.Close()

	var results []listRow
	for rows.Next() {
		var r listRow
		if err := rows.Scan(&r.id, &r.expression, &r.kind, &r.uses); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		if unusedOnly && r.uses > 0 {
			continue
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	if len(results) == 0 {
		return nil
	}

	// Compute column widths
	idWidth, exprWidth := 0, 0
	for _, r := range results {
		tag := fmt.Sprintf("#%d", r.id)
		if len(tag) > idWidth {
			idWidth = len(tag)
		}
		if len(r.expression) > exprWidth {
			exprWidth = len(r.expression)
		}
	}

	for _, r := range results {
		ui.ListRow(w, r.id, r.expression, r.kind, r.uses, idWidth, exprWidth)
	}

	return nil
}
