package cmd

import (
	"fmt"
	"io"

	"github.com/chriserin/stepx/internal/ui"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show step counts by match status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStatusReport(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatusReport(w io.Writer) error {
	sqlDB, err := openProject()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var defCount int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM definitions`).Scan(&defCount); err != nil {
		return fmt.Errorf("counting definitions: %w", err)
	}
	var count int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM steps`).Scan(&count); err != nil {
		return fmt.Errorf("counting steps: %w", err)
	}

	fmt.Fprintf(w, "Definitions: %d\n", defCount)
	fmt.Fprintf(w, "Steps: %d\n", count)

	if count == 0 {
		return nil
	}

	rows, err := sqlDB.Query(`
		SELECT status, COUNT(*) AS cnt
		FROM steps
		GROUP BY status
		ORDER BY cnt DESC, status
	`)
	if err != nil {
		return fmt.Errorf("querying status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var cnt int
		if err := rows.Scan(&status, &cnt); err != nil {
			return fmt.Errorf("scanning status row: %w", err)
		}
		ui.StatusCount(w, status, cnt)
	}

	return rows.Err()
}
