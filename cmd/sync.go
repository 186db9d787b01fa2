package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/chriserin/stepx/internal/parser"
	"github.com/chriserin/stepx/internal/ui"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Scan features/ and match every step against the definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func RunSync(w io.Writer) error {
	sqlDB, err := openProject()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	registry, err := loadRegistry()
	if err != nil {
		return err
	}
	defs, err := loadDefinitions(sqlDB, registry)
	if err != nil {
		return err
	}

	matches, err := filepath.Glob(filepath.Join(featuresDir, "*.feature"))
	if err != nil {
		return fmt.Errorf("scanning features/: %w", err)
	}
	sort.Strings(matches)

	tx, err := sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("beginning sync: %w", err)
	}
	defer tx.Rollback()

	if err := removeMissingFiles(tx, matches); err != nil {
		return err
	}

	fileCount, stepCount := 0, 0
	for _, path := range matches {
		fileID, err := trackFile(w, tx, path)
		if err != nil {
			return err
		}
		fileCount++

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		doc, parseErrors := parser.Parse(path, content)
		pf := parser.Transform(doc, path, parseErrors)
		for _, pe := range pf.Errors {
			fmt.Fprintf(w, "%s:%d: %s\n", path, pe.Line, pe.Message)
		}

		if _, err := tx.Exec(`DELETE FROM steps WHERE file_id = ?`, fileID); err != nil {
			return fmt.Errorf("clearing steps of %s: %w", path, err)
		}
		for _, step := range pf.Steps {
			status, defID := matchStep(defs, step.Text)
			slog.Debug("step", "path", path, "line", step.Line, "status", status, "definition", defID)
			if _, err := tx.Exec(
				`INSERT INTO steps (file_id, line, keyword, text, scenario, definition_id, status) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				fileID, step.Line, step.Keyword, step.Text, step.Scenario, defID, status,
			); err != nil {
				return fmt.Errorf("inserting step %s:%d: %w", path, step.Line, err)
			}
			if status != ui.Matched {
				ui.StepLine(w, status, fmt.Sprintf("%s:%d", path, step.Line), step.Text)
			}
			stepCount++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sync: %w", err)
	}

	ui.SummaryLine(w, fileCount, stepCount)
	return nil
}

// matchStep returns the step status and, for a unique match, the id of the
// matching definition.
func matchStep(defs []definition, text string) (string, sql.NullInt64) {
	var found []int64
	for _, d := range defs {
		if d.expr.Match(text) != nil {
			found = append(found, d.id)
		}
	}
	switch len(found) {
	case 0:
		return ui.Undefined, sql.NullInt64{}
	case 1:
		return ui.Matched, sql.NullInt64{Int64: found[0], Valid: true}
	}
	return ui.Ambiguous, sql.NullInt64{}
}

func trackFile(w io.Writer, tx *sql.Tx, path string) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM files WHERE file_path = ?`, path).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		res, err := tx.Exec(`INSERT INTO files (file_path) VALUES (?)`, path)
		if err != nil {
			return 0, fmt.Errorf("inserting %s: %w", path, err)
		}
		ui.NewLine(w, path)
		return res.LastInsertId()
	}
	if err != nil {
		return 0, fmt.Errorf("querying %s: %w", path, err)
	}
	if _, err := tx.Exec(`UPDATE files SET updated_at = datetime('now') WHERE id = ?`, id); err != nil {
		return 0, fmt.Errorf("updating %s: %w", path, err)
	}
	ui.TrkLine(w, path)
	return id, nil
}

// removeMissingFiles drops files, and their steps, that are no longer on disk.
func removeMissingFiles(tx *sql.Tx, present []string) error {
	keep := make(map[string]bool, len(present))
	for _, p := range present {
		keep[p] = true
	}

	rows, err := tx.Query(`SELECT id, file_path FROM files`)
	if err != nil {
		return fmt.Errorf("querying files: %w", err)
	}
	var gone []int64
	for rows.Next() {
		var id int64
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			rows.Close()
			return fmt.Errorf("scanning file: %w", err)
		}
		if !keep[path] {
			gone = append(gone, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating files: %w", err)
	}

	for _, id := range gone {
		if _, err := tx.Exec(`DELETE FROM steps WHERE file_id = ?`, id); err != nil {
			return fmt.Errorf("removing steps: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM files WHERE id = ?`, id); err != nil {
			return fmt.Errorf("removing file: %w", err)
		}
	}
	return nil
}
