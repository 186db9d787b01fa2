package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/chriserin/stepx/expressions"
	"github.com/chriserin/stepx/internal/ui"
	"github.com/spf13/cobra"
)

var defineCmd = &cobra.Command{
	Use:   "define <expression>",
	Short: "Register a step definition expression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunDefine(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(defineCmd)
}

func RunDefine(w io.Writer, source string) error {
	sqlDB, err := openProject()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	registry, err := loadRegistry()
	if err != nil {
		return err
	}
	if _, err := expressions.NewExpression(source, registry); err != nil {
		return err
	}

	var id int64
	err = sqlDB.QueryRow(`SELECT id FROM definitions WHERE expression = ?`, source).Scan(&id)
	if err == nil {
		ui.DefineConfirm(w, id, source, false)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("querying definitions: %w", err)
	}

	res, err := sqlDB.Exec(`INSERT INTO definitions (expression, kind) VALUES (?, ?)`, source, expressionKind(source))
	if err != nil {
		return fmt.Errorf("inserting definition: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading definition id: %w", err)
	}

	ui.DefineConfirm(w, id, source, true)
	return nil
}
