package cmd

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/chriserin/stepx/expressions"
	"github.com/chriserin/stepx/internal/config"
	"github.com/chriserin/stepx/internal/db"
)

const (
	featuresDir = "features"
	dbPath      = "features/stepx.db"
	configPath  = "features/parameter_types.yaml"
)

// openProject opens the project database, failing when init has not run.
func openProject() (*sql.DB, error) {
	if _, err := os.Stat(featuresDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("run `stepx init` first")
	}
	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return sqlDB, nil
}

func loadRegistry() (*expressions.ParameterTypeRegistry, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return cfg.Registry()
}

type definition struct {
	id     int64
	source string
	kind   string
	expr   expressions.Expression
}

func expressionKind(source string) string {
	if expressions.IsRegularExpression(source) {
		return "regular"
	}
	return "cucumber"
}

// loadDefinitions compiles every stored definition against registry.
// Definitions that no longer compile, for instance after a parameter type
// was removed from the config, are logged and skipped.
func loadDefinitions(sqlDB *sql.DB, registry *expressions.ParameterTypeRegistry) ([]definition, error) {
	rows, err := sqlDB.Query(`SELECT id, expression, kind FROM definitions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying definitions: %w", err)
	}
	defer rows.Close()

	var defs []definition
	for rows.Next() {
		var d definition
		if err := rows.Scan(&d.id, &d.source, &d.kind); err != nil {
			return nil, fmt.Errorf("scanning definition: %w", err)
		}
		d.expr, err = expressions.NewExpression(d.source, registry)
		if err != nil {
			slog.Warn("skipping definition", "id", d.id, "expression", d.source, "err", err)
			continue
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating definitions: %w", err)
	}
	return defs, nil
}

func parseDefinitionID(rawID string) (int64, error) {
	rawID = strings.TrimPrefix(rawID, "#")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid definition ID: %s", rawID)
	}
	return id, nil
}
