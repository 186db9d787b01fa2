package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chriserin/stepx/internal/config"
	"github.com/chriserin/stepx/internal/db"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize stepx in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer) error {
	// features/ directory
	_, err := os.Stat(featuresDir)
	dirExists := err == nil
	if err := os.MkdirAll(featuresDir, 0o755); err != nil {
		return fmt.Errorf("creating features directory: %w", err)
	}
	if dirExists {
		fmt.Fprintln(w, "features/ already exists")
	} else {
		fmt.Fprintln(w, "features/ created")
	}

	// database
	_, err = os.Stat(dbPath)
	dbExists := err == nil
	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintln(w, dbPath+" already exists")
	} else {
		fmt.Fprintln(w, dbPath+" created")
	}

	// parameter types
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.WriteFile(configPath, []byte(config.Starter), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", configPath, err)
		}
		fmt.Fprintln(w, configPath+" created")
	} else {
		fmt.Fprintln(w, configPath+" already exists")
	}

	// gitignore
	msgs, err := ensureGitignore()
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	return nil
}

func ensureGitignore() ([]string, error) {
	const entry = dbPath

	data, err := os.ReadFile(".gitignore")
	if os.IsNotExist(err) {
		if err := os.WriteFile(".gitignore", []byte(entry+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", entry + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == entry {
			return []string{entry + " already in .gitignore"}, nil
		}
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{entry + " added to .gitignore"}, nil
}
