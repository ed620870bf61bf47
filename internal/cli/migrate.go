package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmynk/beercounter/internal/storage/sqlite"
)

func newMigrateCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQLite migrations and print the schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if s.cfg.DBPath == "" {
				return errors.New("database path cannot be empty")
			}
			if err := os.MkdirAll(filepath.Dir(s.cfg.DBPath), 0o755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
			if err := sqlite.Migrate(s.cfg.DBPath); err != nil {
				return err
			}
			version, dirty, err := sqlite.SchemaVersion(s.cfg.DBPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", version, dirty)
			return nil
		},
	}
}
