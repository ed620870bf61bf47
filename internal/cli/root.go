// Package cli implements the beercounter command: serve, sweep, token and migrate.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mmynk/beercounter/internal/config"
	"github.com/mmynk/beercounter/pkg/logging"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd(os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// settings is shared by every subcommand after PersistentPreRunE ran.
type settings struct {
	envFile string
	port    string
	dbPath  string
	backend string

	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	s := &settings{out: out}

	rootCmd := &cobra.Command{
		Use:           "beercounter",
		Short:         "Beer debt ledger for groups of friends",
		Long:          "Tracks who owes whom how many beers, with admin approval and a monthly wall of shame.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if s.envFile != "" {
				config.LoadDotEnv(s.envFile)
			} else {
				config.LoadDotEnv()
			}
			s.cfg = config.Load()
			applyFlags(cmd.Flags(), s)
			s.logger = logging.SetupWith(logging.ParseLevel(s.cfg.LogLevel), logging.Format(s.cfg.LogFormat))
			return nil
		},
	}
	rootCmd.SetOut(out)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.envFile, "env-file", "", "Path to a .env file (default: ./.env when present)")
	flags.StringVar(&s.port, "port", "", "HTTP port, overrides PORT")
	flags.StringVar(&s.dbPath, "db", "", "SQLite database path, overrides DB_PATH")
	flags.StringVar(&s.backend, "store", "", "Store backend (sqlite, memory), overrides STORE_BACKEND")

	rootCmd.AddCommand(
		newServeCmd(s),
		newSweepCmd(s),
		newTokenCmd(s),
		newMigrateCmd(s),
	)
	return rootCmd
}

// applyFlags lets explicitly set flags win over the environment.
func applyFlags(flags *pflag.FlagSet, s *settings) {
	if flags.Changed("port") {
		s.cfg.Port = s.port
	}
	if flags.Changed("db") {
		s.cfg.DBPath = s.dbPath
	}
	if flags.Changed("store") {
		s.cfg.StoreBackend = s.backend
	}
}
