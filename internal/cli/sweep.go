package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/beercounter/internal/worker"
)

func newSweepCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run a single aging sweep over every group and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.cfg.Validate(); err != nil {
				return err
			}
			a, err := newApp(s.cfg, s.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			sweeper := worker.NewAgingSweeper(a.workflow, worker.Config{
				Concurrency: s.cfg.SweepConcurrency,
				Metrics:     a.metrics,
				Logger:      s.logger,
			})
			res, err := sweeper.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "groups=%d events=%d failed=%d\n", res.Groups, res.Events, res.Failed)
			if res.Failed > 0 {
				return fmt.Errorf("%d of %d groups failed", res.Failed, res.Groups)
			}
			return nil
		},
	}
}
