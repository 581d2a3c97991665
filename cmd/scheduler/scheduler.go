// Package scheduler implements the long-running scheduler daemon command.
package scheduler

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/naijapulse/cmd/common"
	"github.com/jonesrussell/naijapulse/internal/scheduler"
)

// Command returns the scheduler command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run the scheduler daemon",
		Long: `Run the scheduler daemon. Scrape cycles fire on the configured cron
schedule and trending topics are recomputed periodically. The daemon runs
until interrupted and waits for the in-flight cycle on shutdown.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps(cmd)
			if err != nil {
				return err
			}
			defer deps.Close()

			if err := deps.Store.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("database not ready: %w", err)
			}

			orc := common.NewOrchestrator(deps)
			sched := scheduler.New(orc, deps.Store, deps.Logger, scheduler.Config{
				CronSpec:       deps.Config.Scheduler.CronSpec,
				TrendingEvery:  deps.Config.Scheduler.TrendingEvery,
				TrendingWindow: deps.Config.Scheduler.TrendingWindow,
			})

			if err := sched.Start(); err != nil {
				return fmt.Errorf("start scheduler: %w", err)
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			sig := <-quit
			deps.Logger.Info("Received shutdown signal", "signal", sig.String())

			sched.Stop()
			return nil
		},
	}
}
