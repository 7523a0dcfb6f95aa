package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtrask/sift/internal/scheduler"
	"github.com/dtrask/sift/internal/scheduler/jobs"
	"github.com/dtrask/sift/internal/settings"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the job scheduler",
	Long: `Starts the scheduler daemon with the built-in jobs.

Registered jobs:
- analysis_<intent>_<risk>: scheduled shortlist run (default weekdays 1 PM UTC)
- maintenance: cache clear and history pruning (daily 2 AM)

The scheduler runs until interrupted with Ctrl+C.

Example:
  go run ./cmd/sift scheduler
  go run ./cmd/sift scheduler --schedule "0 0 13 * * 1-5" --retention-days 30`,
	RunE: runScheduler,
}

var (
	schedulerCron      string
	schedulerIntent    string
	schedulerRisk      string
	schedulerRetention int
)

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().StringVar(&schedulerCron, "schedule", "0 0 13 * * 1-5", "cron expression for the analysis job (with seconds)")
	schedulerCmd.Flags().StringVar(&schedulerIntent, "intent", "swing", "trading intent for the scheduled run")
	schedulerCmd.Flags().StringVar(&schedulerRisk, "risk", "moderate", "risk tolerance for the scheduled run")
	schedulerCmd.Flags().IntVar(&schedulerRetention, "retention-days", 90, "days of run history to keep (0 disables pruning)")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	intent := settings.TradingIntent(schedulerIntent)
	if !settings.ValidIntent(intent) {
		return fmt.Errorf("invalid intent %q (valid: day_trade, swing, long_term)", schedulerIntent)
	}
	risk := settings.RiskTolerance(schedulerRisk)
	if !settings.ValidRisk(risk) {
		return fmt.Errorf("invalid risk %q (valid: conservative, moderate, aggressive)", schedulerRisk)
	}

	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	sched := scheduler.New(rt.log)

	analysisJob := jobs.NewAnalysisJob(rt.analyzer, rt.history, intent, risk, schedulerCron, rt.log)
	if err := sched.AddJob(analysisJob); err != nil {
		return err
	}

	retention := time.Duration(schedulerRetention) * 24 * time.Hour
	maintenanceJob := jobs.NewMaintenanceJob(rt.agg, rt.history, retention, rt.log)
	if err := sched.AddJob(maintenanceJob); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	fmt.Println("✅ Scheduler running")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
