package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/dtrask/sift/internal/history"
	"github.com/dtrask/sift/internal/marketdata"
	"github.com/dtrask/sift/pkg/logger"
)

// MaintenanceJob clears the market data caches and prunes old runs from
// the history table.
type MaintenanceJob struct {
	aggregator *marketdata.Aggregator
	history    *history.Repository
	retention  time.Duration
	logger     *logger.Logger
}

// NewMaintenanceJob creates a maintenance job. The history repository may
// be nil when persistence is disabled.
func NewMaintenanceJob(
	aggregator *marketdata.Aggregator,
	hist *history.Repository,
	retention time.Duration,
	log *logger.Logger,
) *MaintenanceJob {
	return &MaintenanceJob{
		aggregator: aggregator,
		history:    hist,
		retention:  retention,
		logger:     log,
	}
}

// Name returns the job name.
func (j *MaintenanceJob) Name() string {
	return "maintenance"
}

// Schedule returns the cron schedule expression. Runs daily at 2 AM.
func (j *MaintenanceJob) Schedule() string {
	return "0 0 2 * * *"
}

// Run clears caches and prunes expired history rows.
func (j *MaintenanceJob) Run(ctx context.Context) error {
	j.aggregator.ClearCaches()
	j.logger.Info("Market data caches cleared")

	if j.history != nil && j.retention > 0 {
		cutoff := time.Now().Add(-j.retention)
		pruned, err := j.history.PruneBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("prune history: %w", err)
		}

		j.logger.WithFields(map[string]interface{}{
			"pruned": pruned,
			"cutoff": cutoff.Format("2006-01-02"),
		}).Info("History pruned")
	}

	return nil
}
