package jobs

import (
	"context"
	"fmt"

	"github.com/dtrask/sift/internal/history"
	"github.com/dtrask/sift/internal/pipeline"
	"github.com/dtrask/sift/internal/settings"
	"github.com/dtrask/sift/pkg/logger"
)

// AnalysisJob runs the staged pipeline on a schedule and persists the
// result when a history repository is configured.
type AnalysisJob struct {
	analyzer *pipeline.Analyzer
	history  *history.Repository
	intent   settings.TradingIntent
	risk     settings.RiskTolerance
	schedule string
	logger   *logger.Logger
}

// NewAnalysisJob creates a scheduled analysis job. The history repository
// may be nil when persistence is disabled.
func NewAnalysisJob(
	analyzer *pipeline.Analyzer,
	hist *history.Repository,
	intent settings.TradingIntent,
	risk settings.RiskTolerance,
	schedule string,
	log *logger.Logger,
) *AnalysisJob {
	return &AnalysisJob{
		analyzer: analyzer,
		history:  hist,
		intent:   intent,
		risk:     risk,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name.
func (j *AnalysisJob) Name() string {
	return fmt.Sprintf("analysis_%s_%s", j.intent, j.risk)
}

// Schedule returns the cron schedule expression.
func (j *AnalysisJob) Schedule() string {
	return j.schedule
}

// Run executes one analysis run.
func (j *AnalysisJob) Run(ctx context.Context) error {
	result, err := j.analyzer.Run(ctx, pipeline.RunRequest{
		Intent:       j.intent,
		Risk:         j.risk,
		MaxShortlist: j.analyzer.Settings().Analysis.MaxShortlist,
	})
	if err != nil {
		return fmt.Errorf("analysis run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":    result.RunID,
		"shortlist": len(result.Plan.Shortlist),
	}).Info("Scheduled analysis completed")

	if j.history != nil {
		if err := j.history.SaveRun(ctx, result); err != nil {
			return fmt.Errorf("persist run: %w", err)
		}
	}

	return nil
}
