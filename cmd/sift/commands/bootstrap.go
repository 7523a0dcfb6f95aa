package commands

import (
	"context"
	"fmt"

	"github.com/dtrask/sift/internal/history"
	"github.com/dtrask/sift/internal/marketdata"
	"github.com/dtrask/sift/internal/marketdata/providers"
	"github.com/dtrask/sift/internal/pipeline"
	"github.com/dtrask/sift/internal/settings"
	"github.com/dtrask/sift/pkg/config"
	"github.com/dtrask/sift/pkg/database"
	"github.com/dtrask/sift/pkg/logger"
	"github.com/dtrask/sift/pkg/redis"
)

// runtime bundles everything a command needs: config, logger, the
// assembled provider registry, the analyzer and optional persistence.
type runtime struct {
	cfg      *config.Config
	log      *logger.Logger
	settings settings.Settings
	registry *marketdata.Registry
	agg      *marketdata.Aggregator
	analyzer *pipeline.Analyzer
	db       *database.DB
	history  *history.Repository
	redis    *redis.Client
}

// close releases the runtime's external connections.
func (rt *runtime) close() {
	if rt.db != nil {
		rt.db.Close()
	}
	if rt.redis != nil {
		rt.redis.Close()
	}
}

// buildRuntime loads config and assembles the full component graph.
// Database and Redis are optional; when disabled the runtime works fully
// in-process with synthetic fallback data.
func buildRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	settingsPath := settingsFile
	if settingsPath == "" {
		settingsPath = cfg.StrategyFile
	}
	cfgSettings, err := settings.LoadOrDefault(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	rt := &runtime{
		cfg:      cfg,
		log:      log,
		settings: *cfgSettings,
	}

	var limiter *redis.RateLimiter
	if cfg.Redis.Enabled {
		client, err := redis.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		rt.redis = client
		limiter = redis.NewRateLimiter(client, "sift:ratelimit")
		log.Info("Connected to Redis")
	}

	opts := providers.FromConfig(cfg, limiter)
	opts.IncludeSynthetic = synthetic || cfgSettings.Analysis.IncludeSynthetic
	rt.registry = providers.Build(opts, log)

	ttl := cfgSettings.CacheTTL
	policy := marketdata.TTLPolicyFromMinutes(
		ttl.QuoteMinutes,
		ttl.IntradayMinutes,
		ttl.DailyMinutes,
		ttl.ProfileMinutes,
		ttl.MetricsMinutes,
		ttl.SentimentMinutes,
	)
	rt.agg = marketdata.NewAggregator(rt.registry, policy, log)
	rt.analyzer = pipeline.NewAnalyzer(rt.agg, rt.settings, log)

	if cfg.Database.Enabled {
		db, err := database.New(cfg)
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		rt.db = db
		rt.history = history.NewRepository(db.Pool)

		if err := rt.history.EnsureSchema(context.Background()); err != nil {
			rt.close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		log.Info("Connected to database")
	}

	return rt, nil
}
