package cronrunner

import (
	"context"

	"go.uber.org/zap"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/cache"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/config"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/repository"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/service"
)

// Jobs bundles everything the scheduled tasks touch.
type Jobs struct {
	Cfg       config.CronConfig
	Logger    *zap.Logger
	Repo      repository.Repository
	Poller    *service.RevenuePoller
	Scenarios *service.ScenarioService
	Flags     *service.SystemSettingsService
	Memory    *cache.MemoryStore
}

// Register schedules the revenue poll, the nightly full recompute and the
// memory-cache sweep on the runner.
func (j Jobs) Register(r *Runner) error {
	if _, err := r.Add(j.Cfg.RevenuePoll, j.revenuePoll); err != nil {
		return err
	}
	if _, err := r.Add(j.Cfg.NightlyRecompute, j.nightlyRecompute); err != nil {
		return err
	}
	if j.Memory != nil {
		if _, err := r.Add(j.Cfg.CacheSweep, j.cacheSweep); err != nil {
			return err
		}
	}
	return nil
}

func (j Jobs) revenuePoll(ctx context.Context) {
	if err := j.Poller.RunOnce(ctx); err != nil && j.Logger != nil {
		j.Logger.Error("revenue poll run failed", zap.Error(err))
	}
}

// nightlyRecompute is the safety net behind the event-driven recompute: any
// tenant whose figures drifted (missed event, period rollover at month
// boundary) converges here.
func (j Jobs) nightlyRecompute(ctx context.Context) {
	if j.Flags != nil && !j.Flags.IsEnabled(ctx, service.FeatureNightlyRecompute, true) {
		return
	}
	tenants, err := j.Repo.ListTenantIDsWithRevenue(ctx)
	if err != nil {
		if j.Logger != nil {
			j.Logger.Error("nightly recompute tenant scan failed", zap.Error(err))
		}
		return
	}
	for _, tenantID := range tenants {
		if err := j.Scenarios.RecomputeAll(ctx, tenantID); err != nil && j.Logger != nil {
			j.Logger.Warn("nightly recompute failed", zap.String("tenant", tenantID), zap.Error(err))
		}
	}
}

func (j Jobs) cacheSweep(ctx context.Context) {
	removed := j.Memory.Sweep()
	if removed > 0 && j.Logger != nil {
		j.Logger.Debug("cache sweep", zap.Int("removed", removed))
	}
}
