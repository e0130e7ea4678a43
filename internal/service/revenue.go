package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/configstore"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/engine"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/models"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/repository"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/watch"
)

// RevenueService owns the revenue history and the trailing average the
// aggregation engine divides against.
type RevenueService struct {
	Repo   repository.Repository
	Store  *configstore.Store
	Logger *zap.Logger

	// DefaultPeriodMonths applies when a tenant has no saved period.
	DefaultPeriodMonths int
}

func (s *RevenueService) Add(ctx context.Context, tenantID string, month time.Time, amount decimal.Decimal) (*models.RevenueEntry, error) {
	item := &models.RevenueEntry{
		TenantID: tenantID,
		Month:    engine.MonthStart(month),
		Amount:   amount,
	}
	if err := s.Repo.InsertRevenueEntry(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *RevenueService) List(ctx context.Context, tenantID string, limit, offset int) ([]models.RevenueEntry, error) {
	return s.Repo.ListRevenueEntries(ctx, repository.ListRevenueParams{
		TenantID: tenantID,
		Limit:    limit,
		Offset:   offset,
	})
}

func (s *RevenueService) GetPeriod(ctx context.Context, tenantID string) (engine.Period, error) {
	period := engine.DefaultPeriod(s.DefaultPeriodMonths)
	found, err := s.Store.GetJSON(ctx, tenantID, ConfigTypeRevenuePeriod, &period)
	if err != nil {
		return engine.DefaultPeriod(s.DefaultPeriodMonths), err
	}
	if !found {
		return engine.DefaultPeriod(s.DefaultPeriodMonths), nil
	}
	return period, nil
}

func (s *RevenueService) SetPeriod(ctx context.Context, tenantID string, period engine.Period) error {
	return s.Store.PutJSON(ctx, tenantID, ConfigTypeRevenuePeriod, period)
}

// TrailingAverage computes the mean monthly revenue under the tenant's saved
// period. A load failure degrades to zero rather than blocking: the engine
// then reports a zero spend percentage, matching the empty-data fallback.
func (s *RevenueService) TrailingAverage(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	period, err := s.GetPeriod(ctx, tenantID)
	if err != nil && s.Logger != nil {
		s.Logger.Warn("revenue period load failed, using default", zap.Error(err))
	}
	entries, err := s.Repo.ListRevenueEntries(ctx, repository.ListRevenueParams{TenantID: tenantID, Limit: 500})
	if err != nil {
		return decimal.Zero, err
	}
	points := make([]engine.RevenuePoint, 0, len(entries))
	for _, e := range entries {
		points = append(points, engine.RevenuePoint{Month: e.Month, Amount: e.Amount})
	}
	return engine.TrailingAverage(points, period, time.Now().UTC()), nil
}

// RevenuePoller refetches each tenant's trailing average on a schedule and
// publishes a change event when it moved, the poll-based stand-in for a
// realtime revenue feed.
type RevenuePoller struct {
	Repo    repository.Repository
	Revenue *RevenueService
	Hub     *watch.Hub
	Logger  *zap.Logger
	Flags   *SystemSettingsService

	mu      sync.Mutex
	lastAvg map[string]decimal.Decimal
}

func (p *RevenuePoller) RunOnce(ctx context.Context) error {
	if p == nil || p.Repo == nil || p.Revenue == nil {
		return nil
	}
	if p.Flags != nil && !p.Flags.IsEnabled(ctx, FeatureRevenuePoll, true) {
		return nil
	}
	tenants, err := p.Repo.ListTenantIDsWithRevenue(ctx)
	if err != nil {
		return err
	}
	for _, tenantID := range tenants {
		avg, err := p.Revenue.TrailingAverage(ctx, tenantID)
		if err != nil {
			if p.Logger != nil {
				p.Logger.Warn("revenue poll failed", zap.String("tenant", tenantID), zap.Error(err))
			}
			continue
		}
		if p.changed(tenantID, avg) && p.Hub != nil {
			p.Hub.Publish(watch.Event{TenantID: tenantID, Kind: watch.KindRevenue})
		}
	}
	return nil
}

func (p *RevenuePoller) changed(tenantID string, avg decimal.Decimal) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastAvg == nil {
		p.lastAvg = map[string]decimal.Decimal{}
	}
	prev, seen := p.lastAvg[tenantID]
	p.lastAvg[tenantID] = avg
	return seen && !prev.Equal(avg)
}
