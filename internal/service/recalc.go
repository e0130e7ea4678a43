package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/debounce"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/watch"
)

// RecalcListener watches the change feed and recomputes a tenant's scenarios
// after its cost data settles. Bursts of edits collapse into one recompute
// per tenant through a per-tenant debouncer.
type RecalcListener struct {
	Hub       *watch.Hub
	Scenarios *ScenarioService
	Flags     *SystemSettingsService
	Logger    *zap.Logger
	Delay     time.Duration

	mu         sync.Mutex
	debouncers map[string]*debounce.Debouncer
}

// Run blocks consuming events until ctx is cancelled.
func (l *RecalcListener) Run(ctx context.Context) {
	events, cancel := l.Hub.Subscribe(watch.AllTenants, 64)
	defer cancel()
	defer l.stopAll()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			l.handle(ctx, ev)
		}
	}
}

func (l *RecalcListener) handle(ctx context.Context, ev watch.Event) {
	// Scenario events are produced by the recompute itself; reacting to
	// them would loop.
	if ev.Kind == watch.KindScenario {
		return
	}
	if l.Flags != nil && !l.Flags.IsEnabled(ctx, FeatureRecomputeListener, true) {
		return
	}
	tenantID := ev.TenantID
	l.debouncer(tenantID).Trigger(func() {
		recomputeCtx, done := context.WithTimeout(context.Background(), 30*time.Second)
		defer done()
		if err := l.Scenarios.RecomputeAll(recomputeCtx, tenantID); err != nil && l.Logger != nil {
			l.Logger.Error("scenario recompute failed", zap.String("tenant", tenantID), zap.Error(err))
		}
	})
}

func (l *RecalcListener) debouncer(tenantID string) *debounce.Debouncer {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.debouncers == nil {
		l.debouncers = map[string]*debounce.Debouncer{}
	}
	d, ok := l.debouncers[tenantID]
	if !ok {
		delay := l.Delay
		if delay <= 0 {
			delay = 500 * time.Millisecond
		}
		d = debounce.New(delay)
		l.debouncers[tenantID] = d
	}
	return d
}

func (l *RecalcListener) stopAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, d := range l.debouncers {
		d.Stop()
	}
}
