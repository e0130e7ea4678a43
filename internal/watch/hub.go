// Package watch fans change notifications out to interested consumers. The
// aggregation engine itself stays a pure function; anything that wants to
// react to cost-record mutations (the recompute listener, the websocket
// stream) subscribes here instead of polling the tables.
package watch

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	KindFixedExpense Kind = "fixed_expense"
	KindPayrollEntry Kind = "payroll_entry"
	KindSalesCharge  Kind = "sales_charge"
	KindRevenue      Kind = "revenue"
	KindScenario     Kind = "scenario"
	KindSelection    Kind = "selection"
)

type Event struct {
	TenantID string    `json:"tenantId"`
	Kind     Kind      `json:"kind"`
	RecordID string    `json:"recordId,omitempty"`
	At       time.Time `json:"at"`
}

type Hub struct {
	Logger *zap.Logger

	mu      sync.RWMutex
	subs    map[string]map[uint64]chan Event
	nextID  uint64
	dropped uint64
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		Logger: logger,
		subs:   map[string]map[uint64]chan Event{},
	}
}

// AllTenants subscribes across every tenant; the recompute listener uses it.
const AllTenants = "*"

// Subscribe returns a channel of the tenant's events and a cancel func that
// tears the subscription down. Slow subscribers drop events rather than
// blocking publishers.
func (h *Hub) Subscribe(tenantID string, buf int) (<-chan Event, func()) {
	if buf <= 0 {
		buf = 16
	}
	ch := make(chan Event, buf)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.subs[tenantID] == nil {
		h.subs[tenantID] = map[uint64]chan Event{}
	}
	h.subs[tenantID][id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if m := h.subs[tenantID]; m != nil {
			if _, ok := m[id]; ok {
				delete(m, id)
				close(ch)
			}
			if len(m) == 0 {
				delete(h.subs, tenantID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliver(h.subs[ev.TenantID], ev)
	h.deliver(h.subs[AllTenants], ev)
}

func (h *Hub) deliver(subs map[uint64]chan Event, ev Event) {
	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			// Drop when subscriber is slow; the hub must not block.
			atomic.AddUint64(&h.dropped, 1)
		}
	}
}

func (h *Hub) Dropped() uint64 {
	return atomic.LoadUint64(&h.dropped)
}
