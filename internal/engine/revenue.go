package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

type PeriodKind string

const (
	PeriodLastNMonths PeriodKind = "lastNMonths"
	PeriodAll         PeriodKind = "all"
	PeriodCustomRange PeriodKind = "customRange"
)

// Period selects which revenue months feed the trailing average.
type Period struct {
	Kind  PeriodKind `json:"kind"`
	N     int        `json:"n,omitempty"`
	Start time.Time  `json:"start,omitempty"`
	End   time.Time  `json:"end,omitempty"`
}

func DefaultPeriod(months int) Period {
	if months <= 0 {
		months = 3
	}
	return Period{Kind: PeriodLastNMonths, N: months}
}

// RevenuePoint is one month of revenue, already truncated to month start.
type RevenuePoint struct {
	Month  time.Time
	Amount decimal.Decimal
}

// TrailingAverage is the plain mean of the amounts inside the period, or
// zero when nothing matches.
func TrailingAverage(points []RevenuePoint, period Period, now time.Time) decimal.Decimal {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	sum := decimal.Zero
	count := 0
	for _, p := range points {
		if !inPeriod(p.Month, period, now) {
			continue
		}
		sum = sum.Add(p.Amount)
		count++
	}
	if count == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(count)))
}

func inPeriod(month time.Time, period Period, now time.Time) bool {
	switch period.Kind {
	case PeriodAll:
		return true
	case PeriodCustomRange:
		if !period.Start.IsZero() && month.Before(MonthStart(period.Start)) {
			return false
		}
		if !period.End.IsZero() && month.After(MonthStart(period.End)) {
			return false
		}
		return true
	case PeriodLastNMonths:
		n := period.N
		if n <= 0 {
			n = 1
		}
		cutoff := MonthStart(now).AddDate(0, -n, 0)
		return !month.Before(cutoff)
	default:
		return true
	}
}

// MonthStart truncates a timestamp to the first day of its month, UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
