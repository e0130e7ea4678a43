// Package engine holds the markup aggregation and pricing math. Everything
// here is pure computation over already-fetched records; persistence, caching
// and change feeds live in the packages around it.
package engine

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/models"
)

// DefaultMonthlyHours is the fallback hour count for hourly payroll entries,
// one month of full-time work (44h week × 52 / 12).
const DefaultMonthlyHours = 173.2

// AggregateInput carries one scenario's selection map plus the tenant's cost
// records and trailing average revenue.
type AggregateInput struct {
	Selection      map[string]bool
	FixedExpenses  []models.FixedExpense
	PayrollEntries []models.PayrollEntry
	SalesCharges   []models.SalesCharge
	AvgRevenue     decimal.Decimal

	// MonthlyHours overrides DefaultMonthlyHours when positive.
	MonthlyHours float64
}

// Figures are one scenario's computed aggregation buckets: five percentages
// against the sale price plus one flat currency amount.
type Figures struct {
	SpendOnRevenuePct float64         `json:"spendOnRevenuePct"`
	TaxesPct          float64         `json:"taxesPct"`
	PaymentFeesPct    float64         `json:"paymentFeesPct"`
	CommissionsPct    float64         `json:"commissionsPct"`
	OtherPct          float64         `json:"otherPct"`
	ValueInCurrency   decimal.Decimal `json:"valueInCurrency"`
}

// Aggregate computes a scenario's figures. A record participates only when
// its own Active flag is true and the selection map includes its id; a
// missing id means excluded. Zero revenue or zero selected spend yields a
// spend percentage of exactly 0, never a division by zero.
func Aggregate(in AggregateInput) Figures {
	hours := in.MonthlyHours
	if hours <= 0 {
		hours = DefaultMonthlyHours
	}

	totalSpend := decimal.Zero
	for _, e := range in.FixedExpenses {
		if !e.Active || !in.Selection[e.ID] {
			continue
		}
		totalSpend = totalSpend.Add(e.Value)
	}
	for _, p := range in.PayrollEntries {
		if !p.Active || !in.Selection[p.ID] {
			continue
		}
		totalSpend = totalSpend.Add(payrollMonthlyCost(p, hours))
	}

	out := Figures{ValueInCurrency: decimal.Zero}
	if in.AvgRevenue.IsPositive() && totalSpend.IsPositive() {
		pct, _ := totalSpend.Div(in.AvgRevenue).Mul(decimal.NewFromInt(100)).Float64()
		out.SpendOnRevenuePct = round2(pct)
	}

	for _, c := range in.SalesCharges {
		if !c.Active || !in.Selection[c.ID] {
			continue
		}
		out.ValueInCurrency = out.ValueInCurrency.Add(c.ValueFixed)
		switch Classify(c.Name) {
		case CategoryTaxes:
			out.TaxesPct += c.ValuePercentual
		case CategoryPaymentFees:
			out.PaymentFeesPct += c.ValuePercentual
		case CategoryCommissions:
			out.CommissionsPct += c.ValuePercentual
		default:
			out.OtherPct += c.ValuePercentual
		}
	}

	return out
}

// PercentSum is the five aggregated percentages together, the figure the
// ideal markup and the simulator divide against.
func (f Figures) PercentSum() float64 {
	return f.SpendOnRevenuePct + f.TaxesPct + f.PaymentFeesPct + f.CommissionsPct + f.OtherPct
}

func payrollMonthlyCost(p models.PayrollEntry, defaultHours float64) decimal.Decimal {
	if p.CostPerHour.IsPositive() {
		hours := p.MonthlyHours
		if !hours.IsPositive() {
			hours = decimal.NewFromFloat(defaultHours)
		}
		return p.CostPerHour.Mul(hours)
	}
	return p.BaseSalary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
