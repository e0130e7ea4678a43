package engine

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/models"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func fixedExpense(id string, value float64, active bool) models.FixedExpense {
	return models.FixedExpense{ID: id, Name: "expense " + id, Value: dec(value), Active: active}
}

func TestAggregate_EmptySelectionIsAllZero(t *testing.T) {
	in := AggregateInput{
		Selection: map[string]bool{},
		FixedExpenses: []models.FixedExpense{
			fixedExpense("f1", 1000, true),
		},
		PayrollEntries: []models.PayrollEntry{
			{ID: "p1", BaseSalary: dec(2500), Active: true},
		},
		SalesCharges: []models.SalesCharge{
			{ID: "s1", Name: "PIX", ValuePercentual: 2, ValueFixed: dec(5), Active: true},
		},
		AvgRevenue: dec(10000),
	}
	got := Aggregate(in)
	if got.SpendOnRevenuePct != 0 || got.TaxesPct != 0 || got.PaymentFeesPct != 0 ||
		got.CommissionsPct != 0 || got.OtherPct != 0 {
		t.Fatalf("expected all-zero buckets, got %+v", got)
	}
	if !got.ValueInCurrency.IsZero() {
		t.Fatalf("valueInCurrency = %s, want 0", got.ValueInCurrency)
	}
}

func TestAggregate_AllFalseSelectionIsAllZero(t *testing.T) {
	in := AggregateInput{
		Selection: map[string]bool{"f1": false, "s1": false},
		FixedExpenses: []models.FixedExpense{
			fixedExpense("f1", 1000, true),
		},
		SalesCharges: []models.SalesCharge{
			{ID: "s1", Name: "ICMS", ValuePercentual: 4, Active: true},
		},
		AvgRevenue: dec(10000),
	}
	got := Aggregate(in)
	if got.PercentSum() != 0 {
		t.Fatalf("expected zero percent sum, got %+v", got)
	}
	if !got.ValueInCurrency.IsZero() {
		t.Fatalf("valueInCurrency = %s, want 0", got.ValueInCurrency)
	}
}

func TestAggregate_ZeroRevenueNeverDivides(t *testing.T) {
	in := AggregateInput{
		Selection: map[string]bool{"f1": true, "p1": true},
		FixedExpenses: []models.FixedExpense{
			fixedExpense("f1", 1500, true),
		},
		PayrollEntries: []models.PayrollEntry{
			{ID: "p1", BaseSalary: dec(3000), Active: true},
		},
		AvgRevenue: decimal.Zero,
	}
	got := Aggregate(in)
	if got.SpendOnRevenuePct != 0 {
		t.Fatalf("spendOnRevenuePct = %v, want 0", got.SpendOnRevenuePct)
	}
	if math.IsNaN(got.SpendOnRevenuePct) || math.IsInf(got.SpendOnRevenuePct, 0) {
		t.Fatalf("spendOnRevenuePct is not finite: %v", got.SpendOnRevenuePct)
	}
}

func TestAggregate_InactiveRecordsExcluded(t *testing.T) {
	in := AggregateInput{
		Selection: map[string]bool{"f1": true, "f2": true},
		FixedExpenses: []models.FixedExpense{
			fixedExpense("f1", 1000, true),
			fixedExpense("f2", 9999, false),
		},
		AvgRevenue: dec(10000),
	}
	got := Aggregate(in)
	if got.SpendOnRevenuePct != 10.00 {
		t.Fatalf("spendOnRevenuePct = %v, want 10.00", got.SpendOnRevenuePct)
	}
}

func TestAggregate_PayrollMonthlyCost(t *testing.T) {
	tests := []struct {
		name  string
		entry models.PayrollEntry
		want  float64
	}{
		{"hourly with explicit hours", models.PayrollEntry{ID: "p", CostPerHour: dec(10), MonthlyHours: dec(160), Active: true}, 1600},
		{"hourly with default hours", models.PayrollEntry{ID: "p", CostPerHour: dec(10), Active: true}, 1732},
		{"salaried", models.PayrollEntry{ID: "p", BaseSalary: dec(2500), Active: true}, 2500},
		{"zero rate falls back to salary", models.PayrollEntry{ID: "p", CostPerHour: dec(0), BaseSalary: dec(1800), Active: true}, 1800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := payrollMonthlyCost(tt.entry, DefaultMonthlyHours)
			if got.InexactFloat64() != tt.want {
				t.Fatalf("payrollMonthlyCost = %s, want %v", got, tt.want)
			}
		})
	}
}

func TestAggregate_CategoryCompleteness(t *testing.T) {
	charges := []models.SalesCharge{
		{ID: "c1", Name: "ICMS", ValuePercentual: 4, Active: true},
		{ID: "c2", Name: "ISS", ValuePercentual: 2, Active: true},
		{ID: "c3", Name: "PIX", ValuePercentual: 1, Active: true},
		{ID: "c4", Name: "Cartão de Crédito", ValuePercentual: 3.5, Active: true},
		{ID: "c5", Name: "Aplicativo de Delivery", ValuePercentual: 12, Active: true},
		{ID: "c6", Name: "Taxa Misteriosa", ValuePercentual: 0.5, Active: true},
	}
	sel := map[string]bool{}
	var total float64
	for _, c := range charges {
		sel[c.ID] = true
		total += c.ValuePercentual
	}
	got := Aggregate(AggregateInput{Selection: sel, SalesCharges: charges})

	if got.TaxesPct != 6 {
		t.Fatalf("taxesPct = %v, want 6", got.TaxesPct)
	}
	if got.PaymentFeesPct != 4.5 {
		t.Fatalf("paymentFeesPct = %v, want 4.5", got.PaymentFeesPct)
	}
	if got.CommissionsPct != 12 {
		t.Fatalf("commissionsPct = %v, want 12", got.CommissionsPct)
	}
	if got.OtherPct != 0.5 {
		t.Fatalf("otherPct = %v, want 0.5", got.OtherPct)
	}
	sum := got.TaxesPct + got.PaymentFeesPct + got.CommissionsPct + got.OtherPct
	if math.Abs(sum-total) > 1e-9 {
		t.Fatalf("bucket sum = %v, want %v", sum, total)
	}
}

func TestAggregate_ValueInCurrency(t *testing.T) {
	charges := []models.SalesCharge{
		{ID: "c1", Name: "Embalagem Especial", ValueFixed: dec(1.5), Active: true},
		{ID: "c2", Name: "PIX", ValuePercentual: 2, ValueFixed: dec(0.4), Active: true},
		{ID: "c3", Name: "Boleto", ValueFixed: dec(3), Active: false},
	}
	got := Aggregate(AggregateInput{
		Selection:    map[string]bool{"c1": true, "c2": true, "c3": true},
		SalesCharges: charges,
	})
	if got.ValueInCurrency.InexactFloat64() != 1.9 {
		t.Fatalf("valueInCurrency = %s, want 1.9", got.ValueInCurrency)
	}
}

func TestAggregate_SpendRounding(t *testing.T) {
	got := Aggregate(AggregateInput{
		Selection:     map[string]bool{"f1": true},
		FixedExpenses: []models.FixedExpense{fixedExpense("f1", 1000, true)},
		AvgRevenue:    dec(3000),
	})
	// 1000/3000*100 = 33.333... rounds to 33.33.
	if got.SpendOnRevenuePct != 33.33 {
		t.Fatalf("spendOnRevenuePct = %v, want 33.33", got.SpendOnRevenuePct)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want Category
	}{
		{"ICMS", CategoryTaxes},
		{"PIS/COFINS", CategoryTaxes},
		{"PIX", CategoryPaymentFees},
		{"Cartão de Débito", CategoryPaymentFees},
		{"Marketing", CategoryCommissions},
		{"Plataforma SaaS", CategoryCommissions},
		{"pix", CategoryOther},
		{"Frete", CategoryOther},
		{"", CategoryOther},
	}
	for _, tt := range tests {
		if got := Classify(tt.name); got != tt.want {
			t.Fatalf("Classify(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
