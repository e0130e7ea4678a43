package engine

import (
	"math"
	"testing"
)

func TestIdealMarkup_Boundary(t *testing.T) {
	tests := []struct {
		name     string
		spendPct float64
		profit   float64
		wantOK   bool
		want     float64
	}{
		{"sum 99 is finite", 79, 20, true, 100},
		{"sum exactly 100 is the sentinel", 80, 20, false, 0},
		{"sum 101 is the sentinel, never negative", 81, 20, false, 0},
		{"zero everything doubles nothing", 0, 0, true, 1},
		{"plain case", 10, 20, true, 1 / 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig := Figures{SpendOnRevenuePct: tt.spendPct}
			ratio, ok := IdealMarkup(fig, tt.profit)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if math.Abs(ratio-tt.want) > 1e-9 {
				t.Fatalf("ratio = %v, want %v", ratio, tt.want)
			}
			if ratio <= 0 || math.IsInf(ratio, 0) || math.IsNaN(ratio) {
				t.Fatalf("ratio not finite positive: %v", ratio)
			}
		})
	}
}

func TestIdealMarkup_SumsAllBuckets(t *testing.T) {
	fig := Figures{
		SpendOnRevenuePct: 10,
		TaxesPct:          5,
		PaymentFeesPct:    3,
		CommissionsPct:    2,
		OtherPct:          1,
	}
	ratio, ok := IdealMarkup(fig, 19)
	if !ok {
		t.Fatalf("expected finite ratio")
	}
	// 1/(1-40/100) = 1.666...
	if math.Abs(ratio-1/0.6) > 1e-9 {
		t.Fatalf("ratio = %v, want %v", ratio, 1/0.6)
	}
}
