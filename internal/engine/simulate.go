package engine

import (
	"github.com/shopspring/decimal"
)

// CostBreakdown is a recipe's cost basis as the simulator consumes it.
type CostBreakdown struct {
	Ingredients   decimal.Decimal `json:"ingredients"`
	Packaging     decimal.Decimal `json:"packaging"`
	Labor         decimal.Decimal `json:"labor"`
	SubRecipes    decimal.Decimal `json:"subRecipes"`
	YieldQuantity float64         `json:"yieldQuantity"`
}

func (c CostBreakdown) Total() decimal.Decimal {
	return c.Ingredients.Add(c.Packaging).Add(c.Labor).Add(c.SubRecipes)
}

// ScenarioFigures is what the simulator needs from a scenario: the aggregated
// buckets, the user's desired profit, and whether the scenario is the
// reserved sub-recipe sentinel.
type ScenarioFigures struct {
	Figures
	DesiredProfitPct float64
	IsSubRecipe      bool
}

// Quote is a simulated price with its profit margins.
type Quote struct {
	SuggestedPrice decimal.Decimal `json:"suggestedPrice"`
	GrossProfit    decimal.Decimal `json:"grossProfit"`
	NetProfit      decimal.Decimal `json:"netProfit"`
}

// Simulate derives the suggested sale price for a cost breakdown under a
// scenario. When the combined percentages reach or exceed 100 the price
// falls back to doubling the base instead of going negative or infinite;
// no NaN or Inf ever leaves this function.
func Simulate(cost CostBreakdown, sc ScenarioFigures) Quote {
	totalCost := cost.Total()

	// Sub-recipes have no per-unit yield semantics: always the total cost.
	costBasis := totalCost
	if !sc.IsSubRecipe && cost.YieldQuantity > 0 {
		costBasis = totalCost.Div(decimal.NewFromFloat(cost.YieldQuantity))
	}

	pctSum := sc.PercentSum() + sc.DesiredProfitPct

	var price decimal.Decimal
	if sc.ValueInCurrency.IsPositive() {
		base := costBasis.Add(sc.ValueInCurrency)
		divisor := 1 - pctSum/100
		if divisor > 0 {
			price = base.Div(decimal.NewFromFloat(divisor))
		} else {
			price = base.Mul(decimal.NewFromInt(2))
		}
	} else {
		if ratio, ok := IdealMarkup(sc.Figures, sc.DesiredProfitPct); ok {
			price = costBasis.Mul(decimal.NewFromFloat(ratio))
		} else {
			price = costBasis.Mul(decimal.NewFromInt(2))
		}
	}

	gross := price.Sub(costBasis)

	chargeTotal := decimal.Zero
	for _, pct := range []float64{
		sc.SpendOnRevenuePct,
		sc.TaxesPct,
		sc.PaymentFeesPct,
		sc.CommissionsPct,
		sc.OtherPct,
	} {
		chargeTotal = chargeTotal.Add(price.Mul(decimal.NewFromFloat(pct / 100)))
	}
	net := price.Sub(costBasis.Add(sc.ValueInCurrency)).Sub(chargeTotal)

	return Quote{
		SuggestedPrice: price,
		GrossProfit:    gross,
		NetProfit:      net,
	}
}
