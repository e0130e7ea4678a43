package engine

// IdealMarkup derives the sale-price multiplier from a scenario's aggregated
// percentages plus its desired profit: 1 / (1 - sum/100). When the combined
// percentages reach or exceed 100 the ratio is undefined; ok is false and the
// caller must render the infinity sentinel instead of a number.
func IdealMarkup(fig Figures, desiredProfitPct float64) (ratio float64, ok bool) {
	sum := fig.PercentSum() + desiredProfitPct
	if sum >= 100 {
		return 0, false
	}
	return 1 / (1 - sum/100), true
}
