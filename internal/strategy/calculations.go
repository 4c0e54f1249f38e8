package strategy

// PercentToBps converts a percentage (0.25 = 0.25%) to basis points.
func PercentToBps(pct float64) float64 { return pct * 100 }

// spreadPercent is |a-b| relative to the midpoint of a and b, in percent.
func spreadPercent(a, b float64) (spread, avg, pct float64) {
	spread = a - b
	if spread < 0 {
		spread = -spread
	}
	avg = (a + b) / 2
	if avg <= 0 {
		return spread, avg, 0
	}
	return spread, avg, spread / avg * 100
}

// applyFee deducts a proportional trading fee from amount.
func applyFee(amount, feeRate float64) float64 { return amount * (1 - feeRate) }
