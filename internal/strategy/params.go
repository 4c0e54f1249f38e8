package strategy

// DefaultTopN is used when Params.TopN is not positive.
const DefaultTopN = 10

// Params carries the thresholds and fee schedule shared by both analyzers and
// the ranker. Percent values are in percent units (0.1 = 0.1%); fee rates are
// fractions (0.001 = 0.1%).
type Params struct {
	MinSpreadPercent float64
	MinProfitPercent float64

	MinVolume        map[string]float64
	DefaultMinVolume float64

	FeeRates       map[string]float64
	DefaultFeeRate float64

	MaxTradeFraction float64
	MaxTradeAbsolute float64

	StartAmount float64

	// MinRouteLiquidity drops triangular results whose thinnest leg trades
	// less than this in its quote currency.
	MinRouteLiquidity float64

	TopN int
}

func (p Params) feeRate(exchange string) float64 {
	if r, ok := p.FeeRates[exchange]; ok {
		return r
	}
	return p.DefaultFeeRate
}

func (p Params) minVolume(instrument string) float64 {
	if v, ok := p.MinVolume[instrument]; ok {
		return v
	}
	return p.DefaultMinVolume
}
