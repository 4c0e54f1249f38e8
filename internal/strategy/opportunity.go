package strategy

import (
	"time"

	"arbscan/internal/market"
)

type Kind string

const (
	KindDirect     Kind = "direct"
	KindTriangular Kind = "triangular"
)

// Opportunity is the ranking view shared by direct and triangular results.
// NetGain is net profit in the currency the opportunity is denominated in.
type Opportunity interface {
	Kind() Kind
	NetGain() float64
	ObservedAt() time.Time
	SortKey() string
}

type DirectFees struct {
	A     float64 `json:"a"`
	B     float64 `json:"b"`
	Total float64 `json:"total"`
}

// DirectOpportunity buys Instrument on the cheaper exchange and sells it on
// the dearer one. ExchangeA sorts before ExchangeB.
type DirectOpportunity struct {
	ID             string     `json:"id"`
	Strategy       Kind       `json:"strategy"`
	Instrument     string     `json:"instrument"`
	ExchangeA      string     `json:"exchange_a"`
	ExchangeB      string     `json:"exchange_b"`
	PriceA         float64    `json:"price_a"`
	PriceB         float64    `json:"price_b"`
	SpreadPercent  float64    `json:"spread_percent"`
	Direction      string     `json:"direction"`
	MaxTradeVolume float64    `json:"max_trade_volume"`
	Units          float64    `json:"units"`
	GrossProfit    float64    `json:"gross_profit"`
	Fees           DirectFees `json:"fees"`
	NetProfit      float64    `json:"net_profit"`
	ROI            float64    `json:"roi"`
	Timestamp      time.Time  `json:"timestamp"`
}

func (o DirectOpportunity) Kind() Kind            { return KindDirect }
func (o DirectOpportunity) NetGain() float64      { return o.NetProfit }
func (o DirectOpportunity) ObservedAt() time.Time { return o.Timestamp }
func (o DirectOpportunity) SortKey() string {
	return o.Instrument + "|" + o.ExchangeA + "|" + o.ExchangeB
}

// BuyExchange is where the instrument is cheaper.
func (o DirectOpportunity) BuyExchange() string {
	if o.PriceA <= o.PriceB {
		return o.ExchangeA
	}
	return o.ExchangeB
}

type LegResult struct {
	Instrument     string      `json:"instrument"`
	Side           market.Side `json:"side"`
	Rate           float64     `json:"rate"`
	AmountAfterLeg float64     `json:"amount_after_leg"`
}

// TriangularFees reports the per-leg fee rate and the total fee cost of the
// cycle, expressed in the start currency.
type TriangularFees struct {
	Rate  float64 `json:"rate"`
	Total float64 `json:"total"`
}

type TriangularOpportunity struct {
	ID                 string         `json:"id"`
	Strategy           Kind           `json:"strategy"`
	Exchange           string         `json:"exchange"`
	RouteID            string         `json:"route_id"`
	StartCurrency      string         `json:"start_currency"`
	Legs               [3]LegResult   `json:"legs"`
	InitialAmount      float64        `json:"initial_amount"`
	FinalAmount        float64        `json:"final_amount"`
	GrossProfitLoss    float64        `json:"gross_profit_loss"`
	Fees               TriangularFees `json:"fees"`
	NetProfitLoss      float64        `json:"net_profit_loss"`
	ProfitPercent      float64        `json:"profit_percent"`
	AvailableLiquidity float64        `json:"available_liquidity"`
	Timestamp          time.Time      `json:"timestamp"`
}

func (o TriangularOpportunity) Kind() Kind            { return KindTriangular }
func (o TriangularOpportunity) NetGain() float64      { return o.NetProfitLoss }
func (o TriangularOpportunity) ObservedAt() time.Time { return o.Timestamp }
func (o TriangularOpportunity) SortKey() string       { return o.RouteID + "|" + o.Exchange }

// latest returns the most recent non-zero time among ts, or fallback.
func latest(fallback time.Time, ts ...time.Time) time.Time {
	var out time.Time
	for _, t := range ts {
		if t.After(out) {
			out = t
		}
	}
	if out.IsZero() {
		return fallback
	}
	return out
}
