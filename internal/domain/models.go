// Package domain holds the shared signal-record models. A nil PriceMovePct
// means the price-move confirmation was unavailable; a zero value is a real
// observed move and the two are never conflated.
package domain

import "github.com/shopspring/decimal"

// SourceKind identifies which feed a signal record came from. It determines
// the scoring rule the classification engine applies.
type SourceKind string

const (
	SourceEarnings SourceKind = "earnings"
	SourceFiling   SourceKind = "filing"
	SourceInsider  SourceKind = "insider"
)

// Signal is a discrete trading recommendation label.
type Signal string

const (
	SignalStrongBuy  Signal = "STRONG_BUY"
	SignalBuy        Signal = "BUY"
	SignalHold       Signal = "HOLD"
	SignalSell       Signal = "SELL"
	SignalStrongSell Signal = "STRONG_SELL"

	// SignalBuyInsider is the fixed label for insider purchase records.
	// Insider records never go through the threshold ladder: only confirmed
	// open-market purchases are admitted upstream, so the label is constant.
	SignalBuyInsider Signal = "BUY_INSIDER"
)

// EarningsRecord is a normalized earnings-surprise signal for one company.
type EarningsRecord struct {
	Symbol       string   `json:"symbol" validate:"required"`
	Company      string   `json:"company" validate:"required"`
	EstimatedEPS float64  `json:"estimated_eps"`
	ReportedEPS  float64  `json:"reported_eps"`
	SurprisePct  float64  `json:"surprise_pct"`
	Signal       Signal   `json:"signal" validate:"required"`
	PriceMovePct *float64 `json:"price_move_pct"`
}

// FilingRecord is a normalized regulatory-filing signal for one company.
// Score is the signed sentiment score of the filing headline in [-1, 1].
type FilingRecord struct {
	Symbol       string   `json:"symbol" validate:"required"`
	Title        string   `json:"title" validate:"required"`
	Link         string   `json:"link" validate:"required"`
	Score        float64  `json:"score"`
	Signal       Signal   `json:"signal" validate:"required"`
	PriceMovePct *float64 `json:"price_move_pct"`
}

// InsiderRecord is a normalized insider open-market-purchase disclosure.
// Price, Quantity and Value are pass-through fields with no scoring
// transformation; decimals keep the reported dollar amounts exact.
type InsiderRecord struct {
	Symbol       string          `json:"symbol" validate:"required"`
	TradeDate    string          `json:"trade_date" validate:"required"`
	InsiderName  string          `json:"insider_name" validate:"required"`
	Price        decimal.Decimal `json:"price"`
	Quantity     decimal.Decimal `json:"quantity"`
	Value        decimal.Decimal `json:"value"`
	Signal       Signal          `json:"signal" validate:"required"`
	PriceMovePct *float64        `json:"price_move_pct"`
}
