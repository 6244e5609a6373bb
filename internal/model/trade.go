package model

import "time"

// TradeSide is BUY or SELL.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// Trade is one manually recorded fill in the trade journal.
type Trade struct {
	ID       int       `json:"id"`
	Time     time.Time `json:"time"`
	Side     TradeSide `json:"side" validate:"oneof=BUY SELL"`
	Symbol   string    `json:"symbol" validate:"required"`
	Quantity float64   `json:"quantity" validate:"gt=0"`
	Price    float64   `json:"price" validate:"gt=0"`
	Total    float64   `json:"total"`
	Memo     string    `json:"memo,omitempty"`
}

// Position is the journal's running average-cost view of one symbol.
type Position struct {
	Symbol      string  `json:"symbol"`
	Quantity    float64 `json:"quantity"`
	CostBasis   float64 `json:"cost_basis"`
	AvgPrice    float64 `json:"avg_price"`
	RealizedPnL float64 `json:"realized_pnl"`
	Trades      int     `json:"trades"`
}
