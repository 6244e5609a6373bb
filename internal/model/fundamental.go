package model

// FundamentalSnapshot holds valuation metrics for one symbol.
// Absent metrics are nil and produce no signal.
type FundamentalSnapshot struct {
	Symbol             string   `json:"symbol"`
	Sector             string   `json:"sector,omitempty"`
	PERatio            *float64 `json:"pe_ratio,omitempty"`
	PBRatio            *float64 `json:"pb_ratio,omitempty"`
	RevenueGrowth      *float64 `json:"revenue_growth,omitempty"`       // YoY fraction, 0.12 = 12%
	PriorRevenueGrowth *float64 `json:"prior_revenue_growth,omitempty"` // previous period, when known
	AnalystTargetPrice *float64 `json:"analyst_target_price,omitempty"`
	CurrentPrice       *float64 `json:"current_price,omitempty"`
}

// Empty reports whether no metric is available.
func (f *FundamentalSnapshot) Empty() bool {
	return f == nil || (f.PERatio == nil && f.PBRatio == nil && f.RevenueGrowth == nil &&
		f.AnalystTargetPrice == nil)
}
