package calculator

import "PortfolioSentinel/internal/model"

// Ichimoku holds the cloud values that apply to the last bar of a series.
// Nil fields were not computable from the available history.
type Ichimoku struct {
	Tenkan      *float64
	Kijun       *float64
	CloudTop    *float64
	CloudBottom *float64
}

// CalculateIchimoku computes the conversion and base lines at the last bar and
// the cloud that was projected onto it `displacement` bars ago.
func CalculateIchimoku(bars []model.PriceBar, p Params) Ichimoku {
	var out Ichimoku
	n := len(bars)
	if v, err := Midpoint(bars, p.Tenkan); err == nil {
		out.Tenkan = &v
	}
	if v, err := Midpoint(bars, p.Kijun); err == nil {
		out.Kijun = &v
	}

	// Leading spans were plotted forward by the displacement, so the cloud
	// under today's bar comes from the bar at n-1-displacement.
	j := n - p.Displacement
	if j <= 0 {
		return out
	}
	past := bars[:j]
	tenkan, err1 := Midpoint(past, p.Tenkan)
	kijun, err2 := Midpoint(past, p.Kijun)
	spanB, err3 := Midpoint(past, p.SpanB)
	if err1 != nil || err2 != nil || err3 != nil {
		return out
	}
	spanA := (tenkan + kijun) / 2
	top, bottom := spanA, spanB
	if spanB > spanA {
		top, bottom = spanB, spanA
	}
	out.CloudTop = &top
	out.CloudBottom = &bottom
	return out
}
