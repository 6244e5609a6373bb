// Package pattern flags candlestick formations on the most recent bars.
package pattern

import (
	"PortfolioSentinel/internal/model"
)

// Detector scans the last one to three candles of a series.
type Detector struct {
	DojiBodyRatio    float64 // body/range below this is a doji
	ShadowBodyRatio  float64 // long wick must be at least this multiple of the body
	ShortShadowRatio float64 // opposite wick must be at most this multiple of the body
	ExtremeWindow    int     // bars used to decide "near the low/high"
	ExtremeTolerance float64 // fraction, 0.01 = within 1% of the extreme
	TrendLookback    int     // bars used to decide the preceding move
}

// NewDetector returns a detector with the default ratios.
func NewDetector() *Detector {
	return &Detector{
		DojiBodyRatio:    0.1,
		ShadowBodyRatio:  2.0,
		ShortShadowRatio: 0.5,
		ExtremeWindow:    10,
		ExtremeTolerance: 0.01,
		TrendLookback:    3,
	}
}

// Detect returns every pattern completed by the last bar. Patterns are not
// deduplicated: a candle that is both a doji and a hammer yields two events.
func (d *Detector) Detect(bars []model.PriceBar) []model.PatternEvent {
	var events []model.PatternEvent
	n := len(bars)
	if n == 0 {
		return events
	}
	idx := n - 1
	add := func(kind model.PatternKind, dir model.Direction) {
		events = append(events, model.PatternEvent{Kind: kind, CandleIndex: idx, Direction: dir})
	}

	cur := bars[idx]
	trend := d.priorTrend(bars)

	// Indecision after a move hints at reversal against it. Without a prior
	// move there is nothing to reverse.
	if d.isDoji(cur) && trend != model.Neutral {
		add(model.PatternDoji, -trend)
	}
	if d.isHammerShape(cur) && n >= 2 {
		switch {
		case d.nearLow(bars):
			add(model.PatternHammer, model.Bullish)
		case d.nearHigh(bars):
			add(model.PatternHangingMan, model.Bearish)
		}
	}
	if d.isInvertedHammerShape(cur) && trend == model.Bearish {
		add(model.PatternInvertedHammer, model.Bullish)
	}

	if n >= 2 {
		prev := bars[idx-1]
		if prev.Bearish() && cur.Bullish() && cur.Open <= prev.Close && cur.Close >= prev.Open &&
			cur.Body() > prev.Body() {
			add(model.PatternBullishEngulfing, model.Bullish)
		}
		if prev.Bullish() && cur.Bearish() && cur.Open >= prev.Close && cur.Close <= prev.Open &&
			cur.Body() > prev.Body() {
			add(model.PatternBearishEngulfing, model.Bearish)
		}
	}

	if n >= 3 {
		first, mid := bars[idx-2], bars[idx-1]
		if d.isMorningStar(first, mid, cur) {
			add(model.PatternMorningStar, model.Bullish)
		}
		if d.isEveningStar(first, mid, cur) {
			add(model.PatternEveningStar, model.Bearish)
		}
	}
	return events
}

func (d *Detector) isDoji(b model.PriceBar) bool {
	r := b.Range()
	if r <= 0 {
		return false
	}
	return b.Body()/r < d.DojiBodyRatio
}

func upperShadow(b model.PriceBar) float64 {
	top := b.Close
	if b.Open > top {
		top = b.Open
	}
	return b.High - top
}

func lowerShadow(b model.PriceBar) float64 {
	bottom := b.Close
	if b.Open < bottom {
		bottom = b.Open
	}
	return bottom - b.Low
}

// isHammerShape: small body at the top, long lower wick, little upper wick.
func (d *Detector) isHammerShape(b model.PriceBar) bool {
	if b.Range() <= 0 {
		return false
	}
	body := b.Body()
	lower := lowerShadow(b)
	return lower > 0 && lower >= d.ShadowBodyRatio*body && upperShadow(b) <= d.ShortShadowRatio*body
}

func (d *Detector) isInvertedHammerShape(b model.PriceBar) bool {
	if b.Range() <= 0 {
		return false
	}
	body := b.Body()
	upper := upperShadow(b)
	return upper > 0 && upper >= d.ShadowBodyRatio*body && lowerShadow(b) <= d.ShortShadowRatio*body
}

// window returns the bars compared against the last one. Callers need at
// least two bars; a lone candle is trivially its own extreme.
func (d *Detector) window(bars []model.PriceBar) []model.PriceBar {
	start := len(bars) - d.ExtremeWindow
	if start < 0 {
		start = 0
	}
	return bars[start:]
}

func (d *Detector) nearLow(bars []model.PriceBar) bool {
	w := d.window(bars)
	low := w[0].Low
	for _, b := range w[1:] {
		if b.Low < low {
			low = b.Low
		}
	}
	return bars[len(bars)-1].Low <= low*(1+d.ExtremeTolerance)
}

func (d *Detector) nearHigh(bars []model.PriceBar) bool {
	w := d.window(bars)
	high := w[0].High
	for _, b := range w[1:] {
		if b.High > high {
			high = b.High
		}
	}
	return bars[len(bars)-1].High >= high*(1-d.ExtremeTolerance)
}

// priorTrend compares the close before the last bar with the close
// TrendLookback bars before that.
func (d *Detector) priorTrend(bars []model.PriceBar) model.Direction {
	n := len(bars)
	if n < d.TrendLookback+2 {
		return model.Neutral
	}
	recent := bars[n-2].Close
	past := bars[n-2-d.TrendLookback].Close
	switch {
	case recent > past:
		return model.Bullish
	case recent < past:
		return model.Bearish
	default:
		return model.Neutral
	}
}

func (d *Detector) smallBody(b model.PriceBar, ref model.PriceBar) bool {
	return b.Body() <= ref.Body()*0.3
}

func (d *Detector) isMorningStar(first, mid, last model.PriceBar) bool {
	if !first.Bearish() || !last.Bullish() || first.Body() == 0 {
		return false
	}
	midpoint := (first.Open + first.Close) / 2
	return d.smallBody(mid, first) && last.Close > midpoint
}

func (d *Detector) isEveningStar(first, mid, last model.PriceBar) bool {
	if !first.Bullish() || !last.Bearish() || first.Body() == 0 {
		return false
	}
	midpoint := (first.Open + first.Close) / 2
	return d.smallBody(mid, first) && last.Close < midpoint
}
