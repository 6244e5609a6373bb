package calculator

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"PortfolioSentinel/internal/model"
)

const (
	hvnQuantile       = 0.8 // volume quantile that marks a high-volume day
	pivotWindow       = 2   // bars each side of a swing point
	pivotVolumeFactor = 1.3 // swing bar volume vs window average
)

// CalculateVWAP returns the volume-weighted typical price over the last `period` bars.
func CalculateVWAP(bars []model.PriceBar, period int) (float64, error) {
	n := len(bars)
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if n < period {
		return 0, fmt.Errorf("vwap(%d) over %d bars: %w", period, n, model.ErrInsufficientHistory)
	}
	var pv, vol float64
	for _, b := range bars[n-period:] {
		pv += (b.High + b.Low + b.Close) / 3 * b.Volume
		vol += b.Volume
	}
	if vol <= 0 {
		return 0, errors.New("no volume in window")
	}
	return pv / vol, nil
}

// HighVolumeNode returns the volume-weighted close of the busiest days in the
// last `lookback` bars: those at or above the 80th volume percentile.
func HighVolumeNode(bars []model.PriceBar, lookback int) (float64, error) {
	n := len(bars)
	if lookback <= 0 {
		return 0, errors.New("lookback must be positive")
	}
	if n < lookback {
		return 0, fmt.Errorf("hvn(%d) over %d bars: %w", lookback, n, model.ErrInsufficientHistory)
	}
	recent := bars[n-lookback:]
	vols := make([]float64, len(recent))
	for i, b := range recent {
		vols[i] = b.Volume
	}
	threshold := quantile(vols, hvnQuantile)

	var pv, vol, closes float64
	for _, b := range recent {
		closes += b.Close
		if b.Volume >= threshold {
			pv += b.Close * b.Volume
			vol += b.Volume
		}
	}
	if vol <= 0 {
		return closes / float64(len(recent)), nil
	}
	return pv / vol, nil
}

// quantile interpolates linearly between order statistics.
func quantile(values []float64, q float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// FindPivotLine joins the most recent swing high and swing low that traded
// on heavy volume and projects the line to the last bar. ok is false when
// either swing is missing or both fall on the same bar.
func FindPivotLine(bars []model.PriceBar, lookback int, tolerance float64) (line model.PivotLine, ok bool) {
	n := len(bars)
	if lookback < 2*pivotWindow+1 || n < lookback {
		return model.PivotLine{}, false
	}
	recent := bars[n-lookback:]
	avgVol := 0.0
	for _, b := range recent {
		avgVol += b.Volume
	}
	avgVol /= float64(len(recent))

	highIdx, lowIdx := -1, -1
	for i := pivotWindow; i < len(recent)-pivotWindow; i++ {
		if recent[i].Volume <= avgVol*pivotVolumeFactor {
			continue
		}
		maxHigh, minLow := recent[i].High, recent[i].Low
		for j := i - pivotWindow; j <= i+pivotWindow; j++ {
			maxHigh = math.Max(maxHigh, recent[j].High)
			minLow = math.Min(minLow, recent[j].Low)
		}
		if recent[i].High == maxHigh {
			highIdx = i
		}
		if recent[i].Low == minLow {
			lowIdx = i
		}
	}
	if highIdx < 0 || lowIdx < 0 || highIdx == lowIdx {
		return model.PivotLine{}, false
	}

	high, low := recent[highIdx].High, recent[lowIdx].Low
	slope := (low - high) / float64(lowIdx-highIdx)
	price := high + slope*float64(len(recent)-1-highIdx)
	last := recent[len(recent)-1].Close
	return model.PivotLine{
		Price:   price,
		Falling: slope < 0,
		Touched: last > 0 && math.Abs(last-price)/last < tolerance,
	}, true
}
