package calculator

import (
	"fmt"
	"math"

	"StockLens/internal/model"
)

// FiftyTwoWeekLookback is the number of trading days in a 52-week range.
const FiftyTwoWeekLookback = 252

// CalculateHighLow scans the most recent lookback observations and returns
// the highest high and lowest low.
func CalculateHighLow(series *model.PriceSeries, lookback int) (model.PriceRange, error) {
	if lookback <= 0 {
		return model.PriceRange{}, fmt.Errorf("%w: lookback must be positive, got %d", ErrInvalidParameter, lookback)
	}
	r := model.PriceRange{Lookback: lookback}
	n := series.Len()
	if n == 0 {
		r.High, r.Low = model.InsufficientData(), model.InsufficientData()
		return r, nil
	}
	start := max(n-lookback, 0)
	high := math.Inf(-1)
	low := math.Inf(1)
	for i := start; i < n; i++ {
		p := series.Points[i]
		if p.High > high {
			high = p.High
		}
		if p.Low < low {
			low = p.Low
		}
	}
	r.High, r.Low = model.Ok(high), model.Ok(low)
	return r, nil
}

// CalculateRangePosition returns where current sits within [low, high] (0.0~1.0).
func CalculateRangePosition(current float64, r model.PriceRange) model.Stat {
	high, okH := r.High.Value()
	low, okL := r.Low.Value()
	if !okH || !okL || high < low {
		return model.NotComputable()
	}
	if high == low {
		return model.Ok(0.5)
	}
	pos := (current - low) / (high - low)
	return model.Ok(math.Min(math.Max(pos, 0), 1))
}
