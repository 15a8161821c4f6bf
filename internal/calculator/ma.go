package calculator

import (
	"fmt"

	"StockLens/internal/model"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (model.Stat, error) {
	if period <= 0 {
		return model.Stat{}, fmt.Errorf("%w: period must be positive, got %d", ErrInvalidParameter, period)
	}
	if len(prices) < period {
		return model.InsufficientData(), nil
	}
	return windowMean(prices[len(prices)-period:]), nil
}

// CalculateMovingAverage returns the rolling mean of close prices over window
// observations, aligned to the series dates. The first window-1 positions are
// undefined. A position whose window holds a non-finite close is not
// computable. A series shorter than window yields an empty result.
func CalculateMovingAverage(series *model.PriceSeries, window int) (model.MovingAverage, error) {
	if window < 2 {
		return model.MovingAverage{}, fmt.Errorf("%w: window must be >= 2, got %d", ErrInvalidParameter, window)
	}
	ma := model.MovingAverage{Window: window}
	n := series.Len()
	if n < window {
		return ma, nil
	}

	closes := series.Closes()
	ma.Points = make([]model.MAPoint, n)
	for i := 0; i < n; i++ {
		ma.Points[i].Date = series.Points[i].Date
		if i < window-1 {
			ma.Points[i].Value = model.InsufficientData()
			continue
		}
		ma.Points[i].Value = windowMean(closes[i-window+1 : i+1])
	}
	return ma, nil
}

// windowMean sums the window afresh so a bad close only affects the
// positions whose window contains it.
func windowMean(w []float64) model.Stat {
	sum := 0.0
	for _, c := range w {
		if !finite(c) {
			return model.NotComputable()
		}
		sum += c
	}
	return model.Ok(sum / float64(len(w)))
}
