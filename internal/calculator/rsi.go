package calculator

import (
	"fmt"

	"StockLens/internal/model"
)

// CalculateRSI computes the Wilder-smoothed RSI over the given period.
// Requires at least period+1 observations.
func CalculateRSI(series *model.PriceSeries, period int) (model.Stat, error) {
	if period <= 0 {
		return model.Stat{}, fmt.Errorf("%w: period must be positive, got %d", ErrInvalidParameter, period)
	}
	if series.Len() < period+1 {
		return model.InsufficientData(), nil
	}

	closes := series.Closes()

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing for remaining observations
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return model.NotComputable(), nil
		}
		return model.Ok(100), nil
	}
	rs := avgGain / avgLoss
	return model.Ok(100 - 100/(1+rs)), nil
}
