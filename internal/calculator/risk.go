package calculator

import (
	"math"

	"StockLens/internal/model"
)

// CalculateVolatility returns the annualized sample standard deviation of
// the returns. Fewer than two returns are not computable.
func CalculateVolatility(returns *model.ReturnSeries) model.Stat {
	vals := returns.Values()
	if len(vals) < 2 {
		return model.NotComputable()
	}
	mean := meanOf(vals)
	ss := 0.0
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	sd := math.Sqrt(ss / float64(len(vals)-1))
	return model.Ok(sd * math.Sqrt(TradingDaysPerYear))
}

// CalculateSharpeRatio returns (annualized mean return - riskFree) / volatility.
func CalculateSharpeRatio(returns *model.ReturnSeries, riskFree float64) model.Stat {
	vol, ok := CalculateVolatility(returns).Value()
	if !ok || vol == 0 {
		return model.NotComputable()
	}
	annMean := meanOf(returns.Values()) * TradingDaysPerYear
	return model.Ok((annMean - riskFree) / vol)
}

// CalculateMaxDrawdown returns the largest peak-to-trough decline of the
// close price as a non-positive fraction.
func CalculateMaxDrawdown(series *model.PriceSeries) model.Stat {
	if series.Len() < 2 {
		return model.InsufficientData()
	}
	peak := math.Inf(-1)
	worst := 0.0
	for _, p := range series.Points {
		if !finite(p.Close) {
			continue
		}
		if p.Close > peak {
			peak = p.Close
			continue
		}
		if peak <= 0 {
			continue
		}
		if dd := p.Close/peak - 1; dd < worst {
			worst = dd
		}
	}
	if math.IsInf(peak, -1) || peak <= 0 {
		return model.NotComputable()
	}
	return model.Ok(worst)
}

// ComputeRiskMetrics bundles volatility, Sharpe, annualized return and drawdown.
func ComputeRiskMetrics(series *model.PriceSeries, returns *model.ReturnSeries, riskFree float64) model.RiskMetrics {
	ann, _ := CalculatePeriodReturn(series, ModeAnnualized)
	return model.RiskMetrics{
		Volatility:       CalculateVolatility(returns),
		SharpeRatio:      CalculateSharpeRatio(returns, riskFree),
		AnnualizedReturn: ann,
		MaxDrawdown:      CalculateMaxDrawdown(series),
	}
}

func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
