package model

import "time"

// ReturnPoint is the simple return realised on Date.
type ReturnPoint struct {
	Date   time.Time
	Return float64
}

// DataQualityError describes a single price observation that was dropped.
type DataQualityError struct {
	Date   time.Time
	Reason string
}

func (e DataQualityError) Error() string {
	return "data quality: " + e.Date.Format("2006-01-02") + ": " + e.Reason
}

// ReturnSeries is the daily return series derived from a PriceSeries.
type ReturnSeries struct {
	Points  []ReturnPoint
	Dropped []DataQualityError
}

// Values returns the bare return values in date order.
func (r *ReturnSeries) Values() []float64 {
	if r == nil {
		return nil
	}
	vals := make([]float64, len(r.Points))
	for i, p := range r.Points {
		vals[i] = p.Return
	}
	return vals
}

// MAPoint is one position of a moving average aligned to the input dates.
type MAPoint struct {
	Date  time.Time
	Value Stat
}

// MovingAverage is a simple rolling mean of close prices.
type MovingAverage struct {
	Window int
	Points []MAPoint
}

// Latest returns the most recent moving-average value.
func (m MovingAverage) Latest() Stat {
	if len(m.Points) == 0 {
		return InsufficientData()
	}
	return m.Points[len(m.Points)-1].Value
}

// RiskMetrics summarises risk and performance of a series.
type RiskMetrics struct {
	Volatility       Stat
	SharpeRatio      Stat
	AnnualizedReturn Stat
	MaxDrawdown      Stat
}

// PeriodReturns holds the return over each reporting horizon.
type PeriodReturns struct {
	Daily      Stat
	Monthly    Stat
	YTD        Stat
	Annualized Stat
}

// Histogram is an equal-width distribution of return values.
// len(Edges) == len(Counts)+1.
type Histogram struct {
	Edges  []float64
	Counts []int
}

// PriceRange is the high/low over a lookback window.
type PriceRange struct {
	Lookback int
	High     Stat
	Low      Stat
}

// AnalysisResult is everything the presentation layer needs for one ticker.
type AnalysisResult struct {
	Ticker         string
	Period         Period
	Start          time.Time
	End            time.Time
	Company        *CompanyInfo
	Series         *PriceSeries
	Returns        *ReturnSeries
	MovingAverages []MovingAverage
	Risk           RiskMetrics
	PeriodReturns  PeriodReturns
	Distribution   *Histogram
	RSI            Stat
	Range          PriceRange
}
