package model

import (
	"sort"
	"time"
)

// PricePoint is a single daily OHLCV observation.
type PricePoint struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds raw price history for one ticker and period.
// Dates are strictly increasing after Normalize.
type PriceSeries struct {
	Ticker    string
	Points    []PricePoint
	FetchedAt time.Time
}

// Len returns the number of observations.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Closes extracts the close prices in date order.
func (s *PriceSeries) Closes() []float64 {
	if s == nil {
		return nil
	}
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Last returns the most recent observation.
func (s *PriceSeries) Last() (PricePoint, bool) {
	if s.Len() == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Clone returns a deep copy so callers can normalize without aliasing.
func (s *PriceSeries) Clone() *PriceSeries {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Points = append([]PricePoint(nil), s.Points...)
	return &cp
}

// Normalize truncates dates to the calendar day, sorts ascending and drops
// duplicate dates, keeping the last occurrence.
func (s *PriceSeries) Normalize() {
	if s.Len() == 0 {
		return
	}
	for i := range s.Points {
		s.Points[i].Date = TruncateDay(s.Points[i].Date)
	}
	sort.SliceStable(s.Points, func(i, j int) bool { return s.Points[i].Date.Before(s.Points[j].Date) })

	out := s.Points[:0]
	for _, p := range s.Points {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	s.Points = out
}

// TruncateDay drops the clock part of t, keeping its calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CompanyInfo is passed through verbatim from the market-data provider.
type CompanyInfo struct {
	Ticker             string
	Name               string
	Currency           string
	Exchange           string
	InstrumentType     string
	RegularMarketPrice float64
	FiftyTwoWeekHigh   float64
	FiftyTwoWeekLow    float64
}
