package calculator

import (
	"time"

	"StockLens/internal/model"
)

var baseDate = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func seriesFromCloses(closes ...float64) *model.PriceSeries {
	s := &model.PriceSeries{Ticker: "TEST", Points: make([]model.PricePoint, len(closes))}
	for i, c := range closes {
		s.Points[i] = model.PricePoint{
			Date:   baseDate.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}
	return s
}

func linearSeries(n int, from, to float64) *model.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = from + (to-from)*float64(i)/float64(n-1)
	}
	return seriesFromCloses(closes...)
}
