package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
)

func TestCalculateDailyReturns_Count(t *testing.T) {
	for n := 0; n <= 6; n++ {
		closes := make([]float64, n)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		rs, err := CalculateDailyReturns(seriesFromCloses(closes...))
		if n < 2 {
			require.ErrorIs(t, err, ErrInsufficientData, "n=%d", n)
			continue
		}
		require.NoError(t, err, "n=%d", n)
		require.Len(t, rs.Points, n-1, "n=%d", n)
		require.Empty(t, rs.Dropped)
	}
}

func TestCalculateDailyReturns_Values(t *testing.T) {
	s := seriesFromCloses(100, 110, 99)
	rs, err := CalculateDailyReturns(s)
	require.NoError(t, err)
	require.InDelta(t, 0.10, rs.Points[0].Return, 1e-12)
	require.InDelta(t, -0.10, rs.Points[1].Return, 1e-12)
	require.Equal(t, s.Points[2].Date, rs.Points[1].Date)
}

func TestCalculateDailyReturns_DropsZeroPreviousClose(t *testing.T) {
	s := seriesFromCloses(10, 0, 5, 6)
	rs, err := CalculateDailyReturns(s)
	require.NoError(t, err)
	require.Len(t, rs.Points, 2)
	require.Len(t, rs.Dropped, 1)
	require.Equal(t, s.Points[2].Date, rs.Dropped[0].Date)
	require.InDelta(t, -1.0, rs.Points[0].Return, 1e-12)
	require.InDelta(t, 0.2, rs.Points[1].Return, 1e-12)
}

func TestCalculateDailyReturns_DropsNonFiniteClose(t *testing.T) {
	s := seriesFromCloses(10, 11, math.NaN(), 12, 15)
	rs, err := CalculateDailyReturns(s)
	require.NoError(t, err)

	// The returns into and out of the NaN close are both dropped.
	require.Len(t, rs.Dropped, 2)
	for i, d := range rs.Dropped {
		require.Equal(t, s.Points[i+2].Date, d.Date)
		require.Equal(t, "close is not a finite number", d.Reason)
	}
	require.Len(t, rs.Points, 2)
	require.InDelta(t, 0.1, rs.Points[0].Return, 1e-12)
	require.Equal(t, s.Points[4].Date, rs.Points[1].Date)
	require.InDelta(t, 0.25, rs.Points[1].Return, 1e-12)
}

func TestCalculatePeriodReturn_Daily(t *testing.T) {
	v, err := CalculatePeriodReturn(seriesFromCloses(90, 100, 110), ModeDaily)
	require.NoError(t, err)
	got, ok := v.Value()
	require.True(t, ok)
	require.InDelta(t, 0.1, got, 1e-12)

	v, err = CalculatePeriodReturn(seriesFromCloses(100), ModeDaily)
	require.NoError(t, err)
	require.Equal(t, model.StatInsufficientData, v.Status())
}

func TestCalculatePeriodReturn_Monthly(t *testing.T) {
	// 30 observations: the last 21 intervals start at index 8.
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	v, err := CalculatePeriodReturn(seriesFromCloses(closes...), ModeMonthly)
	require.NoError(t, err)
	got, _ := v.Value()
	require.InDelta(t, 129.0/108.0-1, got, 1e-12)

	// Shorter than a month uses the whole series.
	v, err = CalculatePeriodReturn(seriesFromCloses(100, 105, 120), ModeMonthly)
	require.NoError(t, err)
	got, _ = v.Value()
	require.InDelta(t, 0.2, got, 1e-12)
}

func TestCalculatePeriodReturn_YTD(t *testing.T) {
	s := &model.PriceSeries{Points: []model.PricePoint{
		{Date: time.Date(2023, 12, 28, 0, 0, 0, 0, time.UTC), Close: 50},
		{Date: time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC), Close: 80},
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 100},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Close: 105},
		{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Close: 110},
	}}
	v, err := CalculatePeriodReturn(s, ModeYTD)
	require.NoError(t, err)
	got, ok := v.Value()
	require.True(t, ok)
	require.InDelta(t, 0.1, got, 1e-12)

	// Only one observation in the latest year.
	s.Points = s.Points[:3]
	v, err = CalculatePeriodReturn(s, ModeYTD)
	require.NoError(t, err)
	require.Equal(t, model.StatInsufficientData, v.Status())
}

func TestCalculatePeriodReturn_Annualized(t *testing.T) {
	// 253 observations span exactly one trading year.
	v, err := CalculatePeriodReturn(linearSeries(253, 100, 150), ModeAnnualized)
	require.NoError(t, err)
	got, ok := v.Value()
	require.True(t, ok)
	require.InDelta(t, 0.5, got, 1e-9)

	v, err = CalculatePeriodReturn(seriesFromCloses(100), ModeAnnualized)
	require.NoError(t, err)
	require.Equal(t, model.StatInsufficientData, v.Status())

	v, err = CalculatePeriodReturn(seriesFromCloses(0, 10), ModeAnnualized)
	require.NoError(t, err)
	require.Equal(t, model.StatNotComputable, v.Status())
}

func TestCalculatePeriodReturn_UnknownMode(t *testing.T) {
	_, err := CalculatePeriodReturn(seriesFromCloses(1, 2), ReturnMode("weekly"))
	require.ErrorIs(t, err, ErrInvalidParameter)
}
