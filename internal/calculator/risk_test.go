package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
)

func returnsOf(vals ...float64) *model.ReturnSeries {
	rs := &model.ReturnSeries{}
	for i, v := range vals {
		rs.Points = append(rs.Points, model.ReturnPoint{Date: baseDate.AddDate(0, 0, i+1), Return: v})
	}
	return rs
}

func TestCalculateVolatility_NotComputable(t *testing.T) {
	require.Equal(t, model.StatNotComputable, CalculateVolatility(nil).Status())
	require.Equal(t, model.StatNotComputable, CalculateVolatility(returnsOf()).Status())
	require.Equal(t, model.StatNotComputable, CalculateVolatility(returnsOf(0.01)).Status())
	require.Equal(t, model.StatNotComputable, CalculateSharpeRatio(returnsOf(0.01), 0).Status())
}

func TestCalculateVolatility_SampleStdev(t *testing.T) {
	v, ok := CalculateVolatility(returnsOf(0.01, -0.01)).Value()
	require.True(t, ok)
	require.InDelta(t, math.Sqrt(0.0002)*math.Sqrt(252), v, 1e-12)
}

func TestCalculateVolatility_Deterministic(t *testing.T) {
	rs := returnsOf(0.013, -0.004, 0.021, -0.017, 0.002, 0.009)
	require.Equal(t, CalculateVolatility(rs), CalculateVolatility(rs))
	require.Equal(t, CalculateSharpeRatio(rs, 0.02), CalculateSharpeRatio(rs, 0.02))
}

func TestCalculateSharpeRatio_ZeroVolatility(t *testing.T) {
	s := CalculateSharpeRatio(returnsOf(0.01, 0.01, 0.01), 0)
	require.Equal(t, model.StatNotComputable, s.Status())
}

func TestCalculateSharpeRatio_Value(t *testing.T) {
	rs := returnsOf(0.02, 0.0)
	vol, _ := CalculateVolatility(rs).Value()
	got, ok := CalculateSharpeRatio(rs, 0.5).Value()
	require.True(t, ok)
	require.InDelta(t, (0.01*252-0.5)/vol, got, 1e-12)
}

func TestCalculateMaxDrawdown(t *testing.T) {
	got, ok := CalculateMaxDrawdown(seriesFromCloses(100, 120, 90, 130, 117)).Value()
	require.True(t, ok)
	require.InDelta(t, -0.25, got, 1e-12)

	got, ok = CalculateMaxDrawdown(seriesFromCloses(1, 2, 3)).Value()
	require.True(t, ok)
	require.Zero(t, got)

	require.Equal(t, model.StatInsufficientData, CalculateMaxDrawdown(seriesFromCloses(1)).Status())
}

func TestComputeRiskMetrics_LinearYear(t *testing.T) {
	s := linearSeries(252, 100, 200)
	rs, err := CalculateDailyReturns(s)
	require.NoError(t, err)
	require.Len(t, rs.Points, 251)

	m := ComputeRiskMetrics(s, rs, 0)

	ann, ok := m.AnnualizedReturn.Value()
	require.True(t, ok)
	require.Greater(t, ann, 0.0)
	require.False(t, math.IsInf(ann, 0) || math.IsNaN(ann))

	vol, ok := m.Volatility.Value()
	require.True(t, ok)
	require.Greater(t, vol, 0.0)
	require.False(t, math.IsInf(vol, 0) || math.IsNaN(vol))

	sharpe, ok := m.SharpeRatio.Value()
	require.True(t, ok)
	require.Greater(t, sharpe, 0.0)

	dd, ok := m.MaxDrawdown.Value()
	require.True(t, ok)
	require.Zero(t, dd)
}
