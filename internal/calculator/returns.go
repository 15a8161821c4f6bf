package calculator

import (
	"fmt"
	"math"
	"time"

	"StockLens/internal/model"
)

// ReturnMode selects the horizon for CalculatePeriodReturn.
type ReturnMode string

const (
	ModeDaily      ReturnMode = "daily"
	ModeMonthly    ReturnMode = "monthly"
	ModeYTD        ReturnMode = "ytd"
	ModeAnnualized ReturnMode = "annualized"
)

// monthTradingDays is the number of trading intervals treated as one month.
const monthTradingDays = 21

// CalculateDailyReturns derives close-to-close simple returns. Observations
// whose previous close is zero or whose prices are not finite are dropped
// and reported in Dropped; the remaining returns are still produced.
func CalculateDailyReturns(series *model.PriceSeries) (*model.ReturnSeries, error) {
	n := series.Len()
	if n < 2 {
		return nil, fmt.Errorf("%w: daily returns need 2 observations, got %d", ErrInsufficientData, n)
	}

	rs := &model.ReturnSeries{Points: make([]model.ReturnPoint, 0, n-1)}
	for i := 1; i < n; i++ {
		prev, cur := series.Points[i-1], series.Points[i]
		switch {
		case prev.Close == 0:
			rs.Dropped = append(rs.Dropped, model.DataQualityError{Date: cur.Date, Reason: "previous close is zero"})
			continue
		case !finite(prev.Close) || !finite(cur.Close):
			rs.Dropped = append(rs.Dropped, model.DataQualityError{Date: cur.Date, Reason: "close is not a finite number"})
			continue
		}
		rs.Points = append(rs.Points, model.ReturnPoint{Date: cur.Date, Return: cur.Close/prev.Close - 1})
	}
	return rs, nil
}

// CalculatePeriodReturn computes the return over the horizon selected by mode.
func CalculatePeriodReturn(series *model.PriceSeries, mode ReturnMode) (model.Stat, error) {
	n := series.Len()
	switch mode {
	case ModeDaily:
		if n < 2 {
			return model.InsufficientData(), nil
		}
		return simpleReturn(series.Points[n-2].Close, series.Points[n-1].Close), nil

	case ModeMonthly:
		if n < 2 {
			return model.InsufficientData(), nil
		}
		start := max(n-1-monthTradingDays, 0)
		return simpleReturn(series.Points[start].Close, series.Points[n-1].Close), nil

	case ModeYTD:
		if n < 2 {
			return model.InsufficientData(), nil
		}
		last := series.Points[n-1]
		jan1 := time.Date(last.Date.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		start := -1
		for i, p := range series.Points {
			if !p.Date.Before(jan1) {
				start = i
				break
			}
		}
		if start < 0 || start == n-1 {
			return model.InsufficientData(), nil
		}
		return simpleReturn(series.Points[start].Close, last.Close), nil

	case ModeAnnualized:
		spanned := n - 1
		if spanned < 1 {
			return model.InsufficientData(), nil
		}
		total := simpleReturn(series.Points[0].Close, series.Points[n-1].Close)
		tr, ok := total.Value()
		if !ok {
			return total, nil
		}
		ann := math.Pow(1+tr, float64(TradingDaysPerYear)/float64(spanned)) - 1
		if !finite(ann) {
			return model.NotComputable(), nil
		}
		return model.Ok(ann), nil

	default:
		return model.Stat{}, fmt.Errorf("%w: unknown return mode %q", ErrInvalidParameter, mode)
	}
}

// CalculatePeriodReturns evaluates every horizon.
func CalculatePeriodReturns(series *model.PriceSeries) model.PeriodReturns {
	// Modes are all known, so errors cannot occur here.
	daily, _ := CalculatePeriodReturn(series, ModeDaily)
	monthly, _ := CalculatePeriodReturn(series, ModeMonthly)
	ytd, _ := CalculatePeriodReturn(series, ModeYTD)
	ann, _ := CalculatePeriodReturn(series, ModeAnnualized)
	return model.PeriodReturns{Daily: daily, Monthly: monthly, YTD: ytd, Annualized: ann}
}

func simpleReturn(from, to float64) model.Stat {
	if from <= 0 || !finite(from) || !finite(to) {
		return model.NotComputable()
	}
	return model.Ok(to/from - 1)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
