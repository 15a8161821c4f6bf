package model

import (
	"fmt"
	"strings"
	"time"
)

// Period is a named lookback window as offered in the dashboard.
type Period string

const (
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	Period1y  Period = "1y"
	Period2y  Period = "2y"
	Period5y  Period = "5y"
	PeriodYTD Period = "ytd"
	PeriodMax Period = "max"
)

// Periods lists the supported periods in display order.
var Periods = []Period{Period1mo, Period3mo, Period6mo, Period1y, Period2y, Period5y, PeriodYTD, PeriodMax}

// ParsePeriod accepts a period name case-insensitively.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Periods {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// earliest is the start used for PeriodMax; Yahoo accepts any positive epoch.
var earliest = time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)

// Range resolves the period to a [start, end] date window ending at now.
func (p Period) Range(now time.Time) (start, end time.Time, err error) {
	end = TruncateDay(now)
	switch p {
	case Period1mo:
		start = end.AddDate(0, -1, 0)
	case Period3mo:
		start = end.AddDate(0, -3, 0)
	case Period6mo:
		start = end.AddDate(0, -6, 0)
	case Period1y:
		start = end.AddDate(-1, 0, 0)
	case Period2y:
		start = end.AddDate(-2, 0, 0)
	case Period5y:
		start = end.AddDate(-5, 0, 0)
	case PeriodYTD:
		start = time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case PeriodMax:
		start = earliest
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown period %q", string(p))
	}
	return start, end, nil
}
