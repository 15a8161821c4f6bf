package model

import (
	"strconv"
	"time"
)

// WatchlistEntry is a ticker the user follows.
type WatchlistEntry struct {
	Ticker  string
	AddedAt time.Time
}

// SearchHistoryEntry is a recently viewed ticker.
type SearchHistoryEntry struct {
	Ticker         string
	LastSearchedAt time.Time
}

// Preference is a single key/value setting.
type Preference struct {
	Key   string
	Value string
}

// Preference keys understood by the dashboard.
const (
	PrefDefaultTicker = "default_ticker"
	PrefDefaultPeriod = "default_period"
	PrefTheme         = "theme"
	PrefShowMA50      = "show_ma50"
	PrefShowMA200     = "show_ma200"
)

// Preferences is the typed view over the preference table.
type Preferences struct {
	DefaultTicker string
	DefaultPeriod Period
	Theme         string
	ShowMA50      bool
	ShowMA200     bool
}

// DefaultPreferences returns the settings used before the user changes anything.
func DefaultPreferences() Preferences {
	return Preferences{
		DefaultTicker: "AAPL",
		DefaultPeriod: Period1y,
		Theme:         "dark",
		ShowMA50:      true,
		ShowMA200:     true,
	}
}

// Map flattens the preferences into key/value pairs.
func (p Preferences) Map() map[string]string {
	return map[string]string{
		PrefDefaultTicker: p.DefaultTicker,
		PrefDefaultPeriod: string(p.DefaultPeriod),
		PrefTheme:         p.Theme,
		PrefShowMA50:      strconv.FormatBool(p.ShowMA50),
		PrefShowMA200:     strconv.FormatBool(p.ShowMA200),
	}
}

// MAWindows returns the moving-average windows enabled by the preferences.
// The result is never nil, so an empty selection stays empty.
func (p Preferences) MAWindows() []int {
	windows := make([]int, 0, 2)
	if p.ShowMA50 {
		windows = append(windows, 50)
	}
	if p.ShowMA200 {
		windows = append(windows, 200)
	}
	return windows
}
