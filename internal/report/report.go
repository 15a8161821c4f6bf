package report

import (
	"fmt"
	"strings"
	"time"

	"StockLens/internal/model"
)

// Placeholder is rendered for any statistic that is not OK.
const Placeholder = "n/a"

// histogramWidth is the length of the longest histogram bar.
const histogramWidth = 30

// FormatStat renders s with the given verb, or Placeholder.
func FormatStat(s model.Stat, verb string) string {
	v, ok := s.Value()
	if !ok {
		return Placeholder
	}
	return fmt.Sprintf(verb, v)
}

func formatPct(s model.Stat) string {
	v, ok := s.Value()
	if !ok {
		return Placeholder
	}
	return fmt.Sprintf("%+.2f%%", v*100)
}

// FormatAnalysis renders a full analysis as a terminal report.
func FormatAnalysis(res *model.AnalysisResult) string {
	var b strings.Builder

	title := res.Ticker
	if res.Company != nil && res.Company.Name != "" {
		title = fmt.Sprintf("%s (%s)", res.Company.Name, res.Ticker)
	}
	b.WriteString(fmt.Sprintf("%s | %s ~ %s", title, res.Start.Format(time.DateOnly), res.End.Format(time.DateOnly)))
	if res.Period != "" {
		b.WriteString(fmt.Sprintf(" [%s]", res.Period))
	}
	b.WriteString("\n\n")

	// Price
	if last, ok := res.Series.Last(); ok {
		b.WriteString(fmt.Sprintf("Last close: %.2f (%s)\n", last.Close, last.Date.Format(time.DateOnly)))
	}
	if res.Company != nil && res.Company.Currency != "" {
		b.WriteString(fmt.Sprintf("Currency: %s | Exchange: %s\n", res.Company.Currency, res.Company.Exchange))
	}
	b.WriteString(fmt.Sprintf("52w high: %s | 52w low: %s\n",
		FormatStat(res.Range.High, "%.2f"), FormatStat(res.Range.Low, "%.2f")))
	for _, ma := range res.MovingAverages {
		b.WriteString(fmt.Sprintf("MA%d: %s\n", ma.Window, FormatStat(ma.Latest(), "%.2f")))
	}
	b.WriteString(fmt.Sprintf("RSI: %s\n\n", FormatStat(res.RSI, "%.1f")))

	// Returns
	b.WriteString("Returns:\n")
	b.WriteString(fmt.Sprintf("  daily: %s | monthly: %s | ytd: %s | annualized: %s\n\n",
		formatPct(res.PeriodReturns.Daily), formatPct(res.PeriodReturns.Monthly),
		formatPct(res.PeriodReturns.YTD), formatPct(res.PeriodReturns.Annualized)))

	// Risk
	b.WriteString("Risk:\n")
	b.WriteString(fmt.Sprintf("  volatility: %s | sharpe: %s | max drawdown: %s\n",
		formatPct(res.Risk.Volatility), FormatStat(res.Risk.SharpeRatio, "%.2f"), formatPct(res.Risk.MaxDrawdown)))
	if res.Returns != nil && len(res.Returns.Dropped) > 0 {
		b.WriteString(fmt.Sprintf("  (%d observations dropped)\n", len(res.Returns.Dropped)))
	}

	if res.Distribution != nil {
		b.WriteString("\nDaily return distribution:\n")
		b.WriteString(FormatHistogram(res.Distribution))
	}
	return b.String()
}

// FormatHistogram draws one bar per bucket, scaled to the fullest bucket.
func FormatHistogram(h *model.Histogram) string {
	peak := 0
	for _, c := range h.Counts {
		peak = max(peak, c)
	}
	var b strings.Builder
	for i, c := range h.Counts {
		bar := 0
		if peak > 0 {
			bar = c * histogramWidth / peak
		}
		b.WriteString(fmt.Sprintf("  %+7.2f%% %s %d\n", h.Edges[i]*100, strings.Repeat("#", bar), c))
	}
	return b.String()
}

// FormatSummaryLine renders a one-line digest used by the refresher.
func FormatSummaryLine(res *model.AnalysisResult) string {
	last := Placeholder
	if p, ok := res.Series.Last(); ok {
		last = fmt.Sprintf("%.2f", p.Close)
	}
	return fmt.Sprintf("%s %s daily %s vol %s sharpe %s rsi %s",
		res.Ticker, last,
		formatPct(res.PeriodReturns.Daily),
		formatPct(res.Risk.Volatility),
		FormatStat(res.Risk.SharpeRatio, "%.2f"),
		FormatStat(res.RSI, "%.0f"))
}

// FormatWatchlist lists watchlist entries in insertion order.
func FormatWatchlist(entries []model.WatchlistEntry) string {
	if len(entries) == 0 {
		return "Watchlist is empty.\n"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Watchlist (%d):\n", len(entries)))
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("  %-8s added %s\n", e.Ticker, e.AddedAt.Local().Format("2006-01-02 15:04")))
	}
	return b.String()
}

// FormatHistory lists recent searches, most recent first.
func FormatHistory(entries []model.SearchHistoryEntry) string {
	if len(entries) == 0 {
		return "No recent searches.\n"
	}
	var b strings.Builder
	b.WriteString("Recent searches:\n")
	for i, e := range entries {
		b.WriteString(fmt.Sprintf("  %d. %-8s %s\n", i+1, e.Ticker, e.LastSearchedAt.Local().Format("2006-01-02 15:04")))
	}
	return b.String()
}
