package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"StockLens/internal/calculator"
	"StockLens/internal/collector"
	"StockLens/internal/model"
	"StockLens/internal/store"
)

// Defaults used when neither the Controller nor the Request sets a value.
const (
	DefaultTimeout = 15 * time.Second
	DefaultBuckets = 50
	DefaultRSI     = 14
)

// DefaultMAWindows are the moving averages shown when the request names none.
var DefaultMAWindows = []int{50, 200}

// SearchRecorder is the slice of the state store the controller writes to.
type SearchRecorder interface {
	RecordSearch(ctx context.Context, ticker string) error
}

// Controller runs one analysis request: fetch, record, analyze.
type Controller struct {
	Provider     collector.Provider
	Store        SearchRecorder
	Timeout      time.Duration
	RiskFreeRate float64
	Buckets      int
	RSIPeriod    int
	Now          func() time.Time
}

// NewController creates a Controller with default analytics settings.
func NewController(p collector.Provider, s SearchRecorder, timeout time.Duration) *Controller {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Controller{
		Provider:  p,
		Store:     s,
		Timeout:   timeout,
		Buckets:   DefaultBuckets,
		RSIPeriod: DefaultRSI,
		Now:       time.Now,
	}
}

// Request describes a single analysis. Start/End take precedence over
// Period when Start is set. Zero numeric fields fall back to the
// Controller's settings.
type Request struct {
	Ticker       string
	Period       model.Period
	Start        time.Time
	End          time.Time
	MAWindows    []int
	RiskFreeRate float64
	Buckets      int
	RSIPeriod    int
	// SkipHistory leaves the search history untouched on success.
	SkipHistory bool
}

// Analyze fetches the price history for req.Ticker and derives every
// statistic. A provider failure is returned unchanged and nothing is
// persisted; the search is recorded only after a successful fetch.
func (c *Controller) Analyze(ctx context.Context, req Request) (*model.AnalysisResult, error) {
	ticker, err := store.NormalizeTicker(req.Ticker)
	if err != nil {
		return nil, err
	}
	start, end, err := c.resolveRange(req)
	if err != nil {
		return nil, err
	}
	params, err := c.resolveParams(req)
	if err != nil {
		return nil, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	series, err := c.Provider.FetchHistory(fetchCtx, ticker, start, end)
	cancel()
	if err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("fetch history failed")
		return nil, err
	}
	if series.Len() == 0 {
		return nil, &collector.ProviderError{
			Kind:   collector.KindNotFound,
			Source: c.Provider.Name(),
			Ticker: ticker,
			Err:    errors.New("empty price history"),
		}
	}
	series.Normalize()

	if !req.SkipHistory {
		if err := c.Store.RecordSearch(ctx, ticker); err != nil {
			return nil, err
		}
	}

	result := analyze(series, params)
	result.Ticker = ticker
	result.Period = req.Period
	result.Start, result.End = start, end
	result.Company = c.fetchCompany(ctx, ticker)

	log.Info().
		Str("ticker", ticker).
		Int("points", series.Len()).
		Int("dropped", len(result.Returns.Dropped)).
		Msg("analysis complete")
	return result, nil
}

type analysisParams struct {
	maWindows []int
	riskFree  float64
	buckets   int
	rsi       int
}

func (c *Controller) resolveParams(req Request) (analysisParams, error) {
	p := analysisParams{
		maWindows: req.MAWindows,
		riskFree:  req.RiskFreeRate,
		buckets:   req.Buckets,
		rsi:       req.RSIPeriod,
	}
	if p.maWindows == nil {
		p.maWindows = DefaultMAWindows
	}
	if p.riskFree == 0 {
		p.riskFree = c.RiskFreeRate
	}
	if p.buckets == 0 {
		p.buckets = c.Buckets
	}
	if p.rsi == 0 {
		p.rsi = c.RSIPeriod
	}

	for _, w := range p.maWindows {
		if w < 2 {
			return p, fmt.Errorf("%w: moving-average window must be >= 2, got %d", calculator.ErrInvalidParameter, w)
		}
	}
	if p.buckets < 1 {
		return p, fmt.Errorf("%w: bucket count must be >= 1, got %d", calculator.ErrInvalidParameter, p.buckets)
	}
	if p.rsi < 1 {
		return p, fmt.Errorf("%w: RSI period must be positive, got %d", calculator.ErrInvalidParameter, p.rsi)
	}
	return p, nil
}

func (c *Controller) resolveRange(req Request) (time.Time, time.Time, error) {
	now := c.Now()
	if !req.Start.IsZero() {
		start := model.TruncateDay(req.Start)
		end := model.TruncateDay(now)
		if !req.End.IsZero() {
			end = model.TruncateDay(req.End)
		}
		if !start.Before(end) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start %s is not before end %s",
				calculator.ErrInvalidParameter, start.Format(time.DateOnly), end.Format(time.DateOnly))
		}
		return start, end, nil
	}

	period := req.Period
	if period == "" {
		period = model.Period1y
	}
	start, end, err := period.Range(now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", calculator.ErrInvalidParameter, err)
	}
	return start, end, nil
}

func (c *Controller) fetchCompany(ctx context.Context, ticker string) *model.CompanyInfo {
	metaCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	info, err := c.Provider.FetchMetadata(metaCtx, ticker)
	if err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("fetch metadata failed")
		return nil
	}
	return info
}

// analyze derives every statistic from a non-empty, normalized series.
// Parameters are validated beforehand so calculator errors here only
// signal insufficient data.
func analyze(series *model.PriceSeries, p analysisParams) *model.AnalysisResult {
	result := &model.AnalysisResult{Series: series}

	returns, err := calculator.CalculateDailyReturns(series)
	if err != nil {
		returns = &model.ReturnSeries{}
	}
	for _, d := range returns.Dropped {
		log.Warn().Time("date", d.Date).Str("reason", d.Reason).Msg("dropped observation")
	}
	result.Returns = returns

	for _, w := range p.maWindows {
		ma, err := calculator.CalculateMovingAverage(series, w)
		if err != nil {
			log.Error().Err(err).Int("window", w).Msg("moving average")
			continue
		}
		result.MovingAverages = append(result.MovingAverages, ma)
	}

	result.Risk = calculator.ComputeRiskMetrics(series, returns, p.riskFree)
	result.PeriodReturns = calculator.CalculatePeriodReturns(series)

	if h, err := calculator.CalculateReturnDistribution(returns, p.buckets); err == nil {
		result.Distribution = h
	}

	result.RSI, err = calculator.CalculateRSI(series, p.rsi)
	if err != nil {
		result.RSI = model.NotComputable()
	}

	result.Range, err = calculator.CalculateHighLow(series, calculator.FiftyTwoWeekLookback)
	if err != nil {
		log.Error().Err(err).Msg("52-week range")
	}
	return result
}
