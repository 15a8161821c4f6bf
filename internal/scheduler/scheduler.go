package scheduler

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"StockLens/internal/model"
	"StockLens/internal/report"
	"StockLens/internal/session"
)

// Analyzer runs one analysis; implemented by session.Controller.
type Analyzer interface {
	Analyze(ctx context.Context, req session.Request) (*model.AnalysisResult, error)
}

// WatchlistSource yields the tickers to refresh.
type WatchlistSource interface {
	Watchlist(ctx context.Context) iter.Seq2[model.WatchlistEntry, error]
}

// RunSummary reports the outcome of one refresh pass.
type RunSummary struct {
	Refreshed []string
	Failed    map[string]error
	// Err is set when the watchlist itself could not be read.
	Err error
}

// Refresher periodically re-analyzes every watchlist ticker.
type Refresher struct {
	Cron     *cron.Cron
	Analyzer Analyzer
	Source   WatchlistSource
	Period   model.Period
	Ctx      context.Context

	mu   sync.Mutex
	last RunSummary
}

// NewRefresher creates a Refresher. Overlapping ticks are skipped.
func NewRefresher(ctx context.Context, a Analyzer, src WatchlistSource, period model.Period) *Refresher {
	logger := cronLogger{}
	return &Refresher{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Analyzer: a,
		Source:   src,
		Period:   period,
		Ctx:      ctx,
	}
}

// Register schedules the refresh pass on a cron expression with seconds.
func (r *Refresher) Register(spec string) error {
	if _, err := r.Cron.AddFunc(spec, func() { r.RunNow() }); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (r *Refresher) Start() {
	r.Cron.Start()
	log.Info().Msg("refresher started")
}

// Stop stops the scheduler and waits for a running pass to finish.
func (r *Refresher) Stop() {
	<-r.Cron.Stop().Done()
	log.Info().Msg("refresher stopped")
}

// Last returns the summary of the most recent pass.
func (r *Refresher) Last() RunSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// RunNow executes one refresh pass synchronously. A failing ticker is
// logged and the pass continues.
func (r *Refresher) RunNow() RunSummary {
	summary := RunSummary{Failed: make(map[string]error)}
	log.Info().Msg("running watchlist refresh")

	for entry, err := range r.Source.Watchlist(r.Ctx) {
		if err != nil {
			log.Error().Err(err).Msg("read watchlist")
			summary.Err = err
			break
		}
		if r.Ctx.Err() != nil {
			break
		}
		res, err := r.Analyzer.Analyze(r.Ctx, session.Request{
			Ticker:      entry.Ticker,
			Period:      r.Period,
			SkipHistory: true,
		})
		if err != nil {
			log.Error().Err(err).Str("ticker", entry.Ticker).Msg("refresh failed")
			summary.Failed[entry.Ticker] = err
			continue
		}
		summary.Refreshed = append(summary.Refreshed, entry.Ticker)
		log.Info().Str("ticker", entry.Ticker).Msg(report.FormatSummaryLine(res))
	}

	log.Info().Int("refreshed", len(summary.Refreshed)).Int("failed", len(summary.Failed)).Msg("watchlist refresh done")
	r.mu.Lock()
	r.last = summary
	r.mu.Unlock()
	return summary
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
