package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"

	"StockLens/internal/model"
	"StockLens/internal/report"
	"StockLens/internal/scheduler"
	"StockLens/internal/session"
)

var commands = []subcommands.Command{
	&analyzeCmd{},
	&watchAddCmd{},
	&watchRmCmd{},
	&watchlistCmd{},
	&historyCmd{},
	&prefGetCmd{},
	&prefSetCmd{},
	&refreshCmd{},
}

// withApp opens the app for the duration of fn and maps errors to an exit status.
func withApp(fn func(a *app) error) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	if err := fn(a); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// --- analyze ---

type analyzeCmd struct {
	period   string
	start    string
	end      string
	riskFree float64
	buckets  int
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "fetch a ticker's history and print returns, risk and moving averages" }
func (*analyzeCmd) Usage() string {
	return `stocklens analyze [-p <period> | -s <start> [-e <end>]] [<ticker>]

  Analyzes the ticker (or the default_ticker preference) over the period
  (or the default_period preference) and records it in the search history.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Period: 1mo, 3mo, 6mo, 1y, 2y, 5y, ytd or max.")
	f.StringVar(&c.start, "s", "", "Start date (YYYY-MM-DD). Overrides -p.")
	f.StringVar(&c.end, "e", "", "End date (YYYY-MM-DD), defaults to today.")
	f.Float64Var(&c.riskFree, "rf", 0, "Annual risk-free rate for the Sharpe ratio, e.g. 0.04.")
	f.IntVar(&c.buckets, "buckets", 0, "Histogram bucket count.")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app) error {
		prefs, err := a.store.LoadPreferences(ctx)
		if err != nil {
			return err
		}
		req := session.Request{
			Ticker:       prefs.DefaultTicker,
			Period:       prefs.DefaultPeriod,
			MAWindows:    prefs.MAWindows(),
			RiskFreeRate: c.riskFree,
			Buckets:      c.buckets,
		}
		if f.NArg() == 1 {
			req.Ticker = f.Arg(0)
		}
		if c.period != "" {
			if req.Period, err = model.ParsePeriod(c.period); err != nil {
				return err
			}
		}
		if c.start != "" {
			if req.Start, err = time.Parse(time.DateOnly, c.start); err != nil {
				return fmt.Errorf("parse start date: %w", err)
			}
			req.Period = ""
		}
		if c.end != "" {
			if req.End, err = time.Parse(time.DateOnly, c.end); err != nil {
				return fmt.Errorf("parse end date: %w", err)
			}
		}

		res, err := a.ctrl.Analyze(ctx, req)
		if err != nil {
			return err
		}
		fmt.Print(report.FormatAnalysis(res))
		return nil
	})
}

// --- watchlist ---

type watchAddCmd struct{}

func (*watchAddCmd) Name() string           { return "watch-add" }
func (*watchAddCmd) Synopsis() string       { return "add tickers to the watchlist" }
func (*watchAddCmd) Usage() string          { return "stocklens watch-add <ticker>...\n" }
func (*watchAddCmd) SetFlags(*flag.FlagSet) {}

func (*watchAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app) error {
		for _, t := range f.Args() {
			size, err := a.store.AddToWatchlist(ctx, t)
			if err != nil {
				return err
			}
			fmt.Printf("%s: watchlist has %d tickers\n", t, size)
		}
		return nil
	})
}

type watchRmCmd struct{}

func (*watchRmCmd) Name() string           { return "watch-rm" }
func (*watchRmCmd) Synopsis() string       { return "remove tickers from the watchlist" }
func (*watchRmCmd) Usage() string          { return "stocklens watch-rm <ticker>...\n" }
func (*watchRmCmd) SetFlags(*flag.FlagSet) {}

func (*watchRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app) error {
		for _, t := range f.Args() {
			if err := a.store.RemoveFromWatchlist(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

type watchlistCmd struct{}

func (*watchlistCmd) Name() string           { return "watchlist" }
func (*watchlistCmd) Synopsis() string       { return "list the watchlist in the order tickers were added" }
func (*watchlistCmd) Usage() string          { return "stocklens watchlist\n" }
func (*watchlistCmd) SetFlags(*flag.FlagSet) {}

func (*watchlistCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(func(a *app) error {
		entries, err := a.store.ListWatchlist(ctx)
		if err != nil {
			return err
		}
		fmt.Print(report.FormatWatchlist(entries))
		return nil
	})
}

// --- history ---

type historyCmd struct {
	clear bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show the most recent searches" }
func (*historyCmd) Usage() string    { return "stocklens history [-clear]\n" }
func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.clear, "clear", false, "Forget every recent search.")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(func(a *app) error {
		if c.clear {
			return a.store.ClearSearchHistory(ctx)
		}
		entries, err := a.store.SearchHistory(ctx)
		if err != nil {
			return err
		}
		fmt.Print(report.FormatHistory(entries))
		return nil
	})
}

// --- preferences ---

type prefGetCmd struct{}

func (*prefGetCmd) Name() string           { return "pref-get" }
func (*prefGetCmd) Synopsis() string       { return "print one preference, or all of them" }
func (*prefGetCmd) Usage() string          { return "stocklens pref-get [<key>]\n" }
func (*prefGetCmd) SetFlags(*flag.FlagSet) {}

func (*prefGetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(func(a *app) error {
		prefs, err := a.store.LoadPreferences(ctx)
		if err != nil {
			return err
		}
		values := prefs.Map()
		if f.NArg() > 0 {
			key := f.Arg(0)
			def, known := values[key]
			v, err := a.store.GetPreference(ctx, key, def)
			if err != nil {
				return err
			}
			if !known && v == "" {
				return fmt.Errorf("preference %q is not set", key)
			}
			fmt.Println(v)
			return nil
		}
		for _, k := range []string{model.PrefDefaultTicker, model.PrefDefaultPeriod, model.PrefTheme, model.PrefShowMA50, model.PrefShowMA200} {
			fmt.Printf("%s=%s\n", k, values[k])
		}
		return nil
	})
}

type prefSetCmd struct{}

func (*prefSetCmd) Name() string           { return "pref-set" }
func (*prefSetCmd) Synopsis() string       { return "store a preference" }
func (*prefSetCmd) Usage() string          { return "stocklens pref-set <key> <value>\n" }
func (*prefSetCmd) SetFlags(*flag.FlagSet) {}

func (*prefSetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(func(a *app) error {
		return a.store.SetPreference(ctx, f.Arg(0), f.Arg(1))
	})
}

// --- refresh ---

type refreshCmd struct {
	once bool
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "re-analyze every watchlist ticker on a schedule" }
func (*refreshCmd) Usage() string {
	return `stocklens refresh [-once]

  Runs the watchlist refresh on schedule.refresh_cron until interrupted.
  Refreshes do not touch the search history.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.once, "once", false, "Run a single pass and exit.")
}

func (c *refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(func(a *app) error {
		ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		period, err := model.ParsePeriod(a.cfg.Schedule.Period)
		if err != nil {
			return err
		}
		r := scheduler.NewRefresher(ctx, a.ctrl, a.store, period)
		if c.once {
			summary := r.RunNow()
			if summary.Err != nil {
				return summary.Err
			}
			if len(summary.Failed) > 0 {
				return fmt.Errorf("%d of %d tickers failed", len(summary.Failed), len(summary.Failed)+len(summary.Refreshed))
			}
			return nil
		}

		if err := r.Register(a.cfg.Schedule.RefreshCron); err != nil {
			return err
		}
		r.Start()
		defer r.Stop()
		<-ctx.Done()
		return nil
	})
}
