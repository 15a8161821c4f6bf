package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"StockLens/internal/collector"
	"StockLens/internal/config"
	"StockLens/internal/logger"
	"StockLens/internal/session"
	"StockLens/internal/store"
)

// app bundles everything a command needs.
type app struct {
	cfg   *config.Config
	store *store.SQLiteStore
	ctrl  *session.Controller
	logs  io.Closer
}

func openApp() (*app, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logs, err := logger.Setup(cfg.Log)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Database.SQLitePath)
	if err != nil {
		logs.Close()
		return nil, err
	}

	provider := newProvider(cfg)
	log.Debug().Str("provider", provider.Name()).Msg("data source")

	ctrl := session.NewController(provider, st, cfg.DataSource.Timeout)
	ctrl.RiskFreeRate = cfg.Analytics.RiskFreeRate
	ctrl.Buckets = cfg.Analytics.Buckets
	ctrl.RSIPeriod = cfg.Analytics.RSIPeriod

	return &app{cfg: cfg, store: st, ctrl: ctrl, logs: logs}, nil
}

func newProvider(cfg *config.Config) collector.Provider {
	var p collector.Provider
	switch cfg.DataSource.Provider {
	case "vstrader":
		p = collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.Timeout)
	case "mock":
		p = &collector.MockFetcher{}
	default:
		p = collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy, cfg.DataSource.Timeout)
	}
	return collector.NewCachingProvider(p, cfg.DataSource.CacheTTL)
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Error().Err(err).Msg("close store")
	}
	_ = a.logs.Close()
}
