package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"StockLens/internal/collector"
	"StockLens/internal/model"
	"StockLens/internal/session"
	"StockLens/internal/store"
)

type flakyProvider struct {
	*collector.MockFetcher
	fail string
}

func (p flakyProvider) FetchHistory(ctx context.Context, ticker string, start, end time.Time) (*model.PriceSeries, error) {
	if ticker == p.fail {
		return nil, &collector.ProviderError{Kind: collector.KindNotFound, Source: "test", Ticker: ticker}
	}
	return p.MockFetcher.FetchHistory(ctx, ticker, start, end)
}

func setup(t *testing.T, fail string) (*Refresher, *store.SQLiteStore) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ctrl := session.NewController(flakyProvider{&collector.MockFetcher{}, fail}, st, time.Second)
	return NewRefresher(context.Background(), ctrl, st, model.Period3mo), st
}

func TestRefresher_RunNow(t *testing.T) {
	r, st := setup(t, "GONE")
	ctx := context.Background()
	for _, tk := range []string{"AAPL", "GONE", "MSFT"} {
		_, err := st.AddToWatchlist(ctx, tk)
		require.NoError(t, err)
	}

	summary := r.RunNow()
	require.NoError(t, summary.Err)
	require.Equal(t, []string{"AAPL", "MSFT"}, summary.Refreshed)
	require.Len(t, summary.Failed, 1)
	require.ErrorIs(t, summary.Failed["GONE"], collector.ErrNotFound)
	require.Equal(t, summary.Refreshed, r.Last().Refreshed)

	hist, err := st.SearchHistory(ctx)
	require.NoError(t, err)
	require.Empty(t, hist, "refresh must not touch search history")
}

func TestRefresher_Register(t *testing.T) {
	r, _ := setup(t, "")
	require.NoError(t, r.Register("0 0 22 * * 1-5"))
	require.Len(t, r.Cron.Entries(), 1)
	require.Error(t, r.Register("not a cron spec"))
}

func TestRefresher_EmptyWatchlist(t *testing.T) {
	r, _ := setup(t, "")
	summary := r.RunNow()
	require.NoError(t, summary.Err)
	require.Empty(t, summary.Refreshed)
	require.Empty(t, summary.Failed)
}
