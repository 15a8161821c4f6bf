package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestVsTrader(t *testing.T, h http.HandlerFunc) *VsTraderFetcher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewVsTraderFetcher(srv.URL, "secret", "", 5*time.Second)
}

func TestVsTraderFetcher_FetchHistory(t *testing.T) {
	f := newTestVsTrader(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/bars/daily", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.Equal(t, "MSFT", r.URL.Query().Get("symbol"))
		require.Equal(t, "2024-01-01", r.URL.Query().Get("from"))
		w.Header().Set("Content-Type", "application/json")
		// 2024-01-03 before 2024-01-02: the fetcher must sort.
		_, _ = w.Write([]byte(`[
			{"timestamp":1704240000,"open":1,"high":2,"low":1,"close":372.5,"volume":10},
			{"timestamp":1704153600,"open":1,"high":2,"low":1,"close":370.9,"volume":10}]`))
	})

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := f.FetchHistory(context.Background(), "MSFT", start, start.AddDate(0, 0, 5))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	require.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), s.Points[0].Date)
	require.InDelta(t, 372.5, s.Points[1].Close, 1e-9)
}

func TestVsTraderFetcher_FetchMetadata(t *testing.T) {
	f := newTestVsTrader(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/profile", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"MSFT","name":"Microsoft","currency":"USD","exchange":"NASDAQ","type":"EQUITY","price":410.2,"high_52w":430,"low_52w":310}`))
	})

	info, err := f.FetchMetadata(context.Background(), "MSFT")
	require.NoError(t, err)
	require.Equal(t, "Microsoft", info.Name)
	require.InDelta(t, 430.0, info.FiftyTwoWeekHigh, 1e-9)
}

func TestVsTraderFetcher_Errors(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusBadGateway, ErrNetwork},
	}
	for _, tc := range cases {
		f := newTestVsTrader(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tc.status)
		})
		_, err := f.FetchHistory(context.Background(), "MSFT", time.Now().AddDate(0, -1, 0), time.Now())
		require.ErrorIs(t, err, tc.want, "status %d", tc.status)
	}
}
