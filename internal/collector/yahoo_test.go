package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const chartOK = `{"chart":{"result":[{
  "meta":{"symbol":"AAPL","currency":"USD","exchangeName":"NMS","fullExchangeName":"NasdaqGS",
          "instrumentType":"EQUITY","longName":"Apple Inc.","gmtoffset":-18000,
          "regularMarketPrice":187.5,"fiftyTwoWeekHigh":199.6,"fiftyTwoWeekLow":164.1},
  "timestamp":[1704205800,1704292200,1704378600],
  "indicators":{"quote":[{
    "open":[187.1,184.2,182.1],
    "high":[188.4,185.8,183.0],
    "low":[183.8,183.4,180.8],
    "close":[185.6,null,181.9],
    "volume":[82488700,58414500,71983600]}]}}],
 "error":null}}`

const chartNotFound = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

func newTestYahoo(t *testing.T, h http.HandlerFunc) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewYahooFetcher(srv.URL, "", 5*time.Second)
}

func TestYahooFetcher_FetchHistory(t *testing.T) {
	var gotPath string
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, "1d", r.URL.Query().Get("interval"))
		require.NotEmpty(t, r.URL.Query().Get("period1"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartOK))
	})

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	s, err := f.FetchHistory(context.Background(), "AAPL", start, end)
	require.NoError(t, err)
	require.Equal(t, "/v8/finance/chart/AAPL", gotPath)
	require.Equal(t, 2, s.Len(), "null close must be skipped")
	require.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), s.Points[0].Date)
	require.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), s.Points[1].Date)
	require.InDelta(t, 181.9, s.Points[1].Close, 1e-9)
}

const chartPartialBar = `{"chart":{"result":[{
  "meta":{"symbol":"AAPL","currency":"USD","gmtoffset":-18000},
  "timestamp":[1704205800,1704292200],
  "indicators":{"quote":[{
    "open":[187.1,null],
    "high":[188.4,null],
    "low":[183.8,null],
    "close":[185.6,184.3],
    "volume":[82488700,null]}]}}],
 "error":null}}`

func TestYahooFetcher_NullFieldsFallBackToClose(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chartPartialBar))
	})

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := f.FetchHistory(context.Background(), "AAPL", start, start.AddDate(0, 0, 5))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	p := s.Points[1]
	require.InDelta(t, 184.3, p.Open, 1e-9)
	require.InDelta(t, 184.3, p.High, 1e-9)
	require.InDelta(t, 184.3, p.Low, 1e-9)
	require.Zero(t, p.Volume)
	require.InDelta(t, 183.8, s.Points[0].Low, 1e-9)
}

func TestYahooFetcher_SymbolMap(t *testing.T) {
	var gotPath string
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(chartOK))
	})
	_, err := f.FetchMetadata(context.Background(), "SPX500")
	require.NoError(t, err)
	require.Equal(t, "/v8/finance/chart/^GSPC", gotPath)
}

func TestYahooFetcher_FetchMetadata(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "1d", r.URL.Query().Get("range"))
		_, _ = w.Write([]byte(chartOK))
	})
	info, err := f.FetchMetadata(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, "Apple Inc.", info.Name)
	require.Equal(t, "NasdaqGS", info.Exchange)
	require.InDelta(t, 199.6, info.FiftyTwoWeekHigh, 1e-9)
	require.InDelta(t, 164.1, info.FiftyTwoWeekLow, 1e-9)
}

func TestYahooFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"not found", http.StatusNotFound, chartNotFound, ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, "Too Many Requests", ErrRateLimited},
		{"server error", http.StatusBadGateway, "bad gateway", ErrNetwork},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := f.FetchHistory(context.Background(), "ZZZZ", time.Now().AddDate(0, -1, 0), time.Now())
			require.ErrorIs(t, err, tt.want)

			var pe *ProviderError
			require.True(t, errors.As(err, &pe))
			require.Equal(t, "ZZZZ", pe.Ticker)
			require.Equal(t, "yahoo", pe.Source)
		})
	}
}

func TestYahooFetcher_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := NewYahooFetcher(url, "", time.Second)
	_, err := f.FetchHistory(context.Background(), "AAPL", time.Now().AddDate(0, -1, 0), time.Now())
	require.ErrorIs(t, err, ErrNetwork)
	require.NotErrorIs(t, err, ErrNotFound)
}
