package collector

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
	"time"

	"StockLens/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Unknown tickers get a deterministic generated series.
type MockFetcher struct {
	Price  float64
	Series map[string]*model.PriceSeries
	Info   map[string]*model.CompanyInfo
	Err    error

	mu    sync.Mutex
	calls int
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many history fetches were served.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockFetcher) FetchHistory(ctx context.Context, ticker string, start, end time.Time) (*model.PriceSeries, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, newProviderError(m.Name(), ticker, KindNetwork, err)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if s, ok := m.Series[ticker]; ok {
		return s.Clone(), nil
	}
	base := m.Price
	if base == 0 {
		base = basePriceFor(ticker)
	}
	return &model.PriceSeries{
		Ticker:    ticker,
		Points:    generateMockBars(ticker, base, start, end),
		FetchedAt: time.Now(),
	}, nil
}

func (m *MockFetcher) FetchMetadata(ctx context.Context, ticker string) (*model.CompanyInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, newProviderError(m.Name(), ticker, KindNetwork, err)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if info, ok := m.Info[ticker]; ok {
		cp := *info
		return &cp, nil
	}
	return &model.CompanyInfo{Ticker: ticker, Name: ticker + " (mock)", Currency: "USD", Exchange: "MOCK", InstrumentType: "EQUITY"}, nil
}

// basePriceFor derives a stable starting price from the ticker.
func basePriceFor(ticker string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ticker))
	return 20 + float64(h.Sum32()%480)
}

// generateMockBars produces one bar per weekday between start and end with a
// gentle drift and a deterministic wiggle.
func generateMockBars(ticker string, basePrice float64, start, end time.Time) []model.PricePoint {
	phase := float64(len(ticker))
	var bars []model.PricePoint
	i := 0
	for d := model.TruncateDay(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.0005 + 0.02*math.Sin(float64(i)/5+phase))
		bars = append(bars, model.PricePoint{
			Date:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}
