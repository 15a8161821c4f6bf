package collector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"StockLens/internal/model"
)

// VsTraderFetcher implements Provider using the vstrader REST API.
type VsTraderFetcher struct {
	Client *resty.Client
}

// NewVsTraderFetcher creates a new fetcher with optional proxy support.
func NewVsTraderFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *VsTraderFetcher {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &VsTraderFetcher{Client: client}
}

func (f *VsTraderFetcher) Name() string { return "vstrader" }

// vsBar is the expected JSON shape from the vstrader API.
type vsBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

type vsProfile struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Currency string  `json:"currency"`
	Exchange string  `json:"exchange"`
	Type     string  `json:"type"`
	Price    float64 `json:"price"`
	High52w  float64 `json:"high_52w"`
	Low52w   float64 `json:"low_52w"`
}

func (f *VsTraderFetcher) FetchHistory(ctx context.Context, ticker string, start, end time.Time) (*model.PriceSeries, error) {
	var bars []vsBar
	resp, err := f.Client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": ticker,
			"from":   start.Format("2006-01-02"),
			"to":     end.Format("2006-01-02"),
		}).
		SetResult(&bars).
		Get("/api/v1/bars/daily")
	if err := f.check(ticker, resp, err); err != nil {
		return nil, err
	}

	series := &model.PriceSeries{Ticker: ticker, FetchedAt: time.Now(), Points: make([]model.PricePoint, len(bars))}
	for i, vb := range bars {
		series.Points[i] = model.PricePoint{
			Date:   time.Unix(vb.Timestamp, 0).UTC(),
			Open:   vb.Open,
			High:   vb.High,
			Low:    vb.Low,
			Close:  vb.Close,
			Volume: vb.Volume,
		}
	}
	// Ensure chronological order
	series.Normalize()
	return series, nil
}

func (f *VsTraderFetcher) FetchMetadata(ctx context.Context, ticker string) (*model.CompanyInfo, error) {
	var p vsProfile
	resp, err := f.Client.R().
		SetContext(ctx).
		SetQueryParam("symbol", ticker).
		SetResult(&p).
		Get("/api/v1/profile")
	if err := f.check(ticker, resp, err); err != nil {
		return nil, err
	}
	return &model.CompanyInfo{
		Ticker:             ticker,
		Name:               p.Name,
		Currency:           p.Currency,
		Exchange:           p.Exchange,
		InstrumentType:     p.Type,
		RegularMarketPrice: p.Price,
		FiftyTwoWeekHigh:   p.High52w,
		FiftyTwoWeekLow:    p.Low52w,
	}, nil
}

func (f *VsTraderFetcher) check(ticker string, resp *resty.Response, err error) error {
	if err != nil {
		return newProviderError(f.Name(), ticker, KindNetwork, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return newProviderError(f.Name(), ticker, kindForStatus(resp.StatusCode()),
			fmt.Errorf("status %d, body: %s", resp.StatusCode(), truncate(resp.String(), 200)))
	}
	return nil
}
