package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"StockLens/internal/model"
)

// DefaultYahooBaseURL is the public Yahoo Finance query host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Provider using the Yahoo Finance chart API.
type YahooFetcher struct {
	Client    *resty.Client
	SymbolMap map[string]string // maps dashboard symbol to Yahoo ticker
}

// NewYahooFetcher creates a Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(baseURL, proxyURL string, timeout time.Duration) *YahooFetcher {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "Mozilla/5.0").
		SetHeader("Accept", "application/json")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &YahooFetcher{
		Client: client,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

type yahooMeta struct {
	Symbol             string  `json:"symbol"`
	Currency           string  `json:"currency"`
	ExchangeName       string  `json:"exchangeName"`
	FullExchangeName   string  `json:"fullExchangeName"`
	InstrumentType     string  `json:"instrumentType"`
	LongName           string  `json:"longName"`
	ShortName          string  `json:"shortName"`
	GMTOffset          int64   `json:"gmtoffset"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	FiftyTwoWeekHigh   float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow    float64 `json:"fiftyTwoWeekLow"`
}

// yahooChart is the response structure from the Yahoo Finance chart API.
// Quote arrays carry nulls for halted or missing sessions.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta       yahooMeta `json:"meta"`
			Timestamp  []int64   `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *YahooFetcher) fetchChart(ctx context.Context, ticker string, query map[string]string) (*yahooChart, error) {
	resp, err := f.Client.R().
		SetContext(ctx).
		SetPathParam("symbol", f.yahooSymbol(ticker)).
		SetQueryParams(query).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		return nil, newProviderError(f.Name(), ticker, KindNetwork, err)
	}

	var chart yahooChart
	decodeErr := json.Unmarshal(resp.Body(), &chart)

	if chart.Chart.Error != nil && chart.Chart.Error.Code == "Not Found" {
		return nil, newProviderError(f.Name(), ticker, KindNotFound, fmt.Errorf("%s", chart.Chart.Error.Description))
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, newProviderError(f.Name(), ticker, kindForStatus(resp.StatusCode()),
			fmt.Errorf("status %d, body: %s", resp.StatusCode(), truncate(resp.String(), 200)))
	}
	if decodeErr != nil {
		return nil, newProviderError(f.Name(), ticker, KindNetwork, fmt.Errorf("decode: %w", decodeErr))
	}
	if chart.Chart.Error != nil {
		return nil, newProviderError(f.Name(), ticker, KindNetwork, fmt.Errorf("api error: %s", chart.Chart.Error.Description))
	}
	if len(chart.Chart.Result) == 0 {
		return nil, newProviderError(f.Name(), ticker, KindNotFound, fmt.Errorf("no data returned"))
	}
	return &chart, nil
}

// FetchHistory returns daily bars between start and end inclusive.
func (f *YahooFetcher) FetchHistory(ctx context.Context, ticker string, start, end time.Time) (*model.PriceSeries, error) {
	chart, err := f.fetchChart(ctx, ticker, map[string]string{
		"interval": "1d",
		"period1":  strconv.FormatInt(start.Unix(), 10),
		"period2":  strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10),
	})
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	series := &model.PriceSeries{Ticker: ticker, FetchedAt: time.Now()}
	if len(result.Indicators.Quote) == 0 {
		return series, nil
	}
	quote := result.Indicators.Quote[0]
	first, last := model.TruncateDay(start), model.TruncateDay(end)

	series.Points = make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c := valueAt(quote.Close, i)
		if c == nil {
			continue // skip null bars (holidays, halts)
		}
		day := model.TruncateDay(time.Unix(ts+result.Meta.GMTOffset, 0).UTC())
		if day.Before(first) || day.After(last) {
			continue
		}
		series.Points = append(series.Points, model.PricePoint{
			Date:   day,
			Open:   orElse(valueAt(quote.Open, i), *c),
			High:   orElse(valueAt(quote.High, i), *c),
			Low:    orElse(valueAt(quote.Low, i), *c),
			Close:  *c,
			Volume: orElse(valueAt(quote.Volume, i), 0),
		})
	}
	series.Normalize()
	return series, nil
}

// FetchMetadata returns the quote metadata Yahoo attaches to a chart response.
func (f *YahooFetcher) FetchMetadata(ctx context.Context, ticker string) (*model.CompanyInfo, error) {
	chart, err := f.fetchChart(ctx, ticker, map[string]string{"interval": "1d", "range": "1d"})
	if err != nil {
		return nil, err
	}
	meta := chart.Chart.Result[0].Meta
	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}
	exchange := meta.FullExchangeName
	if exchange == "" {
		exchange = meta.ExchangeName
	}
	return &model.CompanyInfo{
		Ticker:             ticker,
		Name:               name,
		Currency:           meta.Currency,
		Exchange:           exchange,
		InstrumentType:     meta.InstrumentType,
		RegularMarketPrice: meta.RegularMarketPrice,
		FiftyTwoWeekHigh:   meta.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:    meta.FiftyTwoWeekLow,
	}, nil
}

func valueAt(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}

// orElse returns def for a null field. Missing open/high/low fall back to
// the close so a partial bar never reports a zero price.
func orElse(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
