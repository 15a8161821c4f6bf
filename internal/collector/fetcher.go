package collector

import (
	"context"
	"time"

	"StockLens/internal/model"
)

// Provider supplies raw price history and company metadata. Implementations
// are untrusted: callers must normalize the returned series.
type Provider interface {
	FetchHistory(ctx context.Context, ticker string, start, end time.Time) (*model.PriceSeries, error)
	FetchMetadata(ctx context.Context, ticker string) (*model.CompanyInfo, error)
	Name() string
}
