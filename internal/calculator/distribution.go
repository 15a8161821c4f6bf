package calculator

import (
	"fmt"
	"math"

	"StockLens/internal/model"
)

// CalculateReturnDistribution buckets the returns into an equal-width
// histogram spanning [min, max]. The maximum falls in the last bucket.
func CalculateReturnDistribution(returns *model.ReturnSeries, buckets int) (*model.Histogram, error) {
	if buckets < 1 {
		return nil, fmt.Errorf("%w: bucket count must be >= 1, got %d", ErrInvalidParameter, buckets)
	}
	vals := returns.Values()
	if len(vals) == 0 {
		return nil, fmt.Errorf("%w: no returns to distribute", ErrInsufficientData)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		pad := math.Abs(lo) * 0.01
		if pad == 0 {
			pad = 0.01
		}
		lo, hi = lo-pad, hi+pad
	}

	width := (hi - lo) / float64(buckets)
	h := &model.Histogram{
		Edges:  make([]float64, buckets+1),
		Counts: make([]int, buckets),
	}
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[buckets] = hi

	for _, v := range vals {
		idx := int((v - lo) / width)
		if idx >= buckets {
			idx = buckets - 1
		}
		if idx < 0 {
			idx = 0
		}
		h.Counts[idx]++
	}
	return h, nil
}
