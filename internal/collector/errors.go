package collector

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels matched by ProviderError.Is.
var (
	ErrNotFound    = errors.New("ticker not found")
	ErrRateLimited = errors.New("rate limited")
	ErrNetwork     = errors.New("network error")
)

// ErrorKind classifies provider failures.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindNotFound
	KindRateLimited
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindRateLimited:
		return ErrRateLimited
	default:
		return ErrNetwork
	}
}

// ProviderError is returned by every Provider on failure.
type ProviderError struct {
	Kind   ErrorKind
	Source string
	Ticker string
	Err    error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s: %v", e.Source, e.Ticker, e.Kind.sentinel())
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) match on kind.
func (e *ProviderError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newProviderError(source, ticker string, kind ErrorKind, err error) *ProviderError {
	return &ProviderError{Kind: kind, Source: source, Ticker: ticker, Err: err}
}

// kindForStatus maps an HTTP status to an error kind.
func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindNetwork
	}
}
