package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTicker is returned for empty or malformed ticker symbols.
	ErrInvalidTicker = errors.New("invalid ticker")
	// ErrInvalidKey is returned for an empty preference key.
	ErrInvalidKey = errors.New("invalid preference key")
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")
)

// StoreError wraps a failure of the underlying storage. A mutation that
// returns a StoreError has been rolled back.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

const maxTickerLen = 15

// NormalizeTicker trims and upper-cases a ticker and rejects symbols Yahoo
// could never resolve.
func NormalizeTicker(raw string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if t == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidTicker)
	}
	if len(t) > maxTickerLen {
		return "", fmt.Errorf("%w: %q longer than %d characters", ErrInvalidTicker, t, maxTickerLen)
	}
	for _, r := range t {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '-', r == '^', r == '=':
		default:
			return "", fmt.Errorf("%w: %q contains %q", ErrInvalidTicker, t, r)
		}
	}
	return t, nil
}
