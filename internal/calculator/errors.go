package calculator

import "errors"

var (
	// ErrInvalidParameter marks caller misuse such as a window below 2.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInsufficientData marks an input too short for the requested derivation.
	ErrInsufficientData = errors.New("insufficient data")
)

// TradingDaysPerYear is the annualization factor.
const TradingDaysPerYear = 252
