package model

import "fmt"

// StatStatus tells whether a derived statistic could be computed.
type StatStatus int

// The zero Stat is NotComputable.
const (
	StatNotComputable StatStatus = iota
	StatOK
	StatInsufficientData
)

func (s StatStatus) String() string {
	switch s {
	case StatOK:
		return "ok"
	case StatNotComputable:
		return "not computable"
	case StatInsufficientData:
		return "insufficient data"
	default:
		return fmt.Sprintf("StatStatus(%d)", int(s))
	}
}

// Stat is a statistic that may be undefined for small or degenerate inputs.
// The value is only reachable through Value, so an undefined statistic is
// never mistaken for zero.
type Stat struct {
	status StatStatus
	value  float64
}

// Ok wraps a computed value.
func Ok(v float64) Stat { return Stat{status: StatOK, value: v} }

// NotComputable reports a statistic that is undefined for the given input.
func NotComputable() Stat { return Stat{status: StatNotComputable} }

// InsufficientData reports a statistic that needs more observations.
func InsufficientData() Stat { return Stat{status: StatInsufficientData} }

// Status returns the result tag.
func (s Stat) Status() StatStatus { return s.status }

// OK reports whether the statistic holds a value.
func (s Stat) OK() bool { return s.status == StatOK }

// Value returns the value and whether it is defined.
func (s Stat) Value() (float64, bool) {
	if s.status != StatOK {
		return 0, false
	}
	return s.value, true
}

func (s Stat) String() string {
	if v, ok := s.Value(); ok {
		return fmt.Sprintf("%g", v)
	}
	return s.status.String()
}
