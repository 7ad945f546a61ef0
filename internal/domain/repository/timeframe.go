package repository

import "fmt"

// Timeframe is the analysis resolution for zone detection.
type Timeframe string

const (
	TFMonthly Timeframe = "1M"
	TFWeekly  Timeframe = "1w"
	TFDaily   Timeframe = "1d"
	TF4h      Timeframe = "4h"
	TF1h      Timeframe = "1h"
)

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TFMonthly, TFWeekly, TFDaily, TF4h, TF1h:
		return true
	default:
		return false
	}
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() Timeframe { return TFWeekly }

// ParseTimeframe converts a raw string into a Timeframe. An unrecognized
// value is rejected here, before any fetch or compute work happens.
func ParseTimeframe(s string) (Timeframe, error) {
	if s == "" {
		return DefaultTimeframe(), nil
	}
	tf := Timeframe(s)
	if !IsValidTimeframe(tf) {
		return "", fmt.Errorf("unsupported timeframe %q (want one of 1M, 1w, 1d, 4h, 1h)", s)
	}
	return tf, nil
}
