package zones

import (
	"fmt"

	"CryptoLevels/internal/domain/repository"
)

// Policy carries the per-timeframe scan parameters. The table is a fixed,
// process-wide constant; it is never mutated at runtime.
type Policy struct {
	// LookbackWeeks is the fetch depth for the native resolution.
	LookbackWeeks int
	// MinCandles is the minimum series length for a scan to run at all.
	MinCandles int
	// RallyMin is the minimum consecutive-green run length.
	RallyMin int
	// MoveMin is the minimum cumulative rally move in percent.
	MoveMin float64
	// ScanDepth caps how many closed bars back the scan walks.
	ScanDepth int
	// Resolution is the exchange resolution used to fetch history.
	Resolution string
}

var policies = map[repository.Timeframe]Policy{
	repository.TFMonthly: {LookbackWeeks: 800, MinCandles: 40, RallyMin: 2, MoveMin: 15, ScanDepth: 400, Resolution: "1d"},
	repository.TFWeekly:  {LookbackWeeks: 600, MinCandles: 60, RallyMin: 3, MoveMin: 10, ScanDepth: 400, Resolution: "1d"},
	repository.TFDaily:   {LookbackWeeks: 600, MinCandles: 100, RallyMin: 3, MoveMin: 8, ScanDepth: 400, Resolution: "1d"},
	repository.TF4h:      {LookbackWeeks: 200, MinCandles: 150, RallyMin: 4, MoveMin: 6, ScanDepth: 400, Resolution: "4h"},
	repository.TF1h:      {LookbackWeeks: 100, MinCandles: 200, RallyMin: 5, MoveMin: 5, ScanDepth: 400, Resolution: "1h"},
}

// PolicyFor returns the scan policy for a timeframe.
func PolicyFor(tf repository.Timeframe) (Policy, error) {
	p, ok := policies[tf]
	if !ok {
		return Policy{}, fmt.Errorf("no policy for timeframe %q", tf)
	}
	return p, nil
}
