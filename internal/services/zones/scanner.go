package zones

import (
	"CryptoLevels/internal/domain/models"
)

// epochCutoff is 2020-01-01T00:00:00Z. Reversal candles older than this never
// qualify; the price regimes before it are not worth alerting on.
const epochCutoff int64 = 1577836800

// Scan slides an evaluation window across a descending (most-recent-first)
// bar series and returns every zone candidate, most recent window first.
// A series shorter than the policy minimum yields no zones; thin history is a
// normal outcome, not an error.
func Scan(s []models.Bar, p Policy) []models.Zone {
	if len(s) < p.MinCandles {
		return nil
	}

	// Offset 0 is the still-open current period and is never scanned. The
	// upper bound keeps at least 35 bars of look-ahead context in every view.
	maxScan := len(s) - 35
	endOffset := 1 + p.ScanDepth
	if endOffset > maxScan {
		endOffset = maxScan
	}

	var out []models.Zone
	for baseOffset := 1; baseOffset < endOffset; baseOffset++ {
		if z, ok := scanAt(s, baseOffset, p.RallyMin, p.MoveMin); ok {
			out = append(out, z)
		}
	}
	return out
}

// scanAt evaluates one window: s[baseOffset] is the closed "current" bar.
func scanAt(s []models.Bar, baseOffset, rallyMin int, moveMin float64) (models.Zone, bool) {
	if baseOffset+30 >= len(s) {
		return models.Zone{}, false
	}
	view := s[baseOffset:]

	// 10-bar simple average of candle bodies.
	n := min(10, len(view))
	var sum float64
	for i := 0; i < n; i++ {
		sum += view[i].Body()
	}
	var avgBody float64
	if n > 0 {
		avgBody = sum / float64(n)
	}

	// Rally: strictly consecutive greens from the window head, first
	// non-green ends the run.
	rallyLen := 0
	for i := 0; i < min(11, len(view)); i++ {
		if !view[i].IsGreen() {
			break
		}
		rallyLen++
	}
	if rallyLen < rallyMin {
		return models.Zone{}, false
	}

	rallyStartLow := view[rallyLen-1].Low
	totalMove := (view[0].Close - rallyStartLow) / rallyStartLow * 100.0
	if totalMove < moveMin {
		return models.Zone{}, false
	}

	// First small red candle within three bars behind the rally wins.
	for i := rallyLen; i < min(rallyLen+3, len(view)); i++ {
		c := view[i]
		if !c.IsRed() {
			continue
		}
		if c.Body() >= 0.3*c.Open {
			continue
		}
		// Vacuously true on a flat market where every body is zero.
		if avgBody > 0 && c.Body() >= 0.5*avgBody {
			continue
		}
		if !hasGreenNeighbor(view, i) {
			continue
		}
		if c.Time < epochCutoff {
			continue
		}

		// Red implies open > close, but order defensively.
		top, bottom := c.Open, c.Close
		if bottom > top {
			top, bottom = bottom, top
		}
		return models.Zone{
			CurrentWeekTime: view[0].Time,
			SmallRedTime:    c.Time,
			Top:             top,
			Bottom:          bottom,
			RallyLength:     rallyLen,
			TotalMovePct:    totalMove,
			SmallRedOffset:  i,
		}, true
	}

	return models.Zone{}, false
}

// hasGreenNeighbor reports whether an immediate neighbor of view[i] is green.
// Access is bounds-checked; a missing neighbor simply does not count.
func hasGreenNeighbor(view []models.Bar, i int) bool {
	if i-1 >= 0 && view[i-1].IsGreen() {
		return true
	}
	if i+1 < len(view) && view[i+1].IsGreen() {
		return true
	}
	return false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
