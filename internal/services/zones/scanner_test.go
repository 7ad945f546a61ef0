package zones

import (
	"reflect"
	"testing"
	"time"
)

import "CryptoLevels/internal/domain/models"

const weekSec = int64(7 * 86400)

// testSeries builds a descending weekly series with one rally+small-red
// pattern at base offset 1. Layout (index 0 most recent):
//
//	s[0]    current open week
//	s[1..3] three green rally bars
//	s[4]    small red reversal
//	s[5..]  alternating filler, no green runs
func testSeries(n int) []models.Bar {
	t0 := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC).Unix() // a Monday
	s := make([]models.Bar, n)
	at := func(i int) int64 { return t0 - int64(i)*weekSec }

	s[0] = models.Bar{Time: at(0), Open: 115, High: 117, Low: 114, Close: 116}
	s[1] = models.Bar{Time: at(1), Open: 109, High: 116, Low: 108, Close: 115}
	s[2] = models.Bar{Time: at(2), Open: 104, High: 110, Low: 103, Close: 109}
	s[3] = models.Bar{Time: at(3), Open: 100, High: 105, Low: 99, Close: 104}
	s[4] = models.Bar{Time: at(4), Open: 100.5, High: 101, Low: 99.8, Close: 100}
	for i := 5; i < n; i++ {
		if i%2 == 0 {
			s[i] = models.Bar{Time: at(i), Open: 99, High: 101.5, Low: 98.5, Close: 101}
		} else {
			s[i] = models.Bar{Time: at(i), Open: 101, High: 101.5, Low: 98.5, Close: 99}
		}
	}
	return s
}

func testPolicy() Policy {
	return Policy{MinCandles: 40, RallyMin: 3, MoveMin: 10, ScanDepth: 400}
}

func TestScanEmitsZoneForRallyWithSmallRed(t *testing.T) {
	s := testSeries(60)
	zones := Scan(s, testPolicy())
	if len(zones) != 1 {
		t.Fatalf("expected exactly 1 zone, got %d", len(zones))
	}

	z := zones[0]
	if z.RallyLength != 3 {
		t.Fatalf("rally length = %d, want 3", z.RallyLength)
	}
	if z.CurrentWeekTime != s[1].Time {
		t.Fatalf("current week time = %d, want %d", z.CurrentWeekTime, s[1].Time)
	}
	if z.SmallRedTime != s[4].Time {
		t.Fatalf("small red time = %d, want %d", z.SmallRedTime, s[4].Time)
	}
	if z.SmallRedOffset != 3 {
		t.Fatalf("small red offset = %d, want 3", z.SmallRedOffset)
	}
	if z.Top != 100.5 || z.Bottom != 100 {
		t.Fatalf("top/bottom = %v/%v, want 100.5/100", z.Top, z.Bottom)
	}
	if z.Top < z.Bottom {
		t.Fatalf("top %v < bottom %v", z.Top, z.Bottom)
	}
	// (115 - 99) / 99 * 100
	if z.TotalMovePct < 16.1 || z.TotalMovePct > 16.2 {
		t.Fatalf("total move = %v, want ~16.16", z.TotalMovePct)
	}
}

func TestScanRejectsRallyBelowMinimum(t *testing.T) {
	s := testSeries(60)
	// Break the run at its oldest bar: a run of exactly rallyMin-1 remains.
	s[3].Open, s[3].Close = 104, 100
	if zones := Scan(s, testPolicy()); len(zones) != 0 {
		t.Fatalf("expected no zones for rally of length rally_min-1, got %d", len(zones))
	}
}

func TestRallyStopsAtFirstNonGreen(t *testing.T) {
	s := testSeries(60)
	// Greens resume after the break; the run must not count past it.
	s[3].Open, s[3].Close = 104, 100
	s[4].Open, s[4].Close = 96, 100
	s[5].Open, s[5].Close = 92, 96
	if zones := Scan(s, testPolicy()); len(zones) != 0 {
		t.Fatalf("run counted past a non-green candle: %d zones", len(zones))
	}
}

func TestScanRejectsSmallMove(t *testing.T) {
	s := testSeries(60)
	// Keep three greens but shrink the cumulative move below 10%.
	s[1] = models.Bar{Time: s[1].Time, Open: 102, High: 104, Low: 101, Close: 103}
	s[2] = models.Bar{Time: s[2].Time, Open: 101, High: 103, Low: 100, Close: 102}
	s[3] = models.Bar{Time: s[3].Time, Open: 100, High: 102, Low: 99, Close: 101}
	if zones := Scan(s, testPolicy()); len(zones) != 0 {
		t.Fatalf("expected no zones below move threshold, got %d", len(zones))
	}
}

func TestScanSkipsReversalBeforeEpochCutoff(t *testing.T) {
	s := testSeries(60)
	old := time.Date(2019, 6, 3, 0, 0, 0, 0, time.UTC).Unix()
	for i := range s {
		s[i].Time = old - int64(i)*weekSec
	}
	if zones := Scan(s, testPolicy()); len(zones) != 0 {
		t.Fatalf("expected no zones before 2020 cutoff, got %d", len(zones))
	}
}

func TestScanInsufficientHistory(t *testing.T) {
	p := testPolicy()
	s := testSeries(p.MinCandles - 1)
	if zones := Scan(s, p); len(zones) != 0 {
		t.Fatalf("expected empty result below min candle count, got %d", len(zones))
	}
	// Exactly the minimum is allowed to scan.
	s = testSeries(p.MinCandles)
	if zones := Scan(s, p); len(zones) != 1 {
		t.Fatalf("expected the pattern to surface at exactly min candles, got %d", len(zones))
	}
}

func TestScanIsDeterministic(t *testing.T) {
	s := testSeries(60)
	a := Scan(s, testPolicy())
	b := Scan(s, testPolicy())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("scan is not idempotent:\n%+v\n%+v", a, b)
	}
}
