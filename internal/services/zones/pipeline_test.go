package zones

import (
	"encoding/json"
	"reflect"
	"strconv"
	"testing"
	"time"

	"CryptoLevels/internal/domain/models"
	"CryptoLevels/internal/domain/repository"
)

func jnf(v float64) *json.Number {
	return jn(strconv.FormatFloat(v, 'f', -1, 64))
}

func rawBar(ts int64, o, h, l, c, v float64) models.RawCandle {
	return models.RawCandle{
		Time:   &ts,
		Open:   jnf(o),
		High:   jnf(h),
		Low:    jnf(l),
		Close:  jnf(c),
		Volume: jnf(v),
	}
}

// syntheticDaily builds 700 daily bars (100 weeks) with one injected weekly
// pattern: four green weeks rising ~10.4% cumulatively, preceded by a red
// week whose body is 2% of its open, dated Monday 2021-06-07.
func syntheticDaily(t *testing.T) []models.RawCandle {
	t.Helper()

	redMonday := time.Date(2021, 6, 7, 0, 0, 0, 0, time.UTC).Unix()
	w0 := redMonday - 94*weekSec

	type wk struct{ open, close float64 }
	week := func(w int) wk {
		switch w {
		case 94: // small red reversal
			return wk{100, 98}
		case 95:
			return wk{98, 100.5}
		case 96:
			return wk{100.5, 103}
		case 97:
			return wk{103, 105.5}
		case 98:
			return wk{105.5, 108.2}
		case 99: // current open week
			return wk{108, 107}
		}
		// alternating filler, wide bodies so the reversal stays "small"
		if w%2 == 0 {
			return wk{104, 96}
		}
		return wk{96, 104}
	}

	var raw []models.RawCandle
	for w := 0; w < 100; w++ {
		spec := week(w)
		step := (spec.close - spec.open) / 7
		for d := 0; d < 7; d++ {
			o := spec.open + float64(d)*step
			c := spec.open + float64(d+1)*step
			hi, lo := o, c
			if c > o {
				hi, lo = c, o
			}
			ts := w0 + int64(w)*weekSec + int64(d)*86400
			raw = append(raw, rawBar(ts, o, hi, lo, c, 1))
		}
	}
	return raw
}

func TestPipelineEndToEndWeekly(t *testing.T) {
	raw := syntheticDaily(t)

	daily := Normalize(raw, 0)
	if len(daily) != 700 {
		t.Fatalf("expected 700 daily bars, got %d", len(daily))
	}

	weekly := ResampleWeekly(daily)
	if len(weekly) != 100 {
		t.Fatalf("expected 100 weekly bars, got %d", len(weekly))
	}

	p, err := PolicyFor(repository.TFWeekly)
	if err != nil {
		t.Fatalf("weekly policy: %v", err)
	}
	zones := Dedupe(Scan(weekly, p))
	if len(zones) != 1 {
		t.Fatalf("expected exactly 1 zone, got %d: %+v", len(zones), zones)
	}

	z := zones[0]
	if z.RallyLength != 4 {
		t.Fatalf("rally length = %d, want 4", z.RallyLength)
	}
	if z.TotalMovePct < 10 {
		t.Fatalf("total move = %v, want >= 10", z.TotalMovePct)
	}
	wantRed := time.Date(2021, 6, 7, 0, 0, 0, 0, time.UTC).Unix()
	if z.SmallRedTime != wantRed {
		t.Fatalf("small red time = %d, want %d", z.SmallRedTime, wantRed)
	}
	if z.Top != 100 || z.Bottom != 98 {
		t.Fatalf("top/bottom = %v/%v, want 100/98", z.Top, z.Bottom)
	}
}

func TestPipelineIsBitIdenticalAcrossRuns(t *testing.T) {
	raw := syntheticDaily(t)
	p, err := PolicyFor(repository.TFWeekly)
	if err != nil {
		t.Fatalf("weekly policy: %v", err)
	}

	run := func() []models.Zone {
		return Dedupe(Scan(ResampleWeekly(Normalize(raw, 0)), p))
	}
	if a, b := run(), run(); !reflect.DeepEqual(a, b) {
		t.Fatalf("pipeline output differs across runs:\n%+v\n%+v", a, b)
	}
}
