package zones

import (
	"testing"
	"time"

	"CryptoLevels/internal/domain/models"
)

func TestWeekStartIsMonday(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2021, 6, 7, 0, 0, 0, 0, time.UTC), time.Date(2021, 6, 7, 0, 0, 0, 0, time.UTC)},   // Monday maps to itself
		{time.Date(2021, 6, 9, 15, 4, 5, 0, time.UTC), time.Date(2021, 6, 7, 0, 0, 0, 0, time.UTC)},  // Wednesday
		{time.Date(2021, 6, 13, 23, 59, 59, 0, time.UTC), time.Date(2021, 6, 7, 0, 0, 0, 0, time.UTC)}, // Sunday
	}
	for _, c := range cases {
		got := WeekStart(c.in.Unix())
		if got != c.want.Unix() {
			t.Fatalf("WeekStart(%v) = %v, want %v", c.in, time.Unix(got, 0).UTC(), c.want)
		}
	}
}

func TestMonthStart(t *testing.T) {
	in := time.Date(2021, 6, 23, 18, 0, 0, 0, time.UTC)
	want := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC).Unix()
	if got := MonthStart(in.Unix()); got != want {
		t.Fatalf("MonthStart = %d, want %d", got, want)
	}
}

func TestResampleWeeklyAggregates(t *testing.T) {
	mon := time.Date(2021, 6, 7, 0, 0, 0, 0, time.UTC).Unix()
	day := int64(86400)
	daily := []models.Bar{
		{Time: mon, Open: 100, High: 105, Low: 99, Close: 104, Volume: 10},
		{Time: mon + day, Open: 104, High: 110, Low: 103, Close: 108, Volume: 20},
		{Time: mon + 2*day, Open: 108, High: 109, Low: 96, Close: 97, Volume: 5},
		// next week
		{Time: mon + 7*day, Open: 97, High: 98, Low: 90, Close: 91, Volume: 1},
	}

	weekly := ResampleWeekly(daily)
	if len(weekly) != 2 {
		t.Fatalf("expected 2 weekly buckets, got %d", len(weekly))
	}
	// descending: most recent week first
	if weekly[0].Time != mon+7*day || weekly[1].Time != mon {
		t.Fatalf("unexpected bucket order: %d, %d", weekly[0].Time, weekly[1].Time)
	}

	w := weekly[1]
	if w.Open != 100 {
		t.Fatalf("open = first bar's open, got %v", w.Open)
	}
	if w.Close != 97 {
		t.Fatalf("close = last bar's close, got %v", w.Close)
	}
	if w.High != 110 || w.Low != 96 {
		t.Fatalf("high/low = %v/%v, want 110/96", w.High, w.Low)
	}
	if w.Volume != 35 {
		t.Fatalf("volume = %v, want 35", w.Volume)
	}
}

func TestResampleMonthlySingleBucket(t *testing.T) {
	first := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC).Unix()
	day := int64(86400)
	var daily []models.Bar
	for d := 0; d < 30; d++ {
		daily = append(daily, models.Bar{
			Time:   first + int64(d)*day,
			Open:   100 + float64(d),
			High:   101 + float64(d),
			Low:    99 + float64(d),
			Close:  100.5 + float64(d),
			Volume: 1,
		})
	}

	monthly := ResampleMonthly(daily)
	if len(monthly) != 1 {
		t.Fatalf("expected 1 monthly bucket, got %d", len(monthly))
	}
	m := monthly[0]
	if m.Time != first {
		t.Fatalf("bucket start = %d, want %d", m.Time, first)
	}
	if m.Open != 100 || m.Close != 129.5 {
		t.Fatalf("open/close = %v/%v, want 100/129.5", m.Open, m.Close)
	}
	if m.High != 130 || m.Low != 99 {
		t.Fatalf("high/low = %v/%v, want 130/99", m.High, m.Low)
	}
	if m.Volume != 30 {
		t.Fatalf("volume = %v, want 30", m.Volume)
	}
}

func TestSortDescendingDoesNotMutateInput(t *testing.T) {
	in := []models.Bar{{Time: 1}, {Time: 3}, {Time: 2}}
	out := SortDescending(in)
	if out[0].Time != 3 || out[1].Time != 2 || out[2].Time != 1 {
		t.Fatalf("unexpected order: %+v", out)
	}
	if in[0].Time != 1 || in[1].Time != 3 {
		t.Fatalf("input mutated: %+v", in)
	}
}
