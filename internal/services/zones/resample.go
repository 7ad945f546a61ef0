package zones

import (
	"sort"
	"time"

	"CryptoLevels/internal/domain/models"
	"CryptoLevels/internal/domain/repository"
)

// WeekStart returns the most recent Monday 00:00 UTC at or before ts.
func WeekStart(ts int64) int64 {
	t := time.Unix(ts, 0).UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	// Monday=0 .. Sunday=6
	back := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -back).Unix()
}

// MonthStart returns the first day of ts's UTC calendar month at 00:00.
func MonthStart(ts int64) int64 {
	t := time.Unix(ts, 0).UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Unix()
}

// ResampleWeekly aggregates an ascending daily series into Monday-anchored UTC
// weekly bars, most recent first. Bars must arrive in ascending chronological
// order so open and close land on the true first and last bar of each bucket.
func ResampleWeekly(daily []models.Bar) []models.Bar {
	return resample(daily, WeekStart)
}

// ResampleMonthly aggregates an ascending daily series into calendar-month UTC
// bars, most recent first.
func ResampleMonthly(daily []models.Bar) []models.Bar {
	return resample(daily, MonthStart)
}

func resample(daily []models.Bar, bucketStart func(int64) int64) []models.Bar {
	buckets := make(map[int64]*models.Bar, len(daily)/5+1)
	order := make([]int64, 0, len(daily)/5+1)
	for _, d := range daily {
		bs := bucketStart(d.Time)
		b, ok := buckets[bs]
		if !ok {
			nb := d
			nb.Time = bs
			buckets[bs] = &nb
			order = append(order, bs)
			continue
		}
		if d.High > b.High {
			b.High = d.High
		}
		if d.Low < b.Low {
			b.Low = d.Low
		}
		b.Close = d.Close
		b.Volume += d.Volume
	}

	out := make([]models.Bar, 0, len(order))
	for _, bs := range order {
		out = append(out, *buckets[bs])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time > out[j].Time })
	return out
}

// SortDescending returns a copy of bars ordered most recent first. Used for
// native-resolution timeframes that need no bucketing.
func SortDescending(bars []models.Bar) []models.Bar {
	out := make([]models.Bar, len(bars))
	copy(out, bars)
	sort.Slice(out, func(i, j int) bool { return out[i].Time > out[j].Time })
	return out
}

// BuildSeries turns an ascending native series into the descending scan series
// for the requested timeframe.
func BuildSeries(asc []models.Bar, tf repository.Timeframe) []models.Bar {
	switch tf {
	case repository.TFMonthly:
		return ResampleMonthly(asc)
	case repository.TFWeekly:
		return ResampleWeekly(asc)
	default:
		return SortDescending(asc)
	}
}
