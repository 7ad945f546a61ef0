package zones

import (
	"encoding/json"
	"sort"

	"CryptoLevels/internal/domain/models"
)

// msThreshold: timestamps above this are taken as milliseconds.
const msThreshold = int64(1e12)

// Normalize converts raw exchange records into a validated, ascending-time bar
// series. Records without a timestamp or with any OHLC field missing are
// dropped rather than repaired; upstream feeds are flaky and partial bars are
// worthless for pattern scanning. Numeric fields that fail to parse fall back
// to the given default (volume always defaults to 0).
func Normalize(raw []models.RawCandle, priceDefault float64) []models.Bar {
	out := make([]models.Bar, 0, len(raw))
	for _, c := range raw {
		if c.Time == nil {
			continue
		}
		t := *c.Time
		if t > msThreshold {
			t = t / 1000
		}
		if c.Open == nil || c.High == nil || c.Low == nil || c.Close == nil {
			continue
		}
		out = append(out, models.Bar{
			Time:   t,
			Open:   fnum(c.Open, priceDefault),
			High:   fnum(c.High, priceDefault),
			Low:    fnum(c.Low, priceDefault),
			Close:  fnum(c.Close, priceDefault),
			Volume: fnum(c.Volume, 0),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

func fnum(n *json.Number, def float64) float64 {
	if n == nil {
		return def
	}
	v, err := n.Float64()
	if err != nil {
		return def
	}
	return v
}
