package zones

import (
	"encoding/json"
	"testing"

	"CryptoLevels/internal/domain/models"
)

func jn(s string) *json.Number {
	n := json.Number(s)
	return &n
}

func i64(v int64) *int64 { return &v }

func TestNormalizeDropsMalformedRecords(t *testing.T) {
	raw := []models.RawCandle{
		{Open: jn("1"), High: jn("2"), Low: jn("0.5"), Close: jn("1.5")}, // no time
		{Time: i64(1700000000), Open: jn("1"), High: jn("2"), Close: jn("1.5")}, // missing low
		{Time: i64(1700000100), Open: jn("1"), High: jn("2"), Low: jn("0.5"), Close: jn("1.5"), Volume: jn("3")},
	}
	bars := Normalize(raw, 0)
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
	if bars[0].Time != 1700000100 || bars[0].Volume != 3 {
		t.Fatalf("unexpected bar: %+v", bars[0])
	}
}

func TestNormalizeMillisecondTimestamps(t *testing.T) {
	raw := []models.RawCandle{
		{Time: i64(1700000000000), Open: jn("1"), High: jn("2"), Low: jn("0.5"), Close: jn("1.5")},
	}
	bars := Normalize(raw, 0)
	if len(bars) != 1 || bars[0].Time != 1700000000 {
		t.Fatalf("milliseconds not truncated to seconds: %+v", bars)
	}
}

func TestNormalizeCoercionDefaults(t *testing.T) {
	raw := []models.RawCandle{
		{Time: i64(1700000000), Open: jn("oops"), High: jn("2"), Low: jn("0.5"), Close: jn("1.5")},
	}
	bars := Normalize(raw, 0)
	if len(bars) != 1 {
		t.Fatalf("parse failure must default, not drop: %d bars", len(bars))
	}
	if bars[0].Open != 0 {
		t.Fatalf("open = %v, want default 0", bars[0].Open)
	}
	if bars[0].Volume != 0 {
		t.Fatalf("absent volume = %v, want 0", bars[0].Volume)
	}
}

func TestNormalizeSortsAscending(t *testing.T) {
	raw := []models.RawCandle{
		{Time: i64(300), Open: jn("1"), High: jn("1"), Low: jn("1"), Close: jn("1")},
		{Time: i64(100), Open: jn("1"), High: jn("1"), Low: jn("1"), Close: jn("1")},
		{Time: i64(200), Open: jn("1"), High: jn("1"), Low: jn("1"), Close: jn("1")},
	}
	bars := Normalize(raw, 0)
	if bars[0].Time != 100 || bars[1].Time != 200 || bars[2].Time != 300 {
		t.Fatalf("not ascending: %+v", bars)
	}
}
