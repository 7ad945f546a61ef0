package zones

import (
	"testing"

	"CryptoLevels/internal/domain/models"
)

func TestKeyFormat(t *testing.T) {
	if got := Key(1.5, 1.0); got != "1.50000000|1.00000000" {
		t.Fatalf("key = %q", got)
	}
	// Differences within 8 decimals stay distinct.
	if Key(1.50000001, 1.0) == Key(1.5, 1.0) {
		t.Fatalf("expected distinct keys for nearly-equal tops")
	}
	// Beyond 8 decimals the formatted keys collide.
	if Key(1.500000001, 1.0) != Key(1.5, 1.0) {
		t.Fatalf("expected 9th-decimal difference to collide")
	}
}

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	in := []models.Zone{
		{Top: 100.5, Bottom: 100, SmallRedTime: 300}, // most recent window
		{Top: 101, Bottom: 100.2, SmallRedTime: 250},
		{Top: 100.5, Bottom: 100, SmallRedTime: 100}, // older duplicate
	}
	out := Dedupe(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(out))
	}
	if out[0].SmallRedTime != 300 {
		t.Fatalf("duplicate kept wrong occurrence: %d", out[0].SmallRedTime)
	}
	if out[1].SmallRedTime != 250 {
		t.Fatalf("unexpected second zone: %+v", out[1])
	}
}

func TestDedupeEmpty(t *testing.T) {
	if out := Dedupe(nil); len(out) != 0 {
		t.Fatalf("expected empty output, got %d", len(out))
	}
}
