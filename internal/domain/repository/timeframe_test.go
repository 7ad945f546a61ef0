package repository

import "testing"

func TestParseTimeframeDefault(t *testing.T) {
	tf, err := ParseTimeframe("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tf != TFWeekly {
		t.Fatalf("expected default %q, got %q", TFWeekly, tf)
	}
}

func TestParseTimeframeKnown(t *testing.T) {
	for _, s := range []string{"1M", "1w", "1d", "4h", "1h"} {
		tf, err := ParseTimeframe(s)
		if err != nil {
			t.Fatalf("ParseTimeframe(%q): %v", s, err)
		}
		if string(tf) != s {
			t.Fatalf("ParseTimeframe(%q) = %q", s, tf)
		}
	}
}

func TestParseTimeframeRejectsUnknown(t *testing.T) {
	for _, s := range []string{"1m", "2w", "daily", "15m"} {
		if _, err := ParseTimeframe(s); err == nil {
			t.Fatalf("ParseTimeframe(%q) should fail", s)
		}
	}
}
