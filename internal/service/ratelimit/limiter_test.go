package ratelimit

import "testing"

func TestAllowConsumesTokens(t *testing.T) {
	l := New()
	if !l.Allow("k", 2, 0) {
		t.Fatal("first call should pass")
	}
	if !l.Allow("k", 2, 0) {
		t.Fatal("second call should pass")
	}
	if l.Allow("k", 2, 0) {
		t.Fatal("bucket exhausted, third call should fail")
	}
}

func TestAllowIsPerKey(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatal("key a should pass")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatal("key b should have its own bucket")
	}
	if l.Allow("a", 1, 0) {
		t.Fatal("key a exhausted")
	}
}
