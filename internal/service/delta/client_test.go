package delta

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetCandlesParsesStringNumbers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/history/candles" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("resolution"); got != "1d" {
			t.Fatalf("resolution = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"result":[
			{"time":1700000000,"open":"100.5","high":101,"low":"99.25","close":100,"volume":"12.5"},
			{"time":1700086400,"open":100,"high":102,"low":100,"close":101.5}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, 0)
	raw, err := c.GetCandles(context.Background(), "BTCUSD", "1d", 1700000000, 1700090000)
	if err != nil {
		t.Fatalf("GetCandles: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(raw))
	}
	if raw[0].Time == nil || *raw[0].Time != 1700000000 {
		t.Fatalf("bad time: %+v", raw[0].Time)
	}
	if raw[0].Open == nil {
		t.Fatal("open missing")
	}
	if v, err := raw[0].Open.Float64(); err != nil || v != 100.5 {
		t.Fatalf("open = %v, %v", v, err)
	}
	if raw[1].Volume != nil {
		t.Fatal("absent volume should stay nil")
	}
}

func TestGetCandlesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"error":{"code":"invalid_symbol"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, 0)
	if _, err := c.GetCandles(context.Background(), "NOPE", "1d", 0, 1); err == nil {
		t.Fatal("expected error for success=false body")
	}
}

func TestGetMarkPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/tickers" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"result":[
			{"symbol":"ETHUSD","mark_price":"2301.75"},
			{"symbol":"BTCUSD","mark_price":"64000.5"}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, 0)
	p, err := c.GetMarkPrice(context.Background(), "BTCUSD")
	if err != nil {
		t.Fatalf("GetMarkPrice: %v", err)
	}
	if p != 64000.5 {
		t.Fatalf("mark price = %v", p)
	}

	_, err = c.GetMarkPrice(context.Background(), "DOGEUSD")
	var nf *ErrSymbolNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}
	if nf.Symbol != "DOGEUSD" {
		t.Fatalf("not-found symbol = %q", nf.Symbol)
	}
}
