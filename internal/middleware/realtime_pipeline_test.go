package middleware

import (
	"context"
	"testing"
	"time"

	"CryptoLevels/internal/domain/models"
)

type countingProc struct {
	n int
}

func (p *countingProc) Process(ctx context.Context, t *models.MarkTick) error {
	p.n++
	return nil
}

type nopMetrics struct{}

func (nopMetrics) RecordZonesComputed(string, string, int) {}
func (nopMetrics) RecordError(string)                      {}
func (nopMetrics) RecordLastPrice(string, float64)         {}
func (nopMetrics) RecordLatency(string, float64)           {}

func TestPipelineRejectsInvalidTicks(t *testing.T) {
	proc := &countingProc{}
	p := NewRealtimePipeline(proc, nopMetrics{})

	cases := []*models.MarkTick{
		nil,
		{Symbol: "", Price: 1, Timestamp: 1},
		{Symbol: "BTCUSD", Price: 0, Timestamp: 1},
		{Symbol: "BTCUSD", Price: 1, Timestamp: 0},
	}
	for i, tick := range cases {
		if err := p.Process(context.Background(), tick); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if proc.n != 0 {
		t.Fatalf("invalid ticks reached downstream: %d", proc.n)
	}
}

func TestPipelineForwardsValidTick(t *testing.T) {
	proc := &countingProc{}
	p := NewRealtimePipeline(proc, nopMetrics{})

	tick := &models.MarkTick{Symbol: "BTCUSD", Price: 64000, Timestamp: time.Now().Unix()}
	if err := p.Process(context.Background(), tick); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if proc.n != 1 {
		t.Fatalf("downstream calls = %d", proc.n)
	}
}

func TestPipelineThrottlesPerSymbol(t *testing.T) {
	proc := &countingProc{}
	p := NewRealtimePipeline(proc, nopMetrics{}, WithMaxRPS(1))

	tick := &models.MarkTick{Symbol: "BTCUSD", Price: 64000, Timestamp: time.Now().Unix()}
	// first tick passes, immediate second is dropped silently
	if err := p.Process(context.Background(), tick); err != nil {
		t.Fatalf("first Process: %v", err)
	}
	if err := p.Process(context.Background(), tick); err != nil {
		t.Fatalf("throttled Process should not error: %v", err)
	}
	if proc.n != 1 {
		t.Fatalf("downstream calls = %d, want 1", proc.n)
	}

	// a different symbol is not affected
	other := &models.MarkTick{Symbol: "ETHUSD", Price: 2300, Timestamp: time.Now().Unix()}
	if err := p.Process(context.Background(), other); err != nil {
		t.Fatalf("other symbol Process: %v", err)
	}
	if proc.n != 2 {
		t.Fatalf("downstream calls = %d, want 2", proc.n)
	}
}
