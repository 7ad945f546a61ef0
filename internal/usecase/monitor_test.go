package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"CryptoLevels/internal/domain/models"
)

type countingWatchStore struct {
	fakeWatchStore
	mu        sync.Mutex
	triggered int
}

func (c *countingWatchStore) MarkTriggered(ctx context.Context, symbol string, levelIndex int, markPrice float64) error {
	c.mu.Lock()
	c.triggered++
	c.mu.Unlock()
	return nil
}

type countingPublisher struct{ published int64 }

func (p *countingPublisher) Publish(ctx context.Context, ev *models.AlertEvent) error {
	atomic.AddInt64(&p.published, 1)
	return nil
}
func (p *countingPublisher) Close() error { return nil }

type monMetrics struct{}

func (monMetrics) RecordZonesComputed(symbol, timeframe string, count int) {}
func (monMetrics) RecordError(kind string)                                 {}
func (monMetrics) RecordLastPrice(symbol string, price float64)            {}
func (monMetrics) RecordLatency(op string, seconds float64)                {}

func TestCheckFiresLevelOnceUnderConcurrency(t *testing.T) {
	store := &countingWatchStore{}
	pub := &countingPublisher{}
	m := NewAlertMonitor(nil, store, pub, monMetrics{}, nil)
	m.levels["BTCUSD"] = []models.TriggerLevel{
		{LevelIndex: 0, TriggerPrice: 105, Bottom: 100, Timeframe: "1w"},
	}

	tick := &models.MarkTick{Symbol: "BTCUSD", Price: 102, Timestamp: 1700000000}
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.check(context.Background(), tick)
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&pub.published); got != 1 {
		t.Fatalf("published %d alerts, want 1", got)
	}
	store.mu.Lock()
	n := store.triggered
	store.mu.Unlock()
	if n != 1 {
		t.Fatalf("MarkTriggered called %d times, want 1", n)
	}
}

func TestCheckSkipsDisabledTriggeredAndOutOfBand(t *testing.T) {
	store := &countingWatchStore{}
	pub := &countingPublisher{}
	m := NewAlertMonitor(nil, store, pub, monMetrics{}, nil)
	m.levels["BTCUSD"] = []models.TriggerLevel{
		{LevelIndex: 0, TriggerPrice: 105, Bottom: 100, AlertDisabled: true},
		{LevelIndex: 1, TriggerPrice: 105, Bottom: 100, Triggered: true},
		{LevelIndex: 2, TriggerPrice: 95, Bottom: 90},
	}

	tick := &models.MarkTick{Symbol: "BTCUSD", Price: 102, Timestamp: 1700000000}
	if err := m.check(context.Background(), tick); err != nil {
		t.Fatalf("check: %v", err)
	}
	if got := atomic.LoadInt64(&pub.published); got != 0 {
		t.Fatalf("published %d alerts, want 0", got)
	}
}
