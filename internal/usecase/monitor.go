package usecase

import (
	"context"
	"sync"
	"time"

	"CryptoLevels/internal/domain/models"
	drepo "CryptoLevels/internal/domain/repository"
	mid "CryptoLevels/internal/middleware"
	applogger "CryptoLevels/pkg/logger"
)

// AlertMonitor watches the live mark-price stream and fires alert events when
// price enters a trigger level's band [bottom, trigger_price].
type AlertMonitor struct {
	stream  drepo.MarkStream
	watch   drepo.WatchStore
	pub     drepo.Publisher
	metrics drepo.Metrics
	l       *applogger.Logger
	pipe    *mid.RealtimePipeline

	reloadEvery time.Duration

	mu      sync.RWMutex
	levels  map[string][]models.TriggerLevel
	symbols []string
	fired   map[levelRef]struct{}
}

// levelRef identifies one trigger level across reloads.
type levelRef struct {
	symbol string
	index  int
}

// NewAlertMonitor creates an AlertMonitor. The pipeline validates and
// throttles ticks before they reach the level check.
func NewAlertMonitor(stream drepo.MarkStream, watch drepo.WatchStore, pub drepo.Publisher, metrics drepo.Metrics, l *applogger.Logger, pipeOpts ...mid.PipelineOption) *AlertMonitor {
	m := &AlertMonitor{
		stream:      stream,
		watch:       watch,
		pub:         pub,
		metrics:     metrics,
		l:           l,
		reloadEvery: time.Minute,
		levels:      make(map[string][]models.TriggerLevel),
		fired:       make(map[levelRef]struct{}),
	}
	m.pipe = mid.NewRealtimePipeline(checker{m}, metrics, pipeOpts...)
	return m
}

// checker adapts the level check to the pipeline's Proc interface.
type checker struct{ m *AlertMonitor }

func (c checker) Process(ctx context.Context, t *models.MarkTick) error {
	return c.m.check(ctx, t)
}

// IsConnected returns true if the mark stream is connected.
func (m *AlertMonitor) IsConnected() bool {
	return m.stream.IsConnected()
}

func (m *AlertMonitor) Start(ctx context.Context) error {
	if err := m.reload(ctx); err != nil {
		return err
	}
	if err := m.stream.Connect(ctx); err != nil {
		return err
	}
	if err := m.stream.Subscribe(ctx, m.watchedSymbols()); err != nil {
		return err
	}
	m.pipe.Start(ctx)
	ticks, errs := m.stream.Read(ctx)
	go m.consume(ctx, ticks, errs)
	go m.reloadLoop(ctx)
	return nil
}

func (m *AlertMonitor) consume(ctx context.Context, ticks <-chan *models.MarkTick, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			if err != nil {
				m.metrics.RecordError("stream")
				if m.l != nil {
					m.l.Warn("mark stream error, reconnecting", applogger.Error(err))
				}
				if rerr := m.stream.Reconnect(ctx); rerr == nil {
					ticks, errs = m.stream.Read(ctx)
				}
			}
		case t := <-ticks:
			if t == nil {
				continue
			}
			_ = m.pipe.Process(ctx, t)
			m.metrics.RecordLastPrice(t.Symbol, t.Price)
		}
	}
}

// check fires at most one alert per level. The fired set claims a level
// before any I/O so concurrent checks cannot double-fire it; a claim is
// released only when MarkTriggered fails, so the tick can be retried.
func (m *AlertMonitor) check(ctx context.Context, t *models.MarkTick) error {
	m.mu.RLock()
	levels := make([]models.TriggerLevel, len(m.levels[t.Symbol]))
	copy(levels, m.levels[t.Symbol])
	m.mu.RUnlock()

	for _, lv := range levels {
		if lv.Triggered || lv.AlertDisabled {
			continue
		}
		if t.Price > lv.TriggerPrice || t.Price < lv.Bottom {
			continue
		}
		if !m.claim(t.Symbol, lv.LevelIndex) {
			continue
		}
		if err := m.watch.MarkTriggered(ctx, t.Symbol, lv.LevelIndex, t.Price); err != nil {
			m.release(t.Symbol, lv.LevelIndex)
			m.metrics.RecordError("mark_triggered")
			return err
		}

		ev := &models.AlertEvent{
			Symbol:       t.Symbol,
			Timeframe:    lv.Timeframe,
			LevelIndex:   lv.LevelIndex,
			TriggerPrice: lv.TriggerPrice,
			Bottom:       lv.Bottom,
			MarkPrice:    t.Price,
			FiredAt:      time.Unix(t.Timestamp, 0).UTC(),
		}
		if err := m.pub.Publish(ctx, ev); err != nil {
			m.metrics.RecordError("alert_publish")
			return err
		}
		if m.l != nil {
			m.l.Info("alert fired",
				applogger.String("symbol", t.Symbol),
				applogger.Int("level_index", lv.LevelIndex),
				applogger.Float64("mark_price", t.Price),
			)
		}
	}
	return nil
}

func (m *AlertMonitor) claim(symbol string, index int) bool {
	k := levelRef{symbol: symbol, index: index}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.fired[k]; ok {
		return false
	}
	m.fired[k] = struct{}{}
	return true
}

func (m *AlertMonitor) release(symbol string, index int) {
	m.mu.Lock()
	delete(m.fired, levelRef{symbol: symbol, index: index})
	m.mu.Unlock()
}

func (m *AlertMonitor) reloadLoop(ctx context.Context) {
	ticker := time.NewTicker(m.reloadEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			before := m.watchedSymbols()
			if err := m.reload(ctx); err != nil {
				m.metrics.RecordError("watchlist_reload")
				continue
			}
			// resubscribe when the watched set changed
			after := m.watchedSymbols()
			if !sameSymbols(before, after) && m.stream.IsConnected() {
				_ = m.stream.Subscribe(ctx, after)
			}
		}
	}
}

func (m *AlertMonitor) reload(ctx context.Context) error {
	entries, err := m.watch.ListActive(ctx)
	if err != nil {
		return err
	}
	levels := make(map[string][]models.TriggerLevel, len(entries))
	symbols := make([]string, 0, len(entries))
	for _, e := range entries {
		levels[e.Symbol] = e.Levels
		symbols = append(symbols, e.Symbol)
	}
	m.mu.Lock()
	m.levels = levels
	m.symbols = symbols
	for k := range m.fired {
		if _, ok := levels[k.symbol]; !ok {
			delete(m.fired, k)
		}
	}
	m.mu.Unlock()
	return nil
}

func (m *AlertMonitor) watchedSymbols() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.symbols))
	copy(out, m.symbols)
	return out
}

func sameSymbols(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, s := range a {
		seen[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := seen[s]; !ok {
			return false
		}
	}
	return true
}

// Shutdown stops the pipeline and closes the stream.
func (m *AlertMonitor) Shutdown(ctx context.Context) error {
	m.pipe.Stop()
	return m.stream.Close()
}
