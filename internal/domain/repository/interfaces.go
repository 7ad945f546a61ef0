package repository

import (
	"context"

	"CryptoLevels/internal/domain/models"
)

// CandleSource fetches raw historical candles from the exchange. Timestamps in
// the result may be seconds or milliseconds; normalization handles both.
type CandleSource interface {
	GetCandles(ctx context.Context, symbol, resolution string, start, end int64) ([]models.RawCandle, error)
}

// MarkPriceSource fetches the current mark price for a symbol.
type MarkPriceSource interface {
	GetMarkPrice(ctx context.Context, symbol string) (float64, error)
}

// MarkStream delivers live mark-price ticks over a persistent connection.
type MarkStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, symbols []string) error
	Read(ctx context.Context) (<-chan *models.MarkTick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// ZoneStore persists computed zones keyed by (symbol, timeframe, zone_key).
// Upserts are idempotent: repeated runs over the same history converge.
type ZoneStore interface {
	Init(ctx context.Context) error
	UpsertZones(ctx context.Context, zones []models.Zone) error
	GetZones(ctx context.Context, symbol string, tf Timeframe) ([]models.Zone, error)
	StoreAlert(ctx context.Context, ev *models.AlertEvent) error
	Health(ctx context.Context) error
	Close() error
}

// WatchStore persists the monitored watchlist and its trigger levels.
type WatchStore interface {
	Init(ctx context.Context) error
	PushLevels(ctx context.Context, symbol, timeframe string, levels []models.TriggerLevel) error
	ListActive(ctx context.Context) ([]models.WatchEntry, error)
	SetAlertDisabled(ctx context.Context, symbol string, levelIndex int, disabled bool) error
	MarkTriggered(ctx context.Context, symbol string, levelIndex int, markPrice float64) error
	Deactivate(ctx context.Context, symbol string) error
	Health(ctx context.Context) error
	Close() error
}

// Publisher emits alert events to the message bus.
type Publisher interface {
	Publish(ctx context.Context, ev *models.AlertEvent) error
	Close() error
}

// Metrics records operational metrics.
type Metrics interface {
	RecordZonesComputed(symbol, timeframe string, count int)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
