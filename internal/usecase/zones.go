package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CryptoLevels/internal/domain/models"
	drepo "CryptoLevels/internal/domain/repository"
	"CryptoLevels/internal/services/zones"
	pkgcache "CryptoLevels/pkg/cache"
	applogger "CryptoLevels/pkg/logger"
)

const secondsPerWeek = 7 * 24 * 3600

// ZonesUseCase computes demand zones for a symbol and timeframe.
type ZonesUseCase struct {
	source  drepo.CandleSource
	store   drepo.ZoneStore
	cache   *pkgcache.LayeredCache
	ttl     time.Duration
	metrics drepo.Metrics
	l       *applogger.Logger

	now func() time.Time
}

func NewZonesUseCase(source drepo.CandleSource, store drepo.ZoneStore, cache *pkgcache.LayeredCache, ttl time.Duration, metrics drepo.Metrics, l *applogger.Logger) *ZonesUseCase {
	return &ZonesUseCase{
		source:  source,
		store:   store,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
		l:       l,
		now:     time.Now,
	}
}

func zonesCacheKey(symbol string, tf drepo.Timeframe) string {
	return fmt.Sprintf("zones:%s:%s", symbol, tf)
}

// Search fetches history, resamples it to the requested timeframe, and scans
// for zones. Insufficient history yields an empty list, not an error. Results
// are cached per (symbol, timeframe).
func (uc *ZonesUseCase) Search(ctx context.Context, symbol, timeframe string) ([]models.Zone, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	tf, err := drepo.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}
	policy, err := zones.PolicyFor(tf)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		var cached []models.Zone
		if err := uc.cache.Get(ctx, zonesCacheKey(symbol, tf), &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, pkgcache.ErrCacheMiss) && uc.l != nil {
			uc.l.Warn("zones cache get failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
	}

	start := uc.now()
	end := start.Unix()
	from := end - int64(policy.LookbackWeeks)*secondsPerWeek

	raw, err := uc.source.GetCandles(ctx, symbol, policy.Resolution, from, end)
	if err != nil {
		uc.metrics.RecordError("candles_fetch")
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	uc.metrics.RecordLatency("candles_fetch", time.Since(start).Seconds())

	bars := zones.Normalize(raw, 0)
	series := zones.BuildSeries(bars, tf)

	scanStart := uc.now()
	found := zones.Dedupe(zones.Scan(series, policy))
	uc.metrics.RecordLatency("zone_scan", time.Since(scanStart).Seconds())

	for i := range found {
		found[i].Symbol = symbol
		found[i].Timeframe = string(tf)
		found[i].ZoneKey = zones.Key(found[i].Top, found[i].Bottom)
	}
	uc.metrics.RecordZonesComputed(symbol, string(tf), len(found))

	if uc.l != nil {
		uc.l.Info("zone search done",
			applogger.String("symbol", symbol),
			applogger.String("timeframe", string(tf)),
			applogger.Int("bars", len(series)),
			applogger.Int("zones", len(found)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, zonesCacheKey(symbol, tf), found, uc.ttl); err != nil && uc.l != nil {
			uc.l.Warn("zones cache set failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
	}
	return found, nil
}

// Refresh recomputes zones and persists them. The store upserts by
// (symbol, timeframe, zone_key), so repeated refreshes converge.
func (uc *ZonesUseCase) Refresh(ctx context.Context, symbol, timeframe string) ([]models.Zone, error) {
	found, err := uc.Search(ctx, symbol, timeframe)
	if err != nil {
		return nil, err
	}
	if err := uc.store.UpsertZones(ctx, found); err != nil {
		uc.metrics.RecordError("zones_upsert")
		return nil, fmt.Errorf("persist zones: %w", err)
	}
	return found, nil
}

// Stored returns the persisted zones for a symbol and timeframe.
func (uc *ZonesUseCase) Stored(ctx context.Context, symbol, timeframe string) ([]models.Zone, error) {
	tf, err := drepo.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}
	return uc.store.GetZones(ctx, symbol, tf)
}
