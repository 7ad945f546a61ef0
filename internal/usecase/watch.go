package usecase

import (
	"context"
	"fmt"

	"CryptoLevels/internal/domain/models"
	drepo "CryptoLevels/internal/domain/repository"
)

// WatchUseCase manages the watchlist of monitored symbols and their
// trigger levels.
type WatchUseCase struct {
	watch drepo.WatchStore
	marks drepo.MarkPriceSource
}

func NewWatchUseCase(watch drepo.WatchStore, marks drepo.MarkPriceSource) *WatchUseCase {
	return &WatchUseCase{watch: watch, marks: marks}
}

// PushZones converts the selected zones to trigger levels and appends them to
// the symbol's watch entry. Out-of-range indices are rejected.
func (uc *WatchUseCase) PushZones(ctx context.Context, symbol, timeframe string, selected []int, found []models.Zone) (int, error) {
	if symbol == "" {
		return 0, fmt.Errorf("symbol required")
	}
	if _, err := drepo.ParseTimeframe(timeframe); err != nil {
		return 0, err
	}
	if len(selected) == 0 {
		return 0, fmt.Errorf("no zones selected")
	}

	levels := make([]models.TriggerLevel, 0, len(selected))
	for _, idx := range selected {
		if idx < 0 || idx >= len(found) {
			return 0, fmt.Errorf("zone index %d out of range", idx)
		}
		z := found[idx]
		levels = append(levels, models.TriggerLevel{
			TriggerPrice: z.Top,
			Bottom:       z.Bottom,
			SmallRedTime: z.SmallRedTime,
			RallyLength:  z.RallyLength,
			TotalMovePct: z.TotalMovePct,
			ZoneIndex:    idx,
			Timeframe:    timeframe,
		})
	}

	if err := uc.watch.PushLevels(ctx, symbol, timeframe, levels); err != nil {
		return 0, fmt.Errorf("push levels: %w", err)
	}
	return len(levels), nil
}

// ListScrips returns all active watch entries with their levels.
func (uc *WatchUseCase) ListScrips(ctx context.Context) ([]models.WatchEntry, error) {
	return uc.watch.ListActive(ctx)
}

// SetAlertDisabled toggles alerting for one trigger level.
func (uc *WatchUseCase) SetAlertDisabled(ctx context.Context, symbol string, levelIndex int, disabled bool) error {
	return uc.watch.SetAlertDisabled(ctx, symbol, levelIndex, disabled)
}

// Deactivate removes a symbol from active monitoring. Its levels are kept.
func (uc *WatchUseCase) Deactivate(ctx context.Context, symbol string) error {
	return uc.watch.Deactivate(ctx, symbol)
}

// MarkPrice returns the live mark price for a symbol.
func (uc *WatchUseCase) MarkPrice(ctx context.Context, symbol string) (float64, error) {
	return uc.marks.GetMarkPrice(ctx, symbol)
}
