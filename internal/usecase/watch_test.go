package usecase

import (
	"context"
	"testing"

	"CryptoLevels/internal/domain/models"
)

type fakeWatchStore struct {
	pushed    []models.TriggerLevel
	pushedSym string
	pushedTF  string
}

func (f *fakeWatchStore) Init(ctx context.Context) error { return nil }
func (f *fakeWatchStore) PushLevels(ctx context.Context, symbol, timeframe string, levels []models.TriggerLevel) error {
	f.pushedSym = symbol
	f.pushedTF = timeframe
	f.pushed = append(f.pushed, levels...)
	return nil
}
func (f *fakeWatchStore) ListActive(ctx context.Context) ([]models.WatchEntry, error) {
	return nil, nil
}
func (f *fakeWatchStore) SetAlertDisabled(ctx context.Context, symbol string, levelIndex int, disabled bool) error {
	return nil
}
func (f *fakeWatchStore) MarkTriggered(ctx context.Context, symbol string, levelIndex int, markPrice float64) error {
	return nil
}
func (f *fakeWatchStore) Deactivate(ctx context.Context, symbol string) error { return nil }
func (f *fakeWatchStore) Health(ctx context.Context) error                    { return nil }
func (f *fakeWatchStore) Close() error                                        { return nil }

type fakeMarks struct{ price float64 }

func (f fakeMarks) GetMarkPrice(ctx context.Context, symbol string) (float64, error) {
	return f.price, nil
}

func TestPushZonesBuildsLevels(t *testing.T) {
	store := &fakeWatchStore{}
	uc := NewWatchUseCase(store, fakeMarks{})

	found := []models.Zone{
		{Top: 105, Bottom: 100, SmallRedTime: 1600000000, RallyLength: 3, TotalMovePct: 12.5},
		{Top: 95, Bottom: 90, SmallRedTime: 1500000000, RallyLength: 4, TotalMovePct: 20},
	}
	n, err := uc.PushZones(context.Background(), "BTCUSD", "1w", []int{1}, found)
	if err != nil {
		t.Fatalf("PushZones: %v", err)
	}
	if n != 1 {
		t.Fatalf("pushed %d levels, want 1", n)
	}
	if store.pushedSym != "BTCUSD" || store.pushedTF != "1w" {
		t.Fatalf("pushed to %s/%s", store.pushedSym, store.pushedTF)
	}
	lv := store.pushed[0]
	if lv.TriggerPrice != 95 || lv.Bottom != 90 {
		t.Fatalf("level band = [%v, %v]", lv.Bottom, lv.TriggerPrice)
	}
	if lv.ZoneIndex != 1 || lv.Timeframe != "1w" {
		t.Fatalf("level meta = %+v", lv)
	}
}

func TestPushZonesRejectsBadInput(t *testing.T) {
	uc := NewWatchUseCase(&fakeWatchStore{}, fakeMarks{})
	found := []models.Zone{{Top: 105, Bottom: 100}}

	if _, err := uc.PushZones(context.Background(), "BTCUSD", "1w", []int{3}, found); err == nil {
		t.Fatal("out-of-range index should fail")
	}
	if _, err := uc.PushZones(context.Background(), "BTCUSD", "2w", []int{0}, found); err == nil {
		t.Fatal("unknown timeframe should fail")
	}
	if _, err := uc.PushZones(context.Background(), "BTCUSD", "1w", nil, found); err == nil {
		t.Fatal("empty selection should fail")
	}
}
