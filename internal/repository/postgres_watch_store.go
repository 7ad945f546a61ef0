package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"CryptoLevels/internal/domain/models"
	pkgpg "CryptoLevels/pkg/postgres"
)

var watchSchema = []string{
	`CREATE TABLE IF NOT EXISTS watchlist (
		symbol          TEXT PRIMARY KEY,
		timeframe       TEXT NOT NULL,
		active          BOOLEAN NOT NULL DEFAULT TRUE,
		monitoring_type TEXT NOT NULL DEFAULT 'zone_alert',
		source          TEXT NOT NULL DEFAULT 'zone_search',
		last_updated    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS trigger_levels (
		id             SERIAL PRIMARY KEY,
		symbol         TEXT NOT NULL REFERENCES watchlist(symbol) ON DELETE CASCADE,
		level_index    INT NOT NULL,
		trigger_price  DOUBLE PRECISION NOT NULL,
		bottom         DOUBLE PRECISION NOT NULL,
		small_red_time BIGINT NOT NULL,
		rally_length   INT NOT NULL,
		total_move_pct DOUBLE PRECISION NOT NULL,
		zone_index     INT NOT NULL,
		timeframe      TEXT NOT NULL,
		triggered      BOOLEAN NOT NULL DEFAULT FALSE,
		alert_disabled BOOLEAN NOT NULL DEFAULT FALSE,
		last_checked   TIMESTAMPTZ,
		UNIQUE (symbol, level_index)
	)`,
}

// PGWatchStore implements WatchStore backed by PostgreSQL.
type PGWatchStore struct {
	pg *pkgpg.Client
	db *sqlx.DB
}

func NewPGWatchStore(pg *pkgpg.Client) *PGWatchStore {
	return &PGWatchStore{pg: pg, db: pg.DB()}
}

func (s *PGWatchStore) Init(ctx context.Context) error {
	return s.pg.InitSchema(ctx, watchSchema)
}

// PushLevels appends trigger levels to a symbol's watch entry, creating or
// re-activating the entry as needed. Level indices continue from the highest
// existing index.
func (s *PGWatchStore) PushLevels(ctx context.Context, symbol, timeframe string, levels []models.TriggerLevel) error {
	if len(levels) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	const upsert = `
        INSERT INTO watchlist (symbol, timeframe, active, last_updated)
        VALUES ($1, $2, TRUE, now())
        ON CONFLICT (symbol) DO UPDATE
        SET timeframe = EXCLUDED.timeframe, active = TRUE, last_updated = now()
    `
	if _, err := tx.ExecContext(ctx, upsert, symbol, timeframe); err != nil {
		return fmt.Errorf("upsert watchlist: %w", err)
	}

	var next int
	if err := tx.GetContext(ctx, &next,
		`SELECT COALESCE(MAX(level_index) + 1, 0) FROM trigger_levels WHERE symbol = $1`, symbol); err != nil {
		return fmt.Errorf("next level index: %w", err)
	}

	const insert = `
        INSERT INTO trigger_levels
            (symbol, level_index, trigger_price, bottom, small_red_time,
             rally_length, total_move_pct, zone_index, timeframe)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	for i, lv := range levels {
		if _, err := tx.ExecContext(ctx, insert,
			symbol, next+i, lv.TriggerPrice, lv.Bottom, lv.SmallRedTime,
			lv.RallyLength, lv.TotalMovePct, lv.ZoneIndex, timeframe); err != nil {
			return fmt.Errorf("insert level %d: %w", next+i, err)
		}
	}

	return tx.Commit()
}

func (s *PGWatchStore) ListActive(ctx context.Context) ([]models.WatchEntry, error) {
	var entries []models.WatchEntry
	const q = `
        SELECT symbol, timeframe, active, monitoring_type, source, last_updated
        FROM watchlist
        WHERE active = TRUE
        ORDER BY symbol
    `
	if err := s.db.SelectContext(ctx, &entries, q); err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}

	const lq = `
        SELECT level_index, trigger_price, bottom, small_red_time,
               rally_length, total_move_pct, zone_index, timeframe,
               triggered, alert_disabled, last_checked
        FROM trigger_levels
        WHERE symbol = $1
        ORDER BY level_index
    `
	for i := range entries {
		var levels []models.TriggerLevel
		if err := s.db.SelectContext(ctx, &levels, lq, entries[i].Symbol); err != nil {
			return nil, fmt.Errorf("list levels %s: %w", entries[i].Symbol, err)
		}
		entries[i].Levels = levels
	}
	return entries, nil
}

func (s *PGWatchStore) SetAlertDisabled(ctx context.Context, symbol string, levelIndex int, disabled bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE trigger_levels SET alert_disabled = $3 WHERE symbol = $1 AND level_index = $2`,
		symbol, levelIndex, disabled)
	if err != nil {
		return fmt.Errorf("set alert disabled: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("level %d for %s not found", levelIndex, symbol)
	}
	return nil
}

func (s *PGWatchStore) MarkTriggered(ctx context.Context, symbol string, levelIndex int, markPrice float64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE trigger_levels SET triggered = TRUE, last_checked = now() WHERE symbol = $1 AND level_index = $2`,
		symbol, levelIndex)
	if err != nil {
		return fmt.Errorf("mark triggered: %w", err)
	}
	return nil
}

func (s *PGWatchStore) Deactivate(ctx context.Context, symbol string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE watchlist SET active = FALSE, last_updated = now() WHERE symbol = $1`, symbol)
	if err != nil {
		return fmt.Errorf("deactivate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("scrip %s not found", symbol)
	}
	return nil
}

func (s *PGWatchStore) Health(ctx context.Context) error {
	return s.pg.Health(ctx)
}

func (s *PGWatchStore) Close() error {
	return nil // Managed by pkg
}
