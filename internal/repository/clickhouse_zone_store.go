package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"CryptoLevels/internal/domain/models"
	domrepo "CryptoLevels/internal/domain/repository"
	pkgch "CryptoLevels/pkg/clickhouse"
	applogger "CryptoLevels/pkg/logger"
)

// zone schema. ReplacingMergeTree keyed by (symbol, timeframe, zone_key)
// makes repeated upserts of the same zone converge to the latest row.
var zoneSchema = []string{
	`CREATE DATABASE IF NOT EXISTS cryptolevels`,
	`CREATE TABLE IF NOT EXISTS cryptolevels.zones (
		symbol           String,
		timeframe        String,
		zone_key         String,
		top              Float64,
		bottom           Float64,
		current_week_time Int64,
		small_red_time   Int64,
		rally_length     UInt16,
		total_move_pct   Float64,
		small_red_offset UInt16,
		updated_at       DateTime DEFAULT now()
	) ENGINE = ReplacingMergeTree(updated_at)
	ORDER BY (symbol, timeframe, zone_key)`,
	`CREATE TABLE IF NOT EXISTS cryptolevels.alerts (
		symbol        String,
		timeframe     String,
		level_index   Int32,
		trigger_price Float64,
		bottom        Float64,
		mark_price    Float64,
		fired_at      DateTime
	) ENGINE = MergeTree
	ORDER BY (symbol, fired_at)`,
	`CREATE TABLE IF NOT EXISTS cryptolevels.app_logs (
		level      String,
		message    String,
		caller     String,
		count      UInt32,
		first_seen DateTime64(3),
		last_seen  DateTime64(3)
	) ENGINE = MergeTree
	ORDER BY (first_seen)`,
}

// CHZoneStore implements ZoneStore backed by ClickHouse.
type CHZoneStore struct {
	ch *pkgch.Client
	db *sql.DB
	l  *applogger.Logger
}

func NewCHZoneStore(ch *pkgch.Client) *CHZoneStore {
	return &CHZoneStore{ch: ch, db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHZoneStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHZoneStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, zoneSchema)
}

func (s *CHZoneStore) UpsertZones(ctx context.Context, zones []models.Zone) error {
	if len(zones) == 0 {
		return nil
	}
	start := time.Now()

	values := make([]string, 0, len(zones))
	args := make([]interface{}, 0, len(zones)*10)
	for _, z := range zones {
		if z.Symbol == "" || z.ZoneKey == "" {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			z.Symbol,
			z.Timeframe,
			z.ZoneKey,
			z.Top,
			z.Bottom,
			z.CurrentWeekTime,
			z.SmallRedTime,
			uint16(z.RallyLength),
			z.TotalMovePct,
			uint16(z.SmallRedOffset),
		)
	}
	if len(values) == 0 {
		return nil
	}

	q := "INSERT INTO cryptolevels.zones (symbol, timeframe, zone_key, top, bottom, current_week_time, small_red_time, rally_length, total_move_pct, small_red_offset) VALUES " + strings.Join(values, ",")
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse upsert_zones error",
				applogger.Int("zones", len(values)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("upsert zones: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse upsert_zones ok",
			applogger.Int("zones", len(values)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHZoneStore) GetZones(ctx context.Context, symbol string, tf domrepo.Timeframe) ([]models.Zone, error) {
	const q = `
        SELECT symbol, timeframe, zone_key, top, bottom,
               current_week_time, small_red_time, rally_length,
               total_move_pct, small_red_offset
        FROM cryptolevels.zones FINAL
        WHERE symbol = ? AND timeframe = ?
        ORDER BY small_red_time DESC
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, string(tf))
	if err != nil {
		return nil, fmt.Errorf("get zones: %w", err)
	}
	defer rows.Close()

	out := make([]models.Zone, 0, 16)
	for rows.Next() {
		var z models.Zone
		var rally, offset uint16
		if err := rows.Scan(&z.Symbol, &z.Timeframe, &z.ZoneKey, &z.Top, &z.Bottom,
			&z.CurrentWeekTime, &z.SmallRedTime, &rally, &z.TotalMovePct, &offset); err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		z.RallyLength = int(rally)
		z.SmallRedOffset = int(offset)
		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHZoneStore) StoreAlert(ctx context.Context, ev *models.AlertEvent) error {
	const q = `INSERT INTO cryptolevels.alerts (symbol, timeframe, level_index, trigger_price, bottom, mark_price, fired_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		ev.Symbol,
		ev.Timeframe,
		int32(ev.LevelIndex),
		ev.TriggerPrice,
		ev.Bottom,
		ev.MarkPrice,
		ev.FiredAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("store alert: %w", err)
	}
	return nil
}

func (s *CHZoneStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHZoneStore) Close() error {
	return nil // Managed by pkg
}
