package models

import "time"

// Zone is a candidate support band detected behind a rally. Top and Bottom are
// the reversal candle's body bounds, Top >= Bottom.
type Zone struct {
	Symbol          string  `json:"symbol,omitempty"`
	Timeframe       string  `json:"timeframe,omitempty"`
	ZoneKey         string  `json:"zone_key,omitempty"`
	Top             float64 `json:"top"`
	Bottom          float64 `json:"bottom"`
	CurrentWeekTime int64   `json:"current_week_time"`
	SmallRedTime    int64   `json:"small_red_time"`
	RallyLength     int     `json:"rally_length"`
	TotalMovePct    float64 `json:"total_move_pct"`
	SmallRedOffset  int     `json:"small_red_offset"`
}

// TriggerLevel is a user-selected zone persisted for alert monitoring.
type TriggerLevel struct {
	LevelIndex    int        `json:"level_index" db:"level_index"`
	TriggerPrice  float64    `json:"trigger_price" db:"trigger_price"`
	Bottom        float64    `json:"bottom" db:"bottom"`
	SmallRedTime  int64      `json:"small_red_time" db:"small_red_time"`
	RallyLength   int        `json:"rally_length" db:"rally_length"`
	TotalMovePct  float64    `json:"total_move_pct" db:"total_move_pct"`
	ZoneIndex     int        `json:"zone_index" db:"zone_index"`
	Timeframe     string     `json:"timeframe" db:"timeframe"`
	Triggered     bool       `json:"triggered" db:"triggered"`
	AlertDisabled bool       `json:"alert_disabled" db:"alert_disabled"`
	LastChecked   *time.Time `json:"last_checked,omitempty" db:"last_checked"`
}

// WatchEntry is a monitored symbol together with its trigger levels.
type WatchEntry struct {
	Symbol         string         `json:"symbol" db:"symbol"`
	Timeframe      string         `json:"timeframe" db:"timeframe"`
	Active         bool           `json:"active" db:"active"`
	MonitoringType string         `json:"monitoring_type" db:"monitoring_type"`
	Source         string         `json:"source" db:"source"`
	LastUpdated    time.Time      `json:"last_updated" db:"last_updated"`
	Levels         []TriggerLevel `json:"trigger_levels"`
}

// MarkTick is one live mark-price observation. Timestamp is UTC seconds.
type MarkTick struct {
	Symbol    string
	Price     float64
	Timestamp int64
}

// AlertEvent is published when price crosses into a trigger level.
type AlertEvent struct {
	Symbol       string    `json:"symbol"`
	Timeframe    string    `json:"timeframe"`
	LevelIndex   int       `json:"level_index"`
	TriggerPrice float64   `json:"trigger_price"`
	Bottom       float64   `json:"bottom"`
	MarkPrice    float64   `json:"mark_price"`
	FiredAt      time.Time `json:"fired_at"`
}
