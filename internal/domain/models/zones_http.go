package models

// ZoneSearchRequest asks for support zones on one symbol and timeframe.
type ZoneSearchRequest struct {
	Symbol    string `json:"symbol" validate:"required,min=1"`
	Timeframe string `json:"timeframe" default:"1w" validate:"oneof=1M 1w 1d 4h 1h"`
}

// ZoneView is the API shape of a computed zone.
type ZoneView struct {
	Index        int     `json:"index"`
	Top          float64 `json:"top"`
	Bottom       float64 `json:"bottom"`
	Date         string  `json:"date"`
	RallyLength  int     `json:"rally_length"`
	TotalMovePct float64 `json:"total_move_pct"`
	SmallRedTime int64   `json:"small_red_time"`
}

// ZoneSearchResponse is the search result envelope.
type ZoneSearchResponse struct {
	Symbol    string     `json:"symbol"`
	Timeframe string     `json:"timeframe"`
	Zones     []ZoneView `json:"zones"`
	Count     int        `json:"count"`
}

// PushZonesRequest stores selected zones as trigger levels.
type PushZonesRequest struct {
	Symbol          string `json:"symbol" validate:"required,min=1"`
	Timeframe       string `json:"timeframe" validate:"required,oneof=1M 1w 1d 4h 1h"`
	SelectedIndices []int  `json:"selected_indices" validate:"required,min=1"`
	Zones           []Zone `json:"zones" validate:"required,min=1"`
}

// UpdateAlertRequest toggles alerting for one trigger level.
type UpdateAlertRequest struct {
	LevelIndex int  `json:"level_index" validate:"gte=0"`
	Disabled   bool `json:"disabled"`
}

// MarkPriceResponse reports the live mark price for a symbol.
type MarkPriceResponse struct {
	Symbol    string  `json:"symbol"`
	MarkPrice float64 `json:"mark_price"`
}
