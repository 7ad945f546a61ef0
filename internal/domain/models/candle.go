package models

import "encoding/json"

// RawCandle is one bar as delivered by the exchange history API. Fields are
// optional and numbers may arrive as strings, so everything stays loosely
// typed until normalization.
type RawCandle struct {
	Time   *int64       `json:"time"`
	Open   *json.Number `json:"open"`
	High   *json.Number `json:"high"`
	Low    *json.Number `json:"low"`
	Close  *json.Number `json:"close"`
	Volume *json.Number `json:"volume"`
}

// Bar is a validated OHLCV observation. Time is the bar open in UTC seconds.
type Bar struct {
	Time   int64
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// IsGreen reports a bullish bar.
func (b Bar) IsGreen() bool { return b.Close > b.Open }

// IsRed reports a bearish bar.
func (b Bar) IsRed() bool { return b.Close < b.Open }

// Body returns the absolute candle body size.
func (b Bar) Body() float64 {
	d := b.Close - b.Open
	if d < 0 {
		return -d
	}
	return d
}
