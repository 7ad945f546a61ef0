package delta

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"CryptoLevels/internal/domain/models"
	drepo "CryptoLevels/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Stream implements a MarkStream backed by the Delta Exchange WebSocket
// v2/ticker channel.
type Stream struct {
	socketURL      string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	symbols   []string
	connected bool
}

// NewStream creates a Delta mark-price stream.
func NewStream(socketURL string, reconnectDelay, pingInterval time.Duration) drepo.MarkStream {
	return &Stream{
		socketURL:      socketURL,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (s *Stream) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.socketURL, nil)
	if err != nil {
		return fmt.Errorf("delta connect: %w", err)
	}
	s.conn = conn
	s.connected = true
	return nil
}

type subscribeMsg struct {
	Type    string `json:"type"`
	Payload struct {
		Channels []channelSpec `json:"channels"`
	} `json:"payload"`
}

type channelSpec struct {
	Name    string   `json:"name"`
	Symbols []string `json:"symbols"`
}

// Subscribe subscribes the v2/ticker channel for the given symbols.
func (s *Stream) Subscribe(ctx context.Context, symbols []string) error {
	if s.conn == nil || !s.connected {
		return fmt.Errorf("delta stream not connected")
	}
	s.symbols = symbols
	msg := subscribeMsg{Type: "subscribe"}
	msg.Payload.Channels = []channelSpec{{Name: "v2/ticker", Symbols: symbols}}
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("delta subscribe: %w", err)
	}
	return nil
}

type tickerFrame struct {
	Type      string `json:"type"`
	Symbol    string `json:"symbol"`
	MarkPrice string `json:"mark_price"`
	Timestamp int64  `json:"timestamp"` // microseconds
}

// Read streams MarkTick events and errors until ctx is done or the
// connection drops.
func (s *Stream) Read(ctx context.Context) (<-chan *models.MarkTick, <-chan error) {
	ticks := make(chan *models.MarkTick, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.conn != nil {
					_ = s.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(ticks)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if s.conn == nil {
					errs <- fmt.Errorf("delta conn nil")
					return
				}
				_, b, err := s.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("delta read: %w", err)
					return
				}
				var f tickerFrame
				if err := json.Unmarshal(b, &f); err != nil {
					// ignore non-ticker frames
					continue
				}
				if f.Type != "v2/ticker" || f.MarkPrice == "" {
					continue
				}
				price, err := strconv.ParseFloat(f.MarkPrice, 64)
				if err != nil {
					continue
				}
				sec := f.Timestamp / 1000000
				tick := &models.MarkTick{Symbol: f.Symbol, Price: price, Timestamp: sec}
				select {
				case ticks <- tick:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return ticks, errs
}

// Reconnect closes, waits, reconnects and resubscribes.
func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	time.Sleep(s.reconnectDelay)
	if err := s.Connect(ctx); err != nil {
		return err
	}
	return s.Subscribe(ctx, s.symbols)
}

// Close closes the WS connection.
func (s *Stream) Close() error {
	s.connected = false
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (s *Stream) IsConnected() bool { return s.connected }
