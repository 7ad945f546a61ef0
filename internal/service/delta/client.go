package delta

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"CryptoLevels/internal/domain/models"
	"CryptoLevels/internal/service/ratelimit"
	xhttp "CryptoLevels/pkg/http"
)

const rateKey = "delta-rest"

// Client calls the Delta Exchange public REST API.
type Client struct {
	baseURL string
	http    *xhttp.Client
	limiter *ratelimit.Limiter
	rps     float64
}

// New creates a Delta REST client. rps caps outbound request rate; zero
// disables limiting.
func New(baseURL string, timeout time.Duration, rps float64) *Client {
	return &Client{
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter: ratelimit.New(),
		rps:     rps,
	}
}

type candlesResponse struct {
	Success bool               `json:"success"`
	Result  []models.RawCandle `json:"result"`
	Error   interface{}        `json:"error,omitempty"`
}

// GetCandles fetches historical candles for symbol at the given resolution
// over [start, end] (UTC seconds). Bars come back raw; the caller normalizes.
func (c *Client) GetCandles(ctx context.Context, symbol, resolution string, start, end int64) ([]models.RawCandle, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var resp candlesResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v2/history/candles",
		QueryParams: map[string][]string{
			"resolution": {resolution},
			"symbol":     {symbol},
			"start":      {strconv.FormatInt(start, 10)},
			"end":        {strconv.FormatInt(end, 10)},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("delta candles %s/%s: %w", symbol, resolution, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("delta candles %s/%s: api error: %v", symbol, resolution, resp.Error)
	}
	return resp.Result, nil
}

type tickersResponse struct {
	Success bool `json:"success"`
	Result  []struct {
		Symbol    string `json:"symbol"`
		MarkPrice string `json:"mark_price"`
	} `json:"result"`
}

// ErrSymbolNotFound reports a symbol missing from the tickers feed.
type ErrSymbolNotFound struct {
	Symbol string
}

func (e *ErrSymbolNotFound) Error() string {
	return fmt.Sprintf("symbol %s not found in tickers", e.Symbol)
}

// GetMarkPrice returns the current mark price for symbol.
func (c *Client) GetMarkPrice(ctx context.Context, symbol string) (float64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}

	var resp tickersResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v2/tickers",
	}, &resp)
	if err != nil {
		return 0, fmt.Errorf("delta tickers: %w", err)
	}
	if !resp.Success {
		return 0, fmt.Errorf("delta tickers: api error")
	}
	for _, t := range resp.Result {
		if t.Symbol != symbol {
			continue
		}
		if t.MarkPrice == "" {
			break
		}
		p, err := strconv.ParseFloat(t.MarkPrice, 64)
		if err != nil {
			return 0, fmt.Errorf("delta tickers: bad mark_price %q: %w", t.MarkPrice, err)
		}
		return p, nil
	}
	return 0, &ErrSymbolNotFound{Symbol: symbol}
}

// wait blocks until a rate-limit token is available or ctx is done.
func (c *Client) wait(ctx context.Context) error {
	if c.rps <= 0 {
		return nil
	}
	for !c.limiter.Allow(rateKey, c.rps, c.rps) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	return nil
}
