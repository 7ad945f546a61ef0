package usecase

import (
	"context"
	"fmt"

	pkgqueue "CryptoLevels/pkg/queue"
)

const RefreshMsgType = "zones.refresh"

// RefreshPayload is the queued request to recompute one symbol/timeframe.
type RefreshPayload struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
}

// RefreshJob consumes refresh requests from the job queue and recomputes
// zones for the requested symbol.
type RefreshJob struct {
	zones *ZonesUseCase
}

func NewRefreshJob(zones *ZonesUseCase) *RefreshJob {
	return &RefreshJob{zones: zones}
}

func (j *RefreshJob) Name() string { return "zones_refresh" }
func (j *RefreshJob) Type() string { return RefreshMsgType }

func (j *RefreshJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := pkgqueue.ParsePayload[RefreshPayload](payload)
	if err != nil {
		return fmt.Errorf("parse refresh payload: %w", err)
	}
	if _, err := j.zones.Refresh(ctx, p.Symbol, p.Timeframe); err != nil {
		return fmt.Errorf("refresh %s/%s: %w", p.Symbol, p.Timeframe, err)
	}
	return nil
}

var _ pkgqueue.Job = (*RefreshJob)(nil)
