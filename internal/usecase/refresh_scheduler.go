package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	drepo "CryptoLevels/internal/domain/repository"
	applogger "CryptoLevels/pkg/logger"
	pkgqueue "CryptoLevels/pkg/queue"
)

// RefreshScheduler periodically enqueues zone refresh jobs for every active
// watchlist entry.
type RefreshScheduler struct {
	cron    *cron.Cron
	spec    string
	watch   drepo.WatchStore
	queue   pkgqueue.QueueService
	metrics drepo.Metrics
	l       *applogger.Logger
}

func NewRefreshScheduler(spec string, watch drepo.WatchStore, queue pkgqueue.QueueService, metrics drepo.Metrics, l *applogger.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		cron:    cron.New(),
		spec:    spec,
		watch:   watch,
		queue:   queue,
		metrics: metrics,
		l:       l,
	}
}

func (s *RefreshScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.enqueueAll); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	s.cron.Start()
	if s.l != nil {
		s.l.Info("refresh scheduler started", applogger.String("cron", s.spec))
	}
	return nil
}

func (s *RefreshScheduler) enqueueAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entries, err := s.watch.ListActive(ctx)
	if err != nil {
		s.metrics.RecordError("scheduler_list")
		if s.l != nil {
			s.l.Error("refresh scheduler list failed", applogger.Error(err))
		}
		return
	}
	for _, e := range entries {
		payload := RefreshPayload{Symbol: e.Symbol, Timeframe: e.Timeframe}
		if err := s.queue.PublishMessage(ctx, RefreshMsgType, payload); err != nil {
			s.metrics.RecordError("scheduler_enqueue")
			if s.l != nil {
				s.l.Error("enqueue refresh failed",
					applogger.String("symbol", e.Symbol),
					applogger.Error(err),
				)
			}
		}
	}
	if s.l != nil {
		s.l.Info("refresh jobs enqueued", applogger.Int("count", len(entries)))
	}
}

// Stop stops the scheduler and waits for running jobs.
func (s *RefreshScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
