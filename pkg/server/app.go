package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	drepo "CryptoLevels/internal/domain/repository"
	"CryptoLevels/internal/usecase"
	pkgch "CryptoLevels/pkg/clickhouse"
	"CryptoLevels/pkg/config"
	xhttp "CryptoLevels/pkg/http"
	pkgkafka "CryptoLevels/pkg/kafka"
	applogger "CryptoLevels/pkg/logger"
	pkgpg "CryptoLevels/pkg/postgres"
	pkgqueue "CryptoLevels/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	l         *applogger.Logger
	handler   xhttp.Handler
	monitor   *usecase.AlertMonitor
	consumer  *pkgkafka.Consumer
	alerts    pkgkafka.MessageHandler
	queue     *pkgqueue.RedisQueue
	scheduler *usecase.RefreshScheduler
	publisher drepo.Publisher
	chClient  *pkgch.Client
	pgClient  *pkgpg.Client

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	monitor *usecase.AlertMonitor,
	consumer *pkgkafka.Consumer,
	alerts pkgkafka.MessageHandler,
	queue *pkgqueue.RedisQueue,
	scheduler *usecase.RefreshScheduler,
	publisher drepo.Publisher,
	chClient *pkgch.Client,
	pgClient *pkgpg.Client,
) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		handler:   handler,
		monitor:   monitor,
		consumer:  consumer,
		alerts:    alerts,
		queue:     queue,
		scheduler: scheduler,
		publisher: publisher,
		chClient:  chClient,
		pgClient:  pgClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Aggregate noisy logs onto the job queue channel
	if a.queue != nil {
		a.l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "logs.aggregated",
			Publisher:      a.queue,
		})
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Live mark-price monitor
	if a.monitor != nil && a.cfg.Monitor.Enabled {
		if err := a.monitor.Start(ctx); err != nil {
			a.l.Error("alert monitor start error", applogger.Error(err))
		} else {
			a.l.Info("alert monitor started")
		}
	}

	// Alert history consumer
	if a.consumer != nil && a.alerts != nil {
		a.consumer.RegisterHandler(a.alerts)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.l.Info("kafka consumer started", applogger.String("topic", a.alerts.Topic()))
	}

	// Refresh job queue and scheduler
	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			a.l.Error("job queue start error", applogger.Error(err))
		} else {
			a.queue.StartRetryProcessor()
			a.l.Info("job queue started")
		}
	}
	if a.scheduler != nil && a.cfg.Scheduler.Enabled {
		if err := a.scheduler.Start(); err != nil {
			a.l.Error("scheduler start error", applogger.Error(err))
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.scheduler != nil {
		if err := a.scheduler.Stop(shutdownCtx); err != nil {
			a.l.Warn("scheduler stop error", applogger.Error(err))
		}
	}

	if a.monitor != nil {
		if err := a.monitor.Shutdown(shutdownCtx); err != nil {
			a.l.Warn("monitor stop error", applogger.Error(err))
		}
	}

	if a.httpServer != nil {
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.l.Error("http shutdown error", applogger.Error(err))
		}
	}

	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			a.l.Warn("job queue stop error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.l.Warn("alert publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.pgClient != nil {
		if err := a.pgClient.Close(); err != nil {
			a.l.Warn("postgres close error", applogger.Error(err))
		}
	}

	a.l.RemoveCollector()
	a.l.Info("shutdown complete")
	return nil
}
