package usecase

import (
	"context"
	"encoding/json"
	"time"

	"CryptoLevels/internal/domain/models"
	domrepo "CryptoLevels/internal/domain/repository"
	pkgkafka "CryptoLevels/pkg/kafka"
)

// KafkaAlertsHandler consumes alert events and records them into the
// alert history table.
type KafkaAlertsHandler struct {
	topic   string
	store   domrepo.ZoneStore
	metrics domrepo.Metrics
}

func NewKafkaAlertsHandler(topic string, store domrepo.ZoneStore, metrics domrepo.Metrics) *KafkaAlertsHandler {
	return &KafkaAlertsHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaAlertsHandler) Topic() string { return h.topic }

func (h *KafkaAlertsHandler) Handle(ctx context.Context, b []byte) error {
	var ev models.AlertEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	// E2E latency from fire time to now (approx)
	h.metrics.RecordLatency("alert_e2e_seconds", time.Since(ev.FiredAt).Seconds())

	start := time.Now()
	err := h.store.StoreAlert(ctx, &ev)
	h.metrics.RecordLatency("alert_store_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaAlertsHandler)(nil)
