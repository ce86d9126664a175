package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"propshare/contexts/trading-core/marketplace-service/application"
	"propshare/contexts/trading-core/marketplace-service/ports"
)

// OutboxRelay publishes persisted order events to the message bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending outbox rows and marks each row
// sent only after the publish succeeds. It stops on the first failure so the
// next cycle reprocesses remaining rows.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("marketplace outbox list failed",
			"event", "marketplace_outbox_list_failed",
			"module", "trading-core/marketplace-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, row := range pending {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("marketplace outbox decode failed",
				"event", "marketplace_outbox_decode_failed",
				"module", "trading-core/marketplace-service",
				"layer", "worker",
				"outbox_id", row.ID,
				"error", err.Error(),
			)
			return err
		}
		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			logger.Error("marketplace outbox publish failed",
				"event", "marketplace_outbox_publish_failed",
				"module", "trading-core/marketplace-service",
				"layer", "worker",
				"outbox_id", row.ID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxSent(ctx, row.ID, now); err != nil {
			logger.Error("marketplace outbox mark sent failed",
				"event", "marketplace_outbox_mark_sent_failed",
				"module", "trading-core/marketplace-service",
				"layer", "worker",
				"outbox_id", row.ID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("marketplace outbox relay cycle completed",
		"event", "marketplace_outbox_relay_completed",
		"module", "trading-core/marketplace-service",
		"layer", "worker",
		"published_count", len(pending),
	)
	return nil
}
