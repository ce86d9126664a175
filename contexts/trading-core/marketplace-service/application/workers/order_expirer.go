package workers

import (
	"context"
	"log/slog"

	"propshare/contexts/trading-core/marketplace-service/application"
)

// OrderExpirer cancels open orders whose expiration height has passed and
// returns their escrow to traders.
type OrderExpirer struct {
	Service application.Service
	Logger  *slog.Logger
}

func (w OrderExpirer) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(w.Logger)
	count, err := w.Service.ExpireOpenOrders(ctx)
	if err != nil {
		logger.Error("order expirer cycle failed",
			"event", "order_expirer_failed",
			"module", "trading-core/marketplace-service",
			"layer", "worker",
			"cancelled_count", count,
			"error", err.Error(),
		)
		return err
	}
	if count > 0 {
		logger.Info("order expirer cycle completed",
			"event", "order_expirer_completed",
			"module", "trading-core/marketplace-service",
			"layer", "worker",
			"cancelled_count", count,
		)
	}
	return nil
}
