package workers

import (
	"context"
	"log/slog"

	"propshare/contexts/trading-core/escrow-service/application"
)

// EscrowExpirer refunds escrows whose expiration height has passed.
type EscrowExpirer struct {
	Service application.Service
	Logger  *slog.Logger
}

func (w EscrowExpirer) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(w.Logger)
	count, err := w.Service.ExpireEscrows(ctx)
	if err != nil {
		logger.Error("escrow expirer cycle failed",
			"event", "escrow_expirer_failed",
			"module", "trading-core/escrow-service",
			"layer", "worker",
			"refunded_count", count,
			"error", err.Error(),
		)
		return err
	}
	if count > 0 {
		logger.Info("escrow expirer cycle completed",
			"event", "escrow_expirer_completed",
			"module", "trading-core/escrow-service",
			"layer", "worker",
			"refunded_count", count,
		)
	}
	return nil
}
