package workers

import (
	"context"
	"log/slog"

	"propshare/contexts/governance-core/governance-service/application"
)

// ProposalCloser settles active proposals whose voting window has ended and
// releases voter share locks.
type ProposalCloser struct {
	Service application.Service
	Logger  *slog.Logger
}

func (w ProposalCloser) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(w.Logger)
	count, err := w.Service.CloseEndedProposals(ctx)
	if err != nil {
		logger.Error("proposal closer cycle failed",
			"event", "proposal_closer_failed",
			"module", "governance-core/governance-service",
			"layer", "worker",
			"closed_count", count,
			"error", err.Error(),
		)
		return err
	}
	if count > 0 {
		logger.Info("proposal closer cycle completed",
			"event", "proposal_closer_completed",
			"module", "governance-core/governance-service",
			"layer", "worker",
			"closed_count", count,
		)
	}
	return nil
}
