package governance

import (
	"log/slog"

	httpadapter "propshare/contexts/governance-core/governance-service/adapters/http"
	"propshare/contexts/governance-core/governance-service/adapters/memory"
	"propshare/contexts/governance-core/governance-service/application"
	"propshare/contexts/governance-core/governance-service/application/workers"
	"propshare/contexts/governance-core/governance-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Closer  workers.ProposalCloser
	Store   *memory.Store
}

type Dependencies struct {
	Repository         ports.Repository
	Ledger             ports.ShareLedger
	Access             ports.AccessControl
	Heights            ports.Heights
	Outbox             ports.OutboxWriter
	IDGen              ports.IDGenerator
	VotingPeriodBlocks uint64
	QuorumBps          uint64
	ThresholdBps       uint64
	Logger             *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:               deps.Repository,
		Ledger:             deps.Ledger,
		Access:             deps.Access,
		Heights:            deps.Heights,
		Outbox:             deps.Outbox,
		IDGen:              deps.IDGen,
		VotingPeriodBlocks: deps.VotingPeriodBlocks,
		QuorumBps:          deps.QuorumBps,
		ThresholdBps:       deps.ThresholdBps,
		Logger:             deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Governance: service, Logger: deps.Logger},
		Service: service,
		Closer:  workers.ProposalCloser{Service: service, Logger: deps.Logger},
	}
}

func NewInMemoryModule(ledger ports.ShareLedger, access ports.AccessControl, heights ports.Heights, votingPeriodBlocks uint64, quorumBps uint64, thresholdBps uint64, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:         store,
		Ledger:             ledger,
		Access:             access,
		Heights:            heights,
		Outbox:             store,
		IDGen:              memory.UUIDGenerator{},
		VotingPeriodBlocks: votingPeriodBlocks,
		QuorumBps:          quorumBps,
		ThresholdBps:       thresholdBps,
		Logger:             logger,
	})
	module.Store = store
	return module
}
