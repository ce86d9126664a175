package escrow

import (
	"log/slog"

	httpadapter "propshare/contexts/trading-core/escrow-service/adapters/http"
	"propshare/contexts/trading-core/escrow-service/adapters/memory"
	"propshare/contexts/trading-core/escrow-service/application"
	"propshare/contexts/trading-core/escrow-service/application/workers"
	"propshare/contexts/trading-core/escrow-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Expirer workers.EscrowExpirer
	Store   *memory.Store
}

type Dependencies struct {
	Repository      ports.Repository
	Ledger          ports.ShareLedger
	Funds           ports.Funds
	Access          ports.AccessControl
	Heights         ports.Heights
	Outbox          ports.OutboxWriter
	IDGen           ports.IDGenerator
	CustodyAccount  string
	PlatformAccount string
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:            deps.Repository,
		Ledger:          deps.Ledger,
		Funds:           deps.Funds,
		Access:          deps.Access,
		Heights:         deps.Heights,
		Outbox:          deps.Outbox,
		IDGen:           deps.IDGen,
		CustodyAccount:  deps.CustodyAccount,
		PlatformAccount: deps.PlatformAccount,
		Logger:          deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Escrow: service, Logger: deps.Logger},
		Service: service,
		Expirer: workers.EscrowExpirer{Service: service, Logger: deps.Logger},
	}
}

func NewInMemoryModule(ledger ports.ShareLedger, funds ports.Funds, access ports.AccessControl, heights ports.Heights, custodyAccount string, platformAccount string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:      store,
		Ledger:          ledger,
		Funds:           funds,
		Access:          access,
		Heights:         heights,
		Outbox:          store,
		IDGen:           memory.UUIDGenerator{},
		CustodyAccount:  custodyAccount,
		PlatformAccount: platformAccount,
		Logger:          logger,
	})
	module.Store = store
	return module
}
