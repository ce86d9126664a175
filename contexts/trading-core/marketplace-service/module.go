package marketplace

import (
	"log/slog"

	httpadapter "propshare/contexts/trading-core/marketplace-service/adapters/http"
	"propshare/contexts/trading-core/marketplace-service/adapters/memory"
	"propshare/contexts/trading-core/marketplace-service/application"
	"propshare/contexts/trading-core/marketplace-service/application/workers"
	"propshare/contexts/trading-core/marketplace-service/ports"
)

type Module struct {
	Handler      httpadapter.Handler
	Service      application.Service
	OrderExpirer workers.OrderExpirer
	Store        *memory.Store
}

type Dependencies struct {
	Orders         ports.OrderRepository
	Ledger         ports.ShareLedger
	Funds          ports.Funds
	Access         ports.AccessControl
	Heights        ports.Heights
	Outbox         ports.OutboxWriter
	IDGen          ports.IDGenerator
	CustodyAccount string
	FeeAccount     string
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Orders:         deps.Orders,
		Ledger:         deps.Ledger,
		Funds:          deps.Funds,
		Access:         deps.Access,
		Heights:        deps.Heights,
		Outbox:         deps.Outbox,
		IDGen:          deps.IDGen,
		CustodyAccount: deps.CustodyAccount,
		FeeAccount:     deps.FeeAccount,
		Logger:         deps.Logger,
	}
	return Module{
		Handler:      httpadapter.Handler{Marketplace: service, Logger: deps.Logger},
		Service:      service,
		OrderExpirer: workers.OrderExpirer{Service: service, Logger: deps.Logger},
	}
}

func NewInMemoryModule(ledger ports.ShareLedger, funds ports.Funds, access ports.AccessControl, heights ports.Heights, defaultFeeBps uint64, custodyAccount string, feeAccount string, logger *slog.Logger) Module {
	store := memory.NewStore(defaultFeeBps)
	module := NewModule(Dependencies{
		Orders:         store,
		Ledger:         ledger,
		Funds:          funds,
		Access:         access,
		Heights:        heights,
		Outbox:         store,
		IDGen:          memory.UUIDGenerator{},
		CustodyAccount: custodyAccount,
		FeeAccount:     feeAccount,
		Logger:         logger,
	})
	module.Store = store
	return module
}
