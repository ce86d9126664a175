package rentaldistribution

import (
	"log/slog"

	httpadapter "propshare/contexts/finance-core/rental-distribution-service/adapters/http"
	"propshare/contexts/finance-core/rental-distribution-service/adapters/memory"
	"propshare/contexts/finance-core/rental-distribution-service/application"
	"propshare/contexts/finance-core/rental-distribution-service/domain/entities"
	"propshare/contexts/finance-core/rental-distribution-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository     ports.Repository
	Ledger         ports.ShareLedger
	Funds          ports.Funds
	Access         ports.AccessControl
	Heights        ports.Heights
	CustodyAccount string
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:           deps.Repository,
		Ledger:         deps.Ledger,
		Funds:          deps.Funds,
		Access:         deps.Access,
		Heights:        deps.Heights,
		CustodyAccount: deps.CustodyAccount,
		Logger:         deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Distribution: service, Logger: deps.Logger},
		Service: service,
	}
}

func NewInMemoryModule(ledger ports.ShareLedger, funds ports.Funds, access ports.AccessControl, heights ports.Heights, fees entities.FeeStructure, custodyAccount string, logger *slog.Logger) Module {
	store := memory.NewStore(fees)
	module := NewModule(Dependencies{
		Repository:     store,
		Ledger:         ledger,
		Funds:          funds,
		Access:         access,
		Heights:        heights,
		CustodyAccount: custodyAccount,
		Logger:         logger,
	})
	module.Store = store
	return module
}
