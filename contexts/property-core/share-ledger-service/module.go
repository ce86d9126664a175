package shareledger

import (
	"log/slog"

	httpadapter "propshare/contexts/property-core/share-ledger-service/adapters/http"
	"propshare/contexts/property-core/share-ledger-service/adapters/memory"
	"propshare/contexts/property-core/share-ledger-service/application"
	"propshare/contexts/property-core/share-ledger-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository    ports.Repository
	Access        ports.AccessControl
	Heights       ports.Heights
	LockAuthority string
	Decimals      uint8
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:          deps.Repository,
		Access:        deps.Access,
		Heights:       deps.Heights,
		LockAuthority: deps.LockAuthority,
		Decimals:      deps.Decimals,
		Logger:        deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Ledger: service, Logger: deps.Logger},
		Service: service,
	}
}

func NewInMemoryModule(access ports.AccessControl, heights ports.Heights, lockAuthority string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:    store,
		Access:        access,
		Heights:       heights,
		LockAuthority: lockAuthority,
		Logger:        logger,
	})
	module.Store = store
	return module
}
