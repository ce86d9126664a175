package accesscontrol

import (
	"log/slog"

	httpadapter "propshare/contexts/identity-access/access-control-service/adapters/http"
	"propshare/contexts/identity-access/access-control-service/adapters/memory"
	"propshare/contexts/identity-access/access-control-service/application"
	"propshare/contexts/identity-access/access-control-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Heights    ports.Heights
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:    deps.Repository,
		Heights: deps.Heights,
		Logger:  deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Access: service, Logger: deps.Logger},
		Service: service,
	}
}

func NewInMemoryModule(owner string, heights ports.Heights, logger *slog.Logger) Module {
	store := memory.NewStore(owner)
	module := NewModule(Dependencies{
		Repository: store,
		Heights:    heights,
		Logger:     logger,
	})
	module.Store = store
	return module
}
