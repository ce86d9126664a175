package propertyregistry

import (
	"log/slog"

	httpadapter "propshare/contexts/property-core/property-registry-service/adapters/http"
	"propshare/contexts/property-core/property-registry-service/adapters/memory"
	"propshare/contexts/property-core/property-registry-service/application"
	"propshare/contexts/property-core/property-registry-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Access     ports.AccessControl
	Heights    ports.Heights
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:    deps.Repository,
		Access:  deps.Access,
		Heights: deps.Heights,
		Logger:  deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Registry: service, Logger: deps.Logger},
		Service: service,
	}
}

func NewInMemoryModule(access ports.AccessControl, heights ports.Heights, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Access:     access,
		Heights:    heights,
		Logger:     logger,
	})
	module.Store = store
	return module
}
