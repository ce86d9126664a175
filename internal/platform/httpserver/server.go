package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"

	rentaldistribution "propshare/contexts/finance-core/rental-distribution-service"
	governance "propshare/contexts/governance-core/governance-service"
	accesscontrol "propshare/contexts/identity-access/access-control-service"
	propertyregistry "propshare/contexts/property-core/property-registry-service"
	shareledger "propshare/contexts/property-core/share-ledger-service"
	escrow "propshare/contexts/trading-core/escrow-service"
	marketplace "propshare/contexts/trading-core/marketplace-service"
	_ "propshare/internal/platform/httpserver/docs"
)

// Server exposes every platform module over one stdlib mux. The caller's
// principal arrives in the X-Principal header; the host environment is
// trusted to have resolved it.
type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	addr         string
	access       accesscontrol.Module
	registry     propertyregistry.Module
	ledger       shareledger.Module
	marketplace  marketplace.Module
	escrow       escrow.Module
	governance   governance.Module
	distribution rentaldistribution.Module
}

func New(
	access accesscontrol.Module,
	registry propertyregistry.Module,
	ledger shareledger.Module,
	marketplaceModule marketplace.Module,
	escrowModule escrow.Module,
	governanceModule governance.Module,
	distribution rentaldistribution.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         addr,
		access:       access,
		registry:     registry,
		ledger:       ledger,
		marketplace:  marketplaceModule,
		escrow:       escrowModule,
		governance:   governanceModule,
		distribution: distribution,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.registerAccessControlRoutes()
	s.registerRegistryRoutes()
	s.registerShareLedgerRoutes()
	s.registerMarketplaceRoutes()
	s.registerEscrowRoutes()
	s.registerGovernanceRoutes()
	s.registerRentalRoutes()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// resolvePrincipal reads the authenticated caller identity from the request.
func resolvePrincipal(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Principal"))
}

func parsePathUint(r *http.Request, name string) (uint64, bool) {
	value, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func parsePathUint32(r *http.Request, name string) (uint32, bool) {
	value, err := strconv.ParseUint(r.PathValue(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(value), true
}
