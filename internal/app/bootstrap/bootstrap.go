package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"time"

	rentaldistribution "propshare/contexts/finance-core/rental-distribution-service"
	rentalpostgres "propshare/contexts/finance-core/rental-distribution-service/adapters/postgres"
	rentalentities "propshare/contexts/finance-core/rental-distribution-service/domain/entities"
	governance "propshare/contexts/governance-core/governance-service"
	govpostgres "propshare/contexts/governance-core/governance-service/adapters/postgres"
	govworkers "propshare/contexts/governance-core/governance-service/application/workers"
	govports "propshare/contexts/governance-core/governance-service/ports"
	accesscontrol "propshare/contexts/identity-access/access-control-service"
	accesspostgres "propshare/contexts/identity-access/access-control-service/adapters/postgres"
	propertyregistry "propshare/contexts/property-core/property-registry-service"
	registrypostgres "propshare/contexts/property-core/property-registry-service/adapters/postgres"
	shareledger "propshare/contexts/property-core/share-ledger-service"
	ledgerpostgres "propshare/contexts/property-core/share-ledger-service/adapters/postgres"
	ledgerapp "propshare/contexts/property-core/share-ledger-service/application"
	escrow "propshare/contexts/trading-core/escrow-service"
	escrowpostgres "propshare/contexts/trading-core/escrow-service/adapters/postgres"
	escrowworkers "propshare/contexts/trading-core/escrow-service/application/workers"
	escrowports "propshare/contexts/trading-core/escrow-service/ports"
	marketplace "propshare/contexts/trading-core/marketplace-service"
	marketpostgres "propshare/contexts/trading-core/marketplace-service/adapters/postgres"
	marketworkers "propshare/contexts/trading-core/marketplace-service/application/workers"
	marketports "propshare/contexts/trading-core/marketplace-service/ports"
	"propshare/internal/platform/chain"
	"propshare/internal/platform/config"
	"propshare/internal/platform/db"
	"propshare/internal/platform/httpserver"
	"propshare/internal/platform/messaging"
	"propshare/internal/shared/funds"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

// Platform-level principals and custody accounts. Custody accounts hold assets
// in flight; no external principal can spend from them.
const (
	GovernancePrincipal = "governance-module"
	MarketplaceCustody  = "marketplace-custody"
	MarketplaceFees     = "marketplace-fees"
	EscrowCustody       = "escrow-custody"
	DistributionCustody = "distribution-custody"
)

// Modules aggregates the wired platform modules behind one handle.
type Modules struct {
	Access       accesscontrol.Module
	Registry     propertyregistry.Module
	Ledger       shareledger.Module
	Marketplace  marketplace.Module
	Escrow       escrow.Module
	Governance   governance.Module
	Distribution rentaldistribution.Module
}

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	runners      []runner
	pollInterval time.Duration
	logger       *slog.Logger
}

type runner interface {
	RunOnce(ctx context.Context) error
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	heights := chain.NewCounter(1)
	money := funds.NewLedger()

	modules, pg, err := buildModules(cfg, heights, money, logger)
	if err != nil {
		return nil, err
	}

	server := httpserver.New(
		modules.Access,
		modules.Registry,
		modules.Ledger,
		modules.Marketplace,
		modules.Escrow,
		modules.Governance,
		modules.Distribution,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{server: server, postgres: pg, logger: logger}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	heights := chain.NewCounter(1)
	money := funds.NewLedger()

	modules, pg, err := buildModules(cfg, heights, money, logger)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		if pg != nil {
			_ = pg.Close()
		}
		return nil, err
	}

	var runners []runner
	if cfg.EnableOrderExpirer {
		runners = append(runners, modules.Marketplace.OrderExpirer)
	}
	if cfg.EnableEscrowExpirer {
		runners = append(runners, modules.Escrow.Expirer)
	}
	if cfg.EnableProposalCloser {
		runners = append(runners, modules.Governance.Closer)
	}
	if cfg.EnableOutboxRelay {
		runners = append(runners,
			marketworkers.OutboxRelay{
				Outbox:    outboxRepo(modules.Marketplace, pg, logger),
				Publisher: kafka,
				BatchSize: 100,
				Logger:    logger,
			},
			escrowworkers.OutboxRelay{
				Outbox:    escrowOutboxRepo(modules.Escrow, pg, logger),
				Publisher: kafka,
				BatchSize: 100,
				Logger:    logger,
			},
			govworkers.OutboxRelay{
				Outbox:    governanceOutboxRepo(modules.Governance, pg, logger),
				Publisher: kafka,
				BatchSize: 100,
				Logger:    logger,
			},
		)
	}

	return &WorkerApp{
		postgres:     pg,
		runners:      runners,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

// buildModules wires all seven modules against one heights source and one
// funds ledger. With a Postgres DSN, module state persists through gorm
// repositories; otherwise everything runs on in-memory stores.
func buildModules(cfg config.Config, heights *chain.Counter, money *funds.Ledger, logger *slog.Logger) (Modules, *db.Postgres, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		modules := buildInMemoryModules(cfg, heights, money, logger)
		return modules, nil, nil
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return Modules{}, nil, err
	}

	accessRepo := accesspostgres.NewRepository(pg.DB, logger)
	if err := accessRepo.EnsureOwner(context.Background(), cfg.PlatformOwner); err != nil {
		_ = pg.Close()
		return Modules{}, nil, err
	}
	accessModule := accesscontrol.NewModule(accesscontrol.Dependencies{
		Repository: accessRepo,
		Heights:    heights,
		Logger:     logger,
	})

	registryModule := propertyregistry.NewModule(propertyregistry.Dependencies{
		Repository: registrypostgres.NewRepository(pg.DB, logger),
		Access:     accessModule.Service,
		Heights:    heights,
		Logger:     logger,
	})

	ledgerModule := shareledger.NewModule(shareledger.Dependencies{
		Repository:    ledgerpostgres.NewRepository(pg.DB, logger),
		Access:        accessModule.Service,
		Heights:       heights,
		LockAuthority: GovernancePrincipal,
		Logger:        logger,
	})

	marketRepo := marketpostgres.NewRepository(pg.DB, logger)
	marketModule := marketplace.NewModule(marketplace.Dependencies{
		Orders:         marketRepo,
		Ledger:         ledgerModule.Service,
		Funds:          money,
		Access:         accessModule.Service,
		Heights:        heights,
		Outbox:         marketRepo,
		IDGen:          marketpostgres.UUIDGenerator{},
		CustodyAccount: MarketplaceCustody,
		FeeAccount:     MarketplaceFees,
		Logger:         logger,
	})

	escrowRepo := escrowpostgres.NewRepository(pg.DB, logger)
	escrowModule := escrow.NewModule(escrow.Dependencies{
		Repository:      escrowRepo,
		Ledger:          ledgerModule.Service,
		Funds:           money,
		Access:          accessModule.Service,
		Heights:         heights,
		Outbox:          escrowRepo,
		IDGen:           escrowpostgres.UUIDGenerator{},
		CustodyAccount:  EscrowCustody,
		PlatformAccount: cfg.PlatformOwner,
		Logger:          logger,
	})

	govRepo := govpostgres.NewRepository(pg.DB, logger)
	govModule := governance.NewModule(governance.Dependencies{
		Repository:         govRepo,
		Ledger:             governanceLedger{ledger: ledgerModule.Service, principal: GovernancePrincipal},
		Access:             accessModule.Service,
		Heights:            heights,
		Outbox:             govRepo,
		IDGen:              govpostgres.UUIDGenerator{},
		VotingPeriodBlocks: cfg.VotingPeriodBlocks,
		QuorumBps:          cfg.QuorumBps,
		ThresholdBps:       cfg.ProposalThresholdBps,
		Logger:             logger,
	})

	fees := rentalentities.FeeStructure{
		ManagementFeeBps:      cfg.ManagementFeeBps,
		PlatformFeeBps:        cfg.PlatformFeeBps,
		MaintenanceReserveBps: cfg.MaintenanceReserveBps,
	}
	rentalModule := rentaldistribution.NewModule(rentaldistribution.Dependencies{
		Repository:     rentalpostgres.NewRepository(pg.DB, fees, logger),
		Ledger:         ledgerModule.Service,
		Funds:          money,
		Access:         accessModule.Service,
		Heights:        heights,
		CustodyAccount: DistributionCustody,
		Logger:         logger,
	})

	return Modules{
		Access:       accessModule,
		Registry:     registryModule,
		Ledger:       ledgerModule,
		Marketplace:  marketModule,
		Escrow:       escrowModule,
		Governance:   govModule,
		Distribution: rentalModule,
	}, pg, nil
}

func buildInMemoryModules(cfg config.Config, heights *chain.Counter, money *funds.Ledger, logger *slog.Logger) Modules {
	accessModule := accesscontrol.NewInMemoryModule(cfg.PlatformOwner, heights, logger)
	registryModule := propertyregistry.NewInMemoryModule(accessModule.Service, heights, logger)
	ledgerModule := shareledger.NewInMemoryModule(accessModule.Service, heights, GovernancePrincipal, logger)

	marketModule := marketplace.NewInMemoryModule(
		ledgerModule.Service, money, accessModule.Service, heights,
		cfg.MarketplaceFeeBps, MarketplaceCustody, MarketplaceFees, logger,
	)
	escrowModule := escrow.NewInMemoryModule(
		ledgerModule.Service, money, accessModule.Service, heights,
		EscrowCustody, cfg.PlatformOwner, logger,
	)
	govModule := governance.NewInMemoryModule(
		governanceLedger{ledger: ledgerModule.Service, principal: GovernancePrincipal},
		accessModule.Service, heights,
		cfg.VotingPeriodBlocks, cfg.QuorumBps, cfg.ProposalThresholdBps, logger,
	)
	rentalModule := rentaldistribution.NewInMemoryModule(
		ledgerModule.Service, money, accessModule.Service, heights,
		rentalentities.FeeStructure{
			ManagementFeeBps:      cfg.ManagementFeeBps,
			PlatformFeeBps:        cfg.PlatformFeeBps,
			MaintenanceReserveBps: cfg.MaintenanceReserveBps,
		},
		DistributionCustody, logger,
	)

	return Modules{
		Access:       accessModule,
		Registry:     registryModule,
		Ledger:       ledgerModule,
		Marketplace:  marketModule,
		Escrow:       escrowModule,
		Governance:   govModule,
		Distribution: rentalModule,
	}
}

// NewGovernanceLedger exposes the lock-authority binding for alternate
// wirings and tests.
func NewGovernanceLedger(ledger ledgerapp.Service, principal string) govports.ShareLedger {
	return governanceLedger{ledger: ledger, principal: principal}
}

// governanceLedger binds the governance principal as the lock authority on
// the share ledger's lock primitive.
type governanceLedger struct {
	ledger    ledgerapp.Service
	principal string
}

func (g governanceLedger) BalanceOf(ctx context.Context, propertyID uint64, principal string) (uint64, error) {
	return g.ledger.BalanceOf(ctx, propertyID, principal)
}

func (g governanceLedger) TotalSupply(ctx context.Context, propertyID uint64) (uint64, error) {
	return g.ledger.TotalSupply(ctx, propertyID)
}

func (g governanceLedger) LockShares(ctx context.Context, propertyID uint64, principal string, amount uint64) error {
	return g.ledger.LockShares(ctx, g.principal, propertyID, principal, amount)
}

func (g governanceLedger) UnlockShares(ctx context.Context, propertyID uint64, principal string, amount uint64) error {
	return g.ledger.UnlockShares(ctx, g.principal, propertyID, principal, amount)
}

// outboxRepo resolves the worker-side outbox source for the marketplace: the
// postgres repository when persistence is wired, the module store otherwise.
func outboxRepo(module marketplace.Module, pg *db.Postgres, logger *slog.Logger) marketports.OutboxRepository {
	if pg != nil {
		return marketpostgres.NewRepository(pg.DB, logger)
	}
	return module.Store
}

func escrowOutboxRepo(module escrow.Module, pg *db.Postgres, logger *slog.Logger) escrowports.OutboxRepository {
	if pg != nil {
		return escrowpostgres.NewRepository(pg.DB, logger)
	}
	return module.Store
}

func governanceOutboxRepo(module governance.Module, pg *db.Postgres, logger *slog.Logger) govports.OutboxRepository {
	if pg != nil {
		return govpostgres.NewRepository(pg.DB, logger)
	}
	return module.Store
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"runner_count", len(w.runners),
		"poll_interval", w.pollInterval.String(),
	)

	for {
		for _, r := range w.runners {
			if err := r.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
