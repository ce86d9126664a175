package unit

import (
	"context"
	"testing"

	rentaldistribution "propshare/contexts/finance-core/rental-distribution-service"
	rentalentities "propshare/contexts/finance-core/rental-distribution-service/domain/entities"
	governance "propshare/contexts/governance-core/governance-service"
	accesscontrol "propshare/contexts/identity-access/access-control-service"
	accesshttp "propshare/contexts/identity-access/access-control-service/transport/http"
	propertyregistry "propshare/contexts/property-core/property-registry-service"
	shareledger "propshare/contexts/property-core/share-ledger-service"
	ledgerhttp "propshare/contexts/property-core/share-ledger-service/transport/http"
	escrowservice "propshare/contexts/trading-core/escrow-service"
	marketplace "propshare/contexts/trading-core/marketplace-service"
	"propshare/internal/app/bootstrap"
	"propshare/internal/platform/chain"
	"propshare/internal/shared/funds"
)

const (
	platformOwner = "platform-treasury"

	marketFeeBps       = uint64(250)
	votingPeriodBlocks = uint64(100)
	quorumBps          = uint64(2000)
	thresholdBps       = uint64(100)
	managementFeeBps   = uint64(800)
	platformFeeBps     = uint64(200)
	maintenanceBps     = uint64(500)
)

// platform wires every module against one height counter and one funds
// ledger, mirroring the composition root.
type platform struct {
	heights  *chain.Counter
	money    *funds.Ledger
	access   accesscontrol.Module
	registry propertyregistry.Module
	ledger   shareledger.Module
	market   marketplace.Module
	escrow   escrowservice.Module
	gov      governance.Module
	rental   rentaldistribution.Module
}

func newPlatform(t *testing.T) *platform {
	t.Helper()

	heights := chain.NewCounter(1)
	money := funds.NewLedger()

	access := accesscontrol.NewInMemoryModule(platformOwner, heights, nil)
	registry := propertyregistry.NewInMemoryModule(access.Service, heights, nil)
	ledger := shareledger.NewInMemoryModule(access.Service, heights, bootstrap.GovernancePrincipal, nil)

	market := marketplace.NewInMemoryModule(
		ledger.Service, money, access.Service, heights,
		marketFeeBps, bootstrap.MarketplaceCustody, bootstrap.MarketplaceFees, nil,
	)
	escrowModule := escrowservice.NewInMemoryModule(
		ledger.Service, money, access.Service, heights,
		bootstrap.EscrowCustody, platformOwner, nil,
	)
	gov := governance.NewInMemoryModule(
		bootstrap.NewGovernanceLedger(ledger.Service, bootstrap.GovernancePrincipal),
		access.Service, heights,
		votingPeriodBlocks, quorumBps, thresholdBps, nil,
	)
	rental := rentaldistribution.NewInMemoryModule(
		ledger.Service, money, access.Service, heights,
		rentalentities.FeeStructure{
			ManagementFeeBps:      managementFeeBps,
			PlatformFeeBps:        platformFeeBps,
			MaintenanceReserveBps: maintenanceBps,
		},
		bootstrap.DistributionCustody, nil,
	)

	return &platform{
		heights:  heights,
		money:    money,
		access:   access,
		registry: registry,
		ledger:   ledger,
		market:   market,
		escrow:   escrowModule,
		gov:      gov,
		rental:   rental,
	}
}

// initLedger creates a ledger for the property with the platform owner as
// treasury and a minimum investment of 1.
func (p *platform) initLedger(t *testing.T, propertyID uint64, totalShares uint64) {
	t.Helper()
	_, err := p.ledger.Handler.InitializeHandler(context.Background(), platformOwner, ledgerhttp.InitializeLedgerRequest{
		PropertyID:    propertyID,
		Name:          "Test Property",
		Symbol:        "TPROP",
		TotalShares:   totalShares,
		MinInvestment: 1,
	})
	if err != nil {
		t.Fatalf("initialize ledger failed: %v", err)
	}
}

// fundInvestor whitelists the principal and moves shares from the treasury.
func (p *platform) fundInvestor(t *testing.T, propertyID uint64, principal string, shares uint64) {
	t.Helper()
	p.whitelist(t, propertyID, principal)
	if shares == 0 {
		return
	}
	err := p.ledger.Handler.TransferHandler(context.Background(), platformOwner, propertyID, ledgerhttp.TransferRequest{
		Sender:    platformOwner,
		Recipient: principal,
		Amount:    shares,
	})
	if err != nil {
		t.Fatalf("seed transfer to %s failed: %v", principal, err)
	}
}

func (p *platform) whitelist(t *testing.T, propertyID uint64, principal string) {
	t.Helper()
	err := p.ledger.Handler.AddToWhitelistHandler(context.Background(), platformOwner, propertyID, ledgerhttp.WhitelistRequest{
		Principal: principal,
	})
	if err != nil {
		t.Fatalf("whitelist %s failed: %v", principal, err)
	}
}

func (p *platform) grantRole(t *testing.T, principal string, role string) {
	t.Helper()
	err := p.access.Handler.GrantRoleHandler(context.Background(), platformOwner, accesshttp.RoleChangeRequest{
		Principal: principal,
		Role:      role,
	})
	if err != nil {
		t.Fatalf("grant role %s to %s failed: %v", role, principal, err)
	}
}

func (p *platform) balance(t *testing.T, propertyID uint64, principal string) uint64 {
	t.Helper()
	balance, err := p.ledger.Service.BalanceOf(context.Background(), propertyID, principal)
	if err != nil {
		t.Fatalf("balance of %s failed: %v", principal, err)
	}
	return balance
}

func (p *platform) fundsBalance(t *testing.T, account string) uint64 {
	t.Helper()
	balance, err := p.money.Balance(context.Background(), account)
	if err != nil {
		t.Fatalf("funds balance of %s failed: %v", account, err)
	}
	return balance
}
