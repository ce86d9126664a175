package httpserver

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	rentaldistribution "propshare/contexts/finance-core/rental-distribution-service"
	rentalentities "propshare/contexts/finance-core/rental-distribution-service/domain/entities"
	governance "propshare/contexts/governance-core/governance-service"
	accesscontrol "propshare/contexts/identity-access/access-control-service"
	propertyregistry "propshare/contexts/property-core/property-registry-service"
	shareledger "propshare/contexts/property-core/share-ledger-service"
	ledgerapp "propshare/contexts/property-core/share-ledger-service/application"
	escrowservice "propshare/contexts/trading-core/escrow-service"
	marketplace "propshare/contexts/trading-core/marketplace-service"
	"propshare/internal/platform/chain"
	"propshare/internal/shared/funds"
)

// testGovernanceLedger binds the governance principal as lock authority, the
// same shape the composition root uses.
type testGovernanceLedger struct {
	ledger ledgerapp.Service
}

func (g testGovernanceLedger) BalanceOf(ctx context.Context, propertyID uint64, principal string) (uint64, error) {
	return g.ledger.BalanceOf(ctx, propertyID, principal)
}

func (g testGovernanceLedger) TotalSupply(ctx context.Context, propertyID uint64) (uint64, error) {
	return g.ledger.TotalSupply(ctx, propertyID)
}

func (g testGovernanceLedger) LockShares(ctx context.Context, propertyID uint64, principal string, amount uint64) error {
	return g.ledger.LockShares(ctx, "governance-module", propertyID, principal, amount)
}

func (g testGovernanceLedger) UnlockShares(ctx context.Context, propertyID uint64, principal string, amount uint64) error {
	return g.ledger.UnlockShares(ctx, "governance-module", propertyID, principal, amount)
}

func newTestServer() *Server {
	heights := chain.NewCounter(1)
	money := funds.NewLedger()
	access := accesscontrol.NewInMemoryModule("platform-treasury", heights, slog.Default())
	registry := propertyregistry.NewInMemoryModule(access.Service, heights, slog.Default())
	ledger := shareledger.NewInMemoryModule(access.Service, heights, "governance-module", slog.Default())
	market := marketplace.NewInMemoryModule(ledger.Service, money, access.Service, heights, 250, "marketplace-custody", "marketplace-fees", slog.Default())
	escrowModule := escrowservice.NewInMemoryModule(ledger.Service, money, access.Service, heights, "escrow-custody", "platform-treasury", slog.Default())
	gov := governance.NewInMemoryModule(testGovernanceLedger{ledger: ledger.Service}, access.Service, heights, 100, 2000, 100, slog.Default())
	rental := rentaldistribution.NewInMemoryModule(ledger.Service, money, access.Service, heights, rentalentities.FeeStructure{}, "distribution-custody", slog.Default())

	return New(access, registry, ledger, market, escrowModule, gov, rental, slog.Default(), ":0")
}

func TestLedgerInitializeRequiresPrincipalHeader(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"property_id":1,"name":"Harbor","symbol":"HBR","total_shares":1000}`)
	req := httptest.NewRequest(http.MethodPost, "/api/ledger/v1/ledgers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLedgerInitializeRejectsNonAdmin(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"property_id":1,"name":"Harbor","symbol":"HBR","total_shares":1000}`)
	req := httptest.NewRequest(http.MethodPost, "/api/ledger/v1/ledgers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Principal", "mallory")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLedgerUnknownPropertyReturnsNotFound(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/ledger/v1/ledgers/42", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLedgerTransferRejectsMalformedBody(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/ledger/v1/ledgers/1/transfer", bytes.NewReader([]byte(`not-json`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Principal", "platform-treasury")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}
