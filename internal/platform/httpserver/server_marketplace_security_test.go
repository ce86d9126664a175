package httpserver

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMarketplaceCreateOrderRequiresPrincipalHeader(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"property_id":1,"quantity":10,"price_per_share":100,"expiration_height":50}`)
	req := httptest.NewRequest(http.MethodPost, "/api/marketplace/v1/orders/sell", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMarketplaceSetFeeRejectsNonAdmin(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/marketplace/v1/fee", bytes.NewReader([]byte(`{"fee_bps":100}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Principal", "mallory")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMarketplaceUnknownOrderReturnsNotFound(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/marketplace/v1/orders/99", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMarketplaceFillRequiresWhitelistedCaller(t *testing.T) {
	server := newTestServer()

	init := []byte(`{"property_id":1,"name":"Harbor","symbol":"HBR","total_shares":1000,"min_investment":1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/ledger/v1/ledgers", bytes.NewReader(init))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Principal", "platform-treasury")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("ledger init: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	order := []byte(`{"property_id":1,"quantity":10,"price_per_share":100,"expiration_height":50}`)
	req = httptest.NewRequest(http.MethodPost, "/api/marketplace/v1/orders/sell", bytes.NewReader(order))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Principal", "platform-treasury")
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create order: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/marketplace/v1/orders/1/fill-sell", nil)
	req.Header.Set("X-Principal", "outsider")
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("fill: expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}
