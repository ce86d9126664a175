package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	marketerrors "propshare/contexts/trading-core/marketplace-service/domain/errors"
	markethttp "propshare/contexts/trading-core/marketplace-service/transport/http"
)

func (s *Server) registerMarketplaceRoutes() {
	s.mux.HandleFunc("POST /api/marketplace/v1/orders/sell", s.handleCreateSellOrder)
	s.mux.HandleFunc("POST /api/marketplace/v1/orders/buy", s.handleCreateBuyOrder)
	s.mux.HandleFunc("POST /api/marketplace/v1/orders/{order_id}/fill-sell", s.handleFillSellOrder)
	s.mux.HandleFunc("POST /api/marketplace/v1/orders/{order_id}/fill-buy", s.handleFillBuyOrder)
	s.mux.HandleFunc("POST /api/marketplace/v1/orders/{order_id}/cancel", s.handleCancelOrder)
	s.mux.HandleFunc("GET /api/marketplace/v1/orders/{order_id}", s.handleGetOrder)
	s.mux.HandleFunc("GET /api/marketplace/v1/properties/{property_id}/orders", s.handleOpenOrders)
	s.mux.HandleFunc("GET /api/marketplace/v1/properties/{property_id}/stats", s.handleMarketStats)
	s.mux.HandleFunc("POST /api/marketplace/v1/fee", s.handleSetPlatformFee)
	s.mux.HandleFunc("GET /api/marketplace/v1/fee", s.handlePlatformFee)
	s.mux.HandleFunc("POST /api/marketplace/v1/fee/withdraw", s.handleWithdrawPlatformFees)
}

func (s *Server) handleCreateSellOrder(w http.ResponseWriter, r *http.Request) {
	s.handleCreateOrder(w, r, s.marketplace.Handler.CreateSellOrderHandler)
}

func (s *Server) handleCreateBuyOrder(w http.ResponseWriter, r *http.Request) {
	s.handleCreateOrder(w, r, s.marketplace.Handler.CreateBuyOrderHandler)
}

func (s *Server) handleCreateOrder(
	w http.ResponseWriter,
	r *http.Request,
	create func(ctx context.Context, caller string, req markethttp.CreateOrderRequest) (markethttp.OrderResponse, error),
) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeMarketError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req markethttp.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := create(r.Context(), caller, req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleFillSellOrder(w http.ResponseWriter, r *http.Request) {
	s.handleOrderAction(w, r, s.marketplace.Handler.FillSellOrderHandler)
}

func (s *Server) handleFillBuyOrder(w http.ResponseWriter, r *http.Request) {
	s.handleOrderAction(w, r, s.marketplace.Handler.FillBuyOrderHandler)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	s.handleOrderAction(w, r, s.marketplace.Handler.CancelOrderHandler)
}

func (s *Server) handleOrderAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, caller string, orderID uint64) (markethttp.OrderResponse, error),
) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeMarketError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	orderID, ok := parsePathUint(r, "order_id")
	if !ok {
		writeMarketError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be an integer")
		return
	}
	resp, err := action(r.Context(), caller, orderID)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parsePathUint(r, "order_id")
	if !ok {
		writeMarketError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be an integer")
		return
	}
	resp, err := s.marketplace.Handler.GetOrderHandler(r.Context(), orderID)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOpenOrders(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeMarketError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	resp, err := s.marketplace.Handler.OpenOrdersHandler(r.Context(), propertyID)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarketStats(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeMarketError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	resp, err := s.marketplace.Handler.MarketStatsHandler(r.Context(), propertyID)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetPlatformFee(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeMarketError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req markethttp.PlatformFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.marketplace.Handler.SetPlatformFeeHandler(r.Context(), caller, req); err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handlePlatformFee(w http.ResponseWriter, r *http.Request) {
	resp, err := s.marketplace.Handler.PlatformFeeHandler(r.Context())
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWithdrawPlatformFees(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeMarketError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	resp, err := s.marketplace.Handler.WithdrawPlatformFeesHandler(r.Context(), caller)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeMarketDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, marketerrors.ErrOrderNotFound):
		writeMarketError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, marketerrors.ErrNotAuthorized):
		writeMarketError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, marketerrors.ErrNotWhitelisted):
		writeMarketError(w, http.StatusForbidden, "not_whitelisted", err.Error())
	case errors.Is(err, marketerrors.ErrOrderNotOpen),
		errors.Is(err, marketerrors.ErrOrderExpired),
		errors.Is(err, marketerrors.ErrWrongOrderType):
		writeMarketError(w, http.StatusConflict, "order_not_fillable", err.Error())
	case errors.Is(err, marketerrors.ErrInvalidOrderInput),
		errors.Is(err, marketerrors.ErrInvalidExpiration),
		errors.Is(err, marketerrors.ErrFeeTooHigh):
		writeMarketError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, marketerrors.ErrInsufficientFunds):
		writeMarketError(w, http.StatusUnprocessableEntity, "insufficient_funds", err.Error())
	case errors.Is(err, marketerrors.ErrNothingToWithdraw):
		writeMarketError(w, http.StatusUnprocessableEntity, "nothing_to_withdraw", err.Error())
	default:
		writeMarketError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeMarketError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, markethttp.ErrorResponse{Code: code, Message: message})
}
