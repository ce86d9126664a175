package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	registryerrors "propshare/contexts/property-core/property-registry-service/domain/errors"
	registryhttp "propshare/contexts/property-core/property-registry-service/transport/http"
)

func (s *Server) registerRegistryRoutes() {
	s.mux.HandleFunc("POST /api/registry/v1/properties", s.handleCreateProperty)
	s.mux.HandleFunc("GET /api/registry/v1/properties", s.handleListProperties)
	s.mux.HandleFunc("GET /api/registry/v1/properties/{property_id}", s.handleGetProperty)
	s.mux.HandleFunc("POST /api/registry/v1/properties/{property_id}/status", s.handleUpdateStatus)
	s.mux.HandleFunc("POST /api/registry/v1/properties/{property_id}/link-ledger", s.handleLinkLedger)
	s.mux.HandleFunc("POST /api/registry/v1/properties/{property_id}/valuation", s.handleUpdateValuation)
	s.mux.HandleFunc("POST /api/registry/v1/properties/{property_id}/manager", s.handleTransferManagement)
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req registryhttp.CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.CreatePropertyHandler(r.Context(), caller, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.ListPropertiesHandler(r.Context())
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeRegistryError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	resp, err := s.registry.Handler.GetPropertyHandler(r.Context(), propertyID)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeRegistryError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	var req registryhttp.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.registry.Handler.UpdateStatusHandler(r.Context(), caller, propertyID, req); err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleLinkLedger(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeRegistryError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	if err := s.registry.Handler.LinkShareLedgerHandler(r.Context(), caller, propertyID); err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleUpdateValuation(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeRegistryError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	var req registryhttp.UpdateValuationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.registry.Handler.UpdateValuationHandler(r.Context(), caller, propertyID, req); err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleTransferManagement(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeRegistryError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	var req registryhttp.TransferManagementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.registry.Handler.TransferManagementHandler(r.Context(), caller, propertyID, req); err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrPropertyNotFound):
		writeRegistryError(w, http.StatusNotFound, "property_not_found", err.Error())
	case errors.Is(err, registryerrors.ErrNotAuthorized):
		writeRegistryError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidPropertyData),
		errors.Is(err, registryerrors.ErrInvalidStatus):
		writeRegistryError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, registryerrors.ErrLedgerAlreadyLinked):
		writeRegistryError(w, http.StatusConflict, "ledger_already_linked", err.Error())
	default:
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{Code: code, Message: message})
}
