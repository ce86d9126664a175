package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	accesserrors "propshare/contexts/identity-access/access-control-service/domain/errors"
	accesshttp "propshare/contexts/identity-access/access-control-service/transport/http"
)

func (s *Server) registerAccessControlRoutes() {
	s.mux.HandleFunc("POST /api/access/v1/roles/grant", s.handleGrantRole)
	s.mux.HandleFunc("POST /api/access/v1/roles/revoke", s.handleRevokeRole)
	s.mux.HandleFunc("POST /api/access/v1/roles/renounce", s.handleRenounceRole)
	s.mux.HandleFunc("POST /api/access/v1/ownership/transfer", s.handleTransferOwnership)
	s.mux.HandleFunc("GET /api/access/v1/principals/{principal}/roles", s.handleListRoles)
	s.mux.HandleFunc("GET /api/access/v1/principals/{principal}/roles/{role}", s.handleCheckRole)
	s.mux.HandleFunc("GET /api/access/v1/owner", s.handleOwner)
}

func (s *Server) handleGrantRole(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeAccessError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req accesshttp.RoleChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.access.Handler.GrantRoleHandler(r.Context(), caller, req); err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleRevokeRole(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeAccessError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req accesshttp.RoleChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.access.Handler.RevokeRoleHandler(r.Context(), caller, req); err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleRenounceRole(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeAccessError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req accesshttp.RenounceRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.access.Handler.RenounceRoleHandler(r.Context(), caller, req); err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeAccessError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req accesshttp.TransferOwnershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.access.Handler.TransferOwnershipHandler(r.Context(), caller, req); err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	resp, err := s.access.Handler.ListRolesHandler(r.Context(), r.PathValue("principal"))
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckRole(w http.ResponseWriter, r *http.Request) {
	resp, err := s.access.Handler.CheckRoleHandler(r.Context(), r.PathValue("principal"), r.PathValue("role"))
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOwner(w http.ResponseWriter, r *http.Request) {
	resp, err := s.access.Handler.OwnerHandler(r.Context())
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAccessDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accesserrors.ErrNotAuthorized),
		errors.Is(err, accesserrors.ErrNotOwner):
		writeAccessError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, accesserrors.ErrOwnerAdminProtected):
		writeAccessError(w, http.StatusForbidden, "owner_admin_protected", err.Error())
	case errors.Is(err, accesserrors.ErrInvalidPrincipal),
		errors.Is(err, accesserrors.ErrUnknownRole):
		writeAccessError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, accesserrors.ErrAlreadyHasRole),
		errors.Is(err, accesserrors.ErrDoesNotHaveRole):
		writeAccessError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeAccessError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAccessError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, accesshttp.ErrorResponse{Code: code, Message: message})
}
