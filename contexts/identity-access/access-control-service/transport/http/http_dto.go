package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RoleChangeRequest struct {
	Principal string `json:"principal"`
	Role      string `json:"role"`
}

type RenounceRoleRequest struct {
	Role string `json:"role"`
}

type TransferOwnershipRequest struct {
	NewOwner string `json:"new_owner"`
}

type RoleGrantItem struct {
	Principal     string `json:"principal"`
	Role          string `json:"role"`
	GrantedBy     string `json:"granted_by"`
	GrantedHeight uint64 `json:"granted_height"`
}

type RolesResponse struct {
	Principal string          `json:"principal"`
	Roles     []RoleGrantItem `json:"roles"`
}

type CheckRoleResponse struct {
	Principal string `json:"principal"`
	Role      string `json:"role"`
	Held      bool   `json:"held"`
}

type OwnerResponse struct {
	Owner string `json:"owner"`
}
