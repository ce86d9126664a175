package entities

// Role is a named permission bundle a principal can hold.
type Role string

const (
	RoleAdmin           Role = "admin"
	RolePropertyManager Role = "property_manager"
	RoleKYCVerifier     Role = "kyc_verifier"
	RoleArbiter         Role = "arbiter"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePropertyManager, RoleKYCVerifier, RoleArbiter:
		return true
	default:
		return false
	}
}

// RoleGrant records that a principal holds a role.
type RoleGrant struct {
	Principal     string
	Role          Role
	GrantedBy     string
	GrantedHeight uint64
}
