// Package accesscontrol implements platform role management inside the
// identity-access context.
//
// The module owns role grants and revocations (admin, property manager, KYC
// verifier, arbiter), the immutable-owner safeguard, and ownership transfer.
// Every other module consults it for authorization through a narrow port.
package accesscontrol
