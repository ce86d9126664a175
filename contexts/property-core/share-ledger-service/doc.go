// Package shareledger implements per-property share accounting inside the
// property-core context.
//
// The module owns one ledger row per tokenized property: balances, the KYC
// whitelist, governance share locks, and supply accounting. Conservation
// (sum of balances equals total supply) and no-overdraft are enforced by
// guards that run before any mutation. Privileged custody and locking
// operations are exposed to sibling modules only through the narrow ports
// they declare, never through bare property ids.
package shareledger
