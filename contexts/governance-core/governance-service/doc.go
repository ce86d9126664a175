// Package governance implements share-weighted proposal voting inside the
// governance-core context.
//
// Proposal creation is gated by a share threshold, votes lock the voter's
// shares for the voting window, and execution is gated by quorum and a simple
// majority. Vote locks are released exactly once, on the proposal's first
// terminal transition.
package governance
