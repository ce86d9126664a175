// Package marketplace implements peer-to-peer share trading inside the
// trading-core context.
//
// Sell orders escrow shares into marketplace custody at creation; buy orders
// escrow funds. Fills settle all legs (shares, proceeds, platform fee) behind
// guards that run before the first movement, so a failed fill moves nothing.
// Order lifecycle events are appended to the module outbox and relayed by the
// worker process.
package marketplace
