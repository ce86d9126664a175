// Package escrow implements bilateral fund and share custody inside the
// trading-core context.
//
// Two transaction shapes are supported: share purchases, where a buyer
// deposits funds and later receives shares out of custody, and property
// sales, where the buyer's deposit is released to a named seller. Records
// move through Pending, Verified, Completed, Refunded and Disputed; every
// asset movement happens on a state transition, never outside one.
package escrow
