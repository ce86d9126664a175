// Package propertyregistry owns property identity and lifecycle inside the
// property-core context: creation, status changes, valuation updates, and the
// one-shot link between a property and its share ledger.
package propertyregistry
