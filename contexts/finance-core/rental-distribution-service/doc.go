// Package rentaldistribution implements proportional rental-income payouts
// inside the finance-core context.
//
// A property manager deposits one gross income amount per (property, year,
// month) period; fees come off the top by basis points and the remainder is
// claimable by investors in proportion to their live share balance. Claims
// store a cumulative baseline, so repeat claims pay only what the investor's
// current balance newly entitles them to.
package rentaldistribution
