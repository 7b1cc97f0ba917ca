package maintenance

import (
	"github.com/brick/reserve-engine/fund"
)

// =============================================================================
// PRICING RESOLUTION
// =============================================================================
// Two mutually exclusive strategies: an occurrence inside a group never
// prices itself - the group does, for all members at once.

// EffectivePrice resolves a single ungrouped occurrence's price with
// strict precedence: invoice price, else offer price, else estimate.
func (o TaskOccurrence) EffectivePrice() fund.Money {
	if o.InvoicePrice != nil {
		return *o.InvoicePrice
	}
	if o.OfferPrice != nil {
		return *o.OfferPrice
	}
	return o.EstimatedCost
}

// EffectivePrice resolves a group's price for its members with strict
// precedence: invoice price, else offer price, else the sum of the member
// occurrences' estimates.
func (g OfferGroup) EffectivePrice(members []TaskOccurrence) fund.Money {
	if g.InvoicePrice != nil {
		return *g.InvoicePrice
	}
	if g.OfferPrice != nil {
		return *g.OfferPrice
	}
	sum := fund.Zero()
	for _, m := range members {
		sum = sum.Add(m.EstimatedCost)
	}
	return sum
}
