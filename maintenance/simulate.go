/*
simulate.go - Domain wrapper around the fund simulator

PURPOSE:
  Turns heterogeneous planning data (grouped and ungrouped occurrences,
  possibly unsorted, possibly undated) into the flat priced events the
  fund engine simulates. This is where the silent-skip policy lives:
  anything without a resolvable work date contributes neither a deduction
  nor a ledger row and never advances the accrual cursor.

BUCKETING:
  Occurrences partition by GroupID. Ungrouped occurrences are each their
  own event, in supplied order. A grouped bucket collapses to ONE event:
  the group's effective price at the work date of the bucket's first
  member in supplied order - if that lead date is missing, the entire
  bucket is skipped.

SEE ALSO:
  - fund/ledger.go: The chronological simulation itself
  - pricing.go: Effective-price precedence
*/
package maintenance

import (
	"github.com/brick/reserve-engine/fund"
)

// =============================================================================
// SIMULATION ENTRY POINT
// =============================================================================

// Simulate resolves occurrences and groups into events and runs the
// reserve projection. Negative fund parameters fail before any event
// resolution or ledger computation.
func Simulate(params FundParameters, now fund.PlanDate, occurrences []TaskOccurrence, groups []OfferGroup) (*fund.SimulationResult, error) {
	if err := fund.ValidateFundParameters(params.InitialCash, params.MonthlyContribution); err != nil {
		return nil, err
	}

	events := ResolveEvents(occurrences, groups)
	return fund.Simulate(params.InitialCash, params.MonthlyContribution, events, now, params.StartDate)
}

// =============================================================================
// EVENT RESOLUTION
// =============================================================================

// ResolveEvents flattens occurrences and groups into priced, dated events.
// Undated occurrences and groups whose lead member is undated are dropped
// here, before the simulator ever sees them.
func ResolveEvents(occurrences []TaskOccurrence, groups []OfferGroup) []fund.Event {
	groupsByID := make(map[string]OfferGroup, len(groups))
	for _, g := range groups {
		groupsByID[g.ID] = g
	}

	// Bucket grouped occurrences, preserving first-seen group order and
	// supplied member order within each bucket.
	members := make(map[string][]TaskOccurrence)
	var groupOrder []string

	events := make([]fund.Event, 0, len(occurrences))

	for _, occ := range occurrences {
		if occ.GroupID == "" {
			if occ.WorkDate.IsZero() {
				continue
			}
			events = append(events, fund.Event{
				Name:  occ.Name,
				Date:  occ.WorkDate,
				Price: occ.EffectivePrice(),
			})
			continue
		}

		if _, seen := members[occ.GroupID]; !seen {
			groupOrder = append(groupOrder, occ.GroupID)
		}
		members[occ.GroupID] = append(members[occ.GroupID], occ)
	}

	for _, id := range groupOrder {
		bucket := members[id]
		lead := bucket[0]
		if lead.WorkDate.IsZero() {
			continue
		}

		group, ok := groupsByID[id]
		name := group.Name
		if !ok || name == "" {
			name = lead.Name
		}

		events = append(events, fund.Event{
			Name:  name,
			Date:  lead.WorkDate,
			Price: group.EffectivePrice(bucket),
		})
	}

	return events
}
