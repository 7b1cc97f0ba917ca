// Package maintenance implements the recurring-maintenance-task domain on
// top of the fund engine: task templates expand into concrete occurrences,
// occurrences and offer groups resolve into priced events, and the fund
// simulator turns those events into a reserve ledger.
package maintenance

import (
	"github.com/brick/reserve-engine/fund"
)

// =============================================================================
// URGENCY
// =============================================================================

// Urgency is an ordinal priority, 1 (lowest) through 5 (highest). It is
// carried through for UI sorting and never affects simulation order.
type Urgency int

const (
	UrgencyLowest  Urgency = 1
	UrgencyLow     Urgency = 2
	UrgencyNormal  Urgency = 3
	UrgencyHigh    Urgency = 4
	UrgencyHighest Urgency = 5
)

// =============================================================================
// TASK TEMPLATE - User-authored definition of recurring work
// =============================================================================

// TaskTemplate is a recurring-work definition authored in the planning UI.
// It is consumed exactly once by Expand to produce occurrences and is not
// itself persisted as a ledger entity.
type TaskTemplate struct {
	Name        string
	Description string
	Urgency     Urgency

	// StartDate is the planned start of the first occurrence; only
	// meaningful when OfferAccepted is true.
	StartDate fund.PlanDate

	// UltimateDate is the date by which the first occurrence must happen;
	// drives recurrence stepping when no offer is accepted.
	UltimateDate fund.PlanDate

	Recurring     bool
	IntervalYears int // step between occurrences; must be positive when Recurring
	TotalYears    int // span covered by the expansion

	Cost             fund.Money // per-occurrence base cost
	InflationPercent float64    // annual cost escalation, e.g. 10 for 10%

	DurationDays int

	// RequiresOffer marks work that needs a priced offer before it can be
	// scheduled; OfferAccepted means that offer exists and StartDate is set.
	RequiresOffer bool
	OfferAccepted bool
}

// =============================================================================
// TASK OCCURRENCE - One concrete scheduled unit of work
// =============================================================================

// TaskOccurrence is one concrete unit of work, produced by Expand or
// created directly for non-recurring tasks. Occurrences are consumed,
// never mutated, by the simulator.
type TaskOccurrence struct {
	ID          string
	Name        string
	Description string
	Urgency     Urgency

	// UltimateDate is the due date; the only meaningful date before an
	// offer is accepted.
	UltimateDate fund.PlanDate

	// StartDate/EndDate bound the work window once an offer is accepted;
	// EndDate = StartDate + duration. Zero otherwise.
	StartDate fund.PlanDate
	EndDate   fund.PlanDate

	// WorkDate is the planned expenditure date the simulator keys on. The
	// zero value means unscheduled: such occurrences are silently excluded
	// from the ledger.
	WorkDate fund.PlanDate

	EstimatedCost fund.Money
	OfferPrice    *fund.Money
	InvoicePrice  *fund.Money

	OfferAccepted bool

	// GroupID links the occurrence to an OfferGroup; empty = ungrouped.
	GroupID string
}

// =============================================================================
// OFFER GROUP - A bundle of occurrences priced as a unit
// =============================================================================

// OfferGroup bundles occurrences priced together as one commercial offer.
// Membership lives on the occurrences (GroupID), not on the group.
type OfferGroup struct {
	ID   string
	Name string

	// Pricing, in effective-price precedence order: InvoicePrice when the
	// work is settled, else OfferPrice, else the sum of member estimates.
	OfferPrice   *fund.Money
	InvoicePrice *fund.Money
}

// =============================================================================
// FUND PARAMETERS
// =============================================================================

// FundParameters are the reserve inputs for one building's simulation.
type FundParameters struct {
	InitialCash         fund.Money
	MonthlyContribution fund.Money
	StartDate           fund.PlanDate
}
