package maintenance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brick/reserve-engine/fund"
	"github.com/brick/reserve-engine/maintenance"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func moneyPtr(v float64) *fund.Money {
	m := fund.NewMoney(v)
	return &m
}

func params(initial, monthly float64, start fund.PlanDate) maintenance.FundParameters {
	return maintenance.FundParameters{
		InitialCash:         fund.NewMoney(initial),
		MonthlyContribution: fund.NewMoney(monthly),
		StartDate:           start,
	}
}

// =============================================================================
// GROUP PRICING PRECEDENCE
// =============================================================================

func TestResolveEvents_GroupPrice_EstimateSum_Offer_Invoice(t *testing.T) {
	// GIVEN: two grouped occurrences estimated 200 + 300
	// WHEN: resolving with no group price, then an offer, then an invoice
	// THEN: the single group event prices at 500, then 400, then 450

	occurrences := []maintenance.TaskOccurrence{
		{Name: "tiles", WorkDate: fund.NewPlanDate(2025, time.June, 1), EstimatedCost: fund.NewMoney(200), GroupID: "g1"},
		{Name: "insulation", WorkDate: fund.NewPlanDate(2025, time.June, 10), EstimatedCost: fund.NewMoney(300), GroupID: "g1"},
	}
	group := maintenance.OfferGroup{ID: "g1", Name: "Roof offer"}

	events := maintenance.ResolveEvents(occurrences, []maintenance.OfferGroup{group})
	require.Len(t, events, 1)
	assert.Equal(t, "Roof offer", events[0].Name)
	assert.True(t, events[0].Price.Equal(fund.NewMoney(500)), "estimate sum = %s", events[0].Price)

	group.OfferPrice = moneyPtr(400)
	events = maintenance.ResolveEvents(occurrences, []maintenance.OfferGroup{group})
	require.Len(t, events, 1)
	assert.True(t, events[0].Price.Equal(fund.NewMoney(400)), "offer wins over estimates")

	group.InvoicePrice = moneyPtr(450)
	events = maintenance.ResolveEvents(occurrences, []maintenance.OfferGroup{group})
	require.Len(t, events, 1)
	assert.True(t, events[0].Price.Equal(fund.NewMoney(450)), "invoice wins over offer")
}

func TestResolveEvents_GroupEvent_UsesLeadMemberDate(t *testing.T) {
	// The group deducts once, on the work date of the first member in
	// supplied order, regardless of later members' dates.
	occurrences := []maintenance.TaskOccurrence{
		{Name: "second", WorkDate: fund.NewPlanDate(2025, time.June, 10), EstimatedCost: fund.NewMoney(1), GroupID: "g1"},
		{Name: "first", WorkDate: fund.NewPlanDate(2025, time.March, 1), EstimatedCost: fund.NewMoney(1), GroupID: "g1"},
	}

	events := maintenance.ResolveEvents(occurrences, nil)
	require.Len(t, events, 1)
	assert.Equal(t, "2025-06-10", events[0].Date.String())
}

func TestResolveEvents_MissingGroupRecord_FallsBackToLeadNameAndEstimates(t *testing.T) {
	occurrences := []maintenance.TaskOccurrence{
		{Name: "tiles", WorkDate: fund.NewPlanDate(2025, time.June, 1), EstimatedCost: fund.NewMoney(200), GroupID: "ghost"},
		{Name: "insulation", WorkDate: fund.NewPlanDate(2025, time.June, 2), EstimatedCost: fund.NewMoney(300), GroupID: "ghost"},
	}

	events := maintenance.ResolveEvents(occurrences, nil)
	require.Len(t, events, 1)
	assert.Equal(t, "tiles", events[0].Name)
	assert.True(t, events[0].Price.Equal(fund.NewMoney(500)))
}

// =============================================================================
// SILENT SKIP
// =============================================================================

func TestSimulate_UndatedOccurrence_SkippedWithoutTrace(t *testing.T) {
	// GIVEN: one dated occurrence and one without a work date
	// WHEN: simulating twice, with and without the undated one
	// THEN: both runs produce identical ledgers and final balances

	now := fund.NewPlanDate(2024, time.January, 1)
	p := params(10000, 0, now)

	dated := maintenance.TaskOccurrence{
		Name: "gutter", WorkDate: fund.NewPlanDate(2025, time.April, 1),
		EstimatedCost: fund.NewMoney(1200),
	}
	undated := maintenance.TaskOccurrence{
		Name: "intercom", UltimateDate: fund.NewPlanDate(2027, time.December, 31),
		EstimatedCost: fund.NewMoney(4300),
	}

	withUndated, err := maintenance.Simulate(p, now, []maintenance.TaskOccurrence{undated, dated}, nil)
	require.NoError(t, err)
	withoutUndated, err := maintenance.Simulate(p, now, []maintenance.TaskOccurrence{dated}, nil)
	require.NoError(t, err)

	require.Len(t, withUndated.Ledger, 1)
	assert.Equal(t, withoutUndated.Ledger, withUndated.Ledger)
	assert.True(t, withUndated.FinalBalance.Equal(withoutUndated.FinalBalance))
}

func TestResolveEvents_GroupWithUndatedLead_WholeBucketSkipped(t *testing.T) {
	// The lead member (first in supplied order) has no work date, so the
	// bucket contributes nothing even though a later member is dated.
	occurrences := []maintenance.TaskOccurrence{
		{Name: "lead", EstimatedCost: fund.NewMoney(100), GroupID: "g1"},
		{Name: "dated", WorkDate: fund.NewPlanDate(2025, time.June, 1), EstimatedCost: fund.NewMoney(100), GroupID: "g1"},
	}

	events := maintenance.ResolveEvents(occurrences, []maintenance.OfferGroup{{ID: "g1", Name: "Offer"}})
	assert.Empty(t, events)
}

// =============================================================================
// MIXED GROUPED / UNGROUPED INPUT
// =============================================================================

func TestSimulate_GroupedAndUngrouped_InterleaveByDate(t *testing.T) {
	now := fund.NewPlanDate(2024, time.January, 1)
	p := params(100000, 0, now)

	occurrences := []maintenance.TaskOccurrence{
		{Name: "tiles", WorkDate: fund.NewPlanDate(2025, time.June, 1), EstimatedCost: fund.NewMoney(52000), GroupID: "g1"},
		{Name: "insulation", WorkDate: fund.NewPlanDate(2025, time.June, 10), EstimatedCost: fund.NewMoney(21000), GroupID: "g1"},
		{Name: "chimney", WorkDate: fund.NewPlanDate(2025, time.March, 20), EstimatedCost: fund.NewMoney(1800)},
	}
	groups := []maintenance.OfferGroup{{ID: "g1", Name: "Roof renovation", OfferPrice: moneyPtr(68000)}}

	result, err := maintenance.Simulate(p, now, occurrences, groups)
	require.NoError(t, err)
	require.Len(t, result.Ledger, 2)

	// The ungrouped March task precedes the June group event.
	assert.Equal(t, "chimney", result.Ledger[0].Name)
	assert.Equal(t, "Roof renovation", result.Ledger[1].Name)
	assert.True(t, result.Ledger[1].Price.Equal(fund.NewMoney(68000)))
	assert.True(t, result.FinalBalance.Equal(fund.NewMoney(100000-1800-68000)))
}

func TestSimulate_UngroupedOccurrence_UsesOwnPricePrecedence(t *testing.T) {
	now := fund.NewPlanDate(2024, time.January, 1)
	p := params(5000, 0, now)

	occ := maintenance.TaskOccurrence{
		Name:          "boiler",
		WorkDate:      fund.NewPlanDate(2025, time.September, 1),
		EstimatedCost: fund.NewMoney(950),
		OfferPrice:    moneyPtr(900),
		InvoicePrice:  moneyPtr(912.50),
	}

	result, err := maintenance.Simulate(p, now, []maintenance.TaskOccurrence{occ}, nil)
	require.NoError(t, err)
	require.Len(t, result.Ledger, 1)
	assert.True(t, result.Ledger[0].Price.Equal(fund.NewMoney(912.50)))
}

// =============================================================================
// VALIDATION AND DETERMINISM
// =============================================================================

func TestSimulate_InvalidParameters_FailBeforeResolution(t *testing.T) {
	now := fund.NewPlanDate(2024, time.January, 1)
	p := params(-1, 100, now)

	result, err := maintenance.Simulate(p, now, nil, nil)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, fund.ErrInvalidFundParameters)
}

func TestSimulate_Deterministic(t *testing.T) {
	now := fund.NewPlanDate(2024, time.January, 1)
	p := params(10000, 300, now)
	occurrences := []maintenance.TaskOccurrence{
		{Name: "a", WorkDate: fund.NewPlanDate(2025, time.June, 1), EstimatedCost: fund.NewMoney(700), GroupID: "g"},
		{Name: "b", WorkDate: fund.NewPlanDate(2025, time.June, 1), EstimatedCost: fund.NewMoney(300), GroupID: "g"},
		{Name: "c", WorkDate: fund.NewPlanDate(2026, time.January, 1), EstimatedCost: fund.NewMoney(400)},
	}

	first, err := maintenance.Simulate(p, now, occurrences, nil)
	require.NoError(t, err)
	second, err := maintenance.Simulate(p, now, occurrences, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
