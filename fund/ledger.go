/*
ledger.go - Reserve balance simulation

PURPOSE:
  Simulates a reserve fund forward in chronological order. The balance is
  seeded with contributions already accrued up to "now", then each
  expenditure event first collects any whole months of contribution since
  the previous event and then deducts its price. Every deduction produces
  a LedgerEntry with the balance immediately before and after, so the
  full sequence is an audit trail: the final balance is always explainable
  by replaying the rows.

CRITICAL INVARIANTS:
  1. BalanceAfter = BalanceBefore - Price, exactly, for every entry
  2. Events are processed in ascending date order regardless of input order
  3. The accrual cursor never moves backward, so same-day events never
     double-credit a month
  4. Rounding to two decimals happens at formatting time only; the running
     balance is carried at full decimal precision

FAILURE SEMANTICS:
  Negative initial cash or monthly contribution fails with
  InvalidFundParametersError before any computation. Events are expected
  to carry valid dates - resolving and skipping undated work is the
  caller's concern (see the maintenance package).

SEE ALSO:
  - date.go: WholeMonthsBetween, the shared month-difference rule
  - projection.go: Chart series built from a SimulationResult
  - errors.go: Error taxonomy
*/
package fund

import (
	"sort"
)

// =============================================================================
// EVENT / LEDGER ENTRY
// =============================================================================

// Event is one dated expenditure to simulate: a single maintenance task or
// an offer group already collapsed to one price.
type Event struct {
	Name  string
	Date  PlanDate
	Price Money
}

// LedgerEntry is one row of the simulation's audit trail.
type LedgerEntry struct {
	Name          string
	Date          PlanDate
	Price         Money
	BalanceBefore Money
	BalanceAfter  Money
}

// SimulationResult is the engine's primary output: the chronological
// ledger plus the final scalar balance and the income/expense totals the
// chart summary needs.
type SimulationResult struct {
	Ledger       []LedgerEntry
	FinalBalance Money

	// SeededBalance is the balance before any event: initial cash plus
	// contributions accrued between the fund start date and "now".
	SeededBalance Money

	// TotalIncome is every contribution credited during the simulation,
	// including the seed accrual.
	TotalIncome Money

	// TotalExpenses is the sum of all deducted prices.
	TotalExpenses Money
}

// =============================================================================
// SIMULATION
// =============================================================================

// Simulate runs the reserve projection. initialCash and
// monthlyContribution must be non-negative; fundStart is the date
// contribution accrual is measured from; now bounds the accrual that has
// already happened before any future event is processed.
//
// The input slice is not mutated; events are copied and stable-sorted by
// date, so events sharing a date keep their relative order.
func Simulate(initialCash, monthlyContribution Money, events []Event, now, fundStart PlanDate) (*SimulationResult, error) {
	if err := ValidateFundParameters(initialCash, monthlyContribution); err != nil {
		return nil, err
	}

	balance := initialCash
	income := Zero()
	expenses := Zero()

	if elapsed := WholeMonthsBetween(fundStart, now); elapsed > 0 {
		accrued := monthlyContribution.MulInt(elapsed)
		balance = balance.Add(accrued)
		income = income.Add(accrued)
	}
	seeded := balance

	ordered := make([]Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	cursor := fundStart
	ledger := make([]LedgerEntry, 0, len(ordered))

	for _, e := range ordered {
		if months := WholeMonthsBetween(cursor, e.Date); months > 0 {
			accrued := monthlyContribution.MulInt(months)
			balance = balance.Add(accrued)
			income = income.Add(accrued)
			cursor = e.Date
		}

		before := balance
		balance = balance.Sub(e.Price)
		expenses = expenses.Add(e.Price)

		ledger = append(ledger, LedgerEntry{
			Name:          e.Name,
			Date:          e.Date,
			Price:         e.Price,
			BalanceBefore: before,
			BalanceAfter:  balance,
		})
	}

	return &SimulationResult{
		Ledger:        ledger,
		FinalBalance:  balance,
		SeededBalance: seeded,
		TotalIncome:   income,
		TotalExpenses: expenses,
	}, nil
}
