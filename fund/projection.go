/*
projection.go - Chart series derived from a simulation

PURPOSE:
  The planning UI renders the reserve balance as a time series. This file
  turns a SimulationResult into parallel labels/balances slices plus the
  income/expense summary, the shape the projection endpoint serializes.

SERIES SHAPE:
  The first point is "now" with the seeded balance, followed by one point
  per ledger entry carrying the balance after that deduction. A ledger of
  N entries therefore yields N+1 points.

SEE ALSO:
  - ledger.go: SimulationResult
  - api package: JSON serialization of the projection
*/
package fund

// =============================================================================
// PROJECTION - Time series + summary for the UI
// =============================================================================

type Projection struct {
	Labels        []string
	Balances      []Money
	Ledger        []LedgerEntry
	TotalIncome   Money
	TotalExpenses Money
	FinalBalance  Money
}

// Project builds the chart series for a completed simulation. now is the
// label for the seed point.
func Project(result *SimulationResult, now PlanDate) *Projection {
	labels := make([]string, 0, len(result.Ledger)+1)
	balances := make([]Money, 0, len(result.Ledger)+1)

	labels = append(labels, now.String())
	balances = append(balances, result.SeededBalance)

	for _, entry := range result.Ledger {
		labels = append(labels, entry.Date.String())
		balances = append(balances, entry.BalanceAfter)
	}

	return &Projection{
		Labels:        labels,
		Balances:      balances,
		Ledger:        result.Ledger,
		TotalIncome:   result.TotalIncome,
		TotalExpenses: result.TotalExpenses,
		FinalBalance:  result.FinalBalance,
	}
}
