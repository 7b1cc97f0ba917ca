/*
recurrence.go - Template expansion into concrete occurrences

PURPOSE:
  Materializes the full set of future occurrences from a TaskTemplate.
  Recurrence steps by the template's interval across its total span, and
  the per-occurrence cost escalates by the annual inflation rate once per
  calendar-year crossing.

INFLATION RULE:
  The running cost multiplies by (1 + rate/100) whenever a step's computed
  date lands in a later calendar year than the previous step's. It
  compounds per year crossing, not per occurrence, so two occurrences in
  the same year never double-apply inflation. The check is driven purely
  by calendar year, never day-of-month.

DATE STEPPING:
  With an accepted offer the START date advances by the interval and the
  due date derives as start + duration. Without one the ULTIMATE date
  advances directly and no start/end window exists.

SEE ALSO:
  - types.go: TaskTemplate, TaskOccurrence
  - fund/errors.go: InvalidTemplateError
*/
package maintenance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/brick/reserve-engine/fund"
)

var hundred = decimal.NewFromInt(100)

// =============================================================================
// RECURRENCE EXPANSION
// =============================================================================

// Expand materializes a template into concrete occurrences in ascending
// chronological order. A recurring template with a non-positive interval
// fails with InvalidTemplateError; all other malformed numeric fields
// default to zero rather than failing, matching permissive form input.
// A total span of zero yields an empty slice, not an error.
func Expand(t TaskTemplate) ([]TaskOccurrence, error) {
	if !t.Recurring {
		return []TaskOccurrence{makeOccurrence(t, 0, t.StartDate, t.UltimateDate, t.Cost)}, nil
	}

	if t.IntervalYears <= 0 {
		return nil, &fund.InvalidTemplateError{Name: t.Name, IntervalYears: t.IntervalYears}
	}

	totalYears := t.TotalYears
	if totalYears < 0 {
		totalYears = 0
	}
	duration := t.DurationDays
	if duration < 0 {
		duration = 0
	}

	inflation := decimal.NewFromInt(1).Add(decimal.NewFromFloat(t.InflationPercent).Div(hundred))
	cost := t.Cost

	start := t.StartDate
	ultimate := t.UltimateDate

	occurrences := make([]TaskOccurrence, 0, (totalYears+t.IntervalYears-1)/t.IntervalYears)
	previousYear := 0

	for i := 0; i < totalYears; i += t.IntervalYears {
		var due fund.PlanDate
		if t.OfferAccepted {
			if i > 0 {
				start = start.AddYears(t.IntervalYears)
			}
			due = start.AddDays(duration)
		} else {
			if i > 0 {
				ultimate = ultimate.AddYears(t.IntervalYears)
			}
			due = ultimate
		}

		if i == 0 {
			previousYear = due.Year()
		} else if due.Year() > previousYear {
			cost = cost.Mul(inflation)
			previousYear = due.Year()
		}

		occurrences = append(occurrences, makeOccurrence(t, i, start, due, cost))
	}

	return occurrences, nil
}

// makeOccurrence builds one occurrence for a template step. Only an
// accepted offer yields a start/end window; otherwise the ultimate date is
// the sole meaningful date. The emitted cost is rounded to cents; the
// caller's running cost stays at full precision.
func makeOccurrence(t TaskTemplate, step int, start, due fund.PlanDate, cost fund.Money) TaskOccurrence {
	occ := TaskOccurrence{
		ID:            fmt.Sprintf("%s#%d", t.Name, step),
		Name:          t.Name,
		Description:   t.Description,
		Urgency:       t.Urgency,
		UltimateDate:  due,
		EstimatedCost: cost.Round2(),
		OfferAccepted: t.OfferAccepted,
	}
	if t.OfferAccepted {
		duration := t.DurationDays
		if duration < 0 {
			duration = 0
		}
		occ.StartDate = start
		occ.EndDate = start.AddDays(duration)
		occ.WorkDate = start
	}
	return occ
}
