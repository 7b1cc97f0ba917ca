package fund

import (
	"time"
)

// =============================================================================
// PLAN DATE - Day-granularity calendar date
// =============================================================================

// PlanDate is a calendar date without a time-of-day component. The zero
// value means "no date", which is how unscheduled work is represented
// throughout the engine.
type PlanDate struct {
	Time time.Time
}

const dateLayout = "2006-01-02"

// Constructors
func NewPlanDate(year int, month time.Month, day int) PlanDate {
	return PlanDate{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Today() PlanDate {
	now := time.Now()
	return NewPlanDate(now.Year(), now.Month(), now.Day())
}

// ParsePlanDate parses a YYYY-MM-DD string. Anything unparseable yields the
// zero PlanDate - missing and malformed dates are deliberately equivalent,
// since both mean the work is not scheduled yet.
func ParsePlanDate(s string) PlanDate {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return PlanDate{}
	}
	return PlanDate{Time: t.UTC()}
}

// Comparison
func (d PlanDate) Before(other PlanDate) bool { return d.normalize().Before(other.normalize()) }
func (d PlanDate) Equal(other PlanDate) bool  { return d.normalize().Equal(other.normalize()) }
func (d PlanDate) After(other PlanDate) bool  { return d.normalize().After(other.normalize()) }

func (d PlanDate) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d PlanDate) AddDays(n int) PlanDate  { return PlanDate{Time: d.Time.AddDate(0, 0, n)} }
func (d PlanDate) AddYears(n int) PlanDate { return PlanDate{Time: d.Time.AddDate(n, 0, 0)} }

// Properties
func (d PlanDate) Year() int         { return d.Time.Year() }
func (d PlanDate) Month() time.Month { return d.Time.Month() }
func (d PlanDate) Day() int          { return d.Time.Day() }
func (d PlanDate) IsZero() bool      { return d.Time.IsZero() }

func (d PlanDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(dateLayout)
}

// =============================================================================
// MONTH ARITHMETIC
// =============================================================================

// WholeMonthsBetween returns the number of complete months from 'from' to
// 'to'. The raw month difference is decremented by one when to's day of
// month precedes from's, so a partial month is never counted. This single
// implementation backs both contribution accrual seeding and event-to-event
// accrual, keeping the two consistent.
//
// The result is negative when 'to' precedes 'from' by more than a partial
// month; callers credit contributions only for positive results.
func WholeMonthsBetween(from, to PlanDate) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	return months
}
