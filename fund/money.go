/*
Package fund provides the core reserve-fund projection engine.

PURPOSE:
  This package contains the domain-agnostic types and algorithms for
  simulating a cash reserve forward in time: a fixed monthly contribution
  accrues between expenditure events, each event deducts its price, and
  every deduction is recorded as an auditable ledger row with the balance
  immediately before and after.

KEY CONCEPTS IN THIS FILE (money.go):
  - Money: A monetary amount with fixed-point decimal semantics

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point drift across
     many compounding steps
  2. Late rounding: Amounts are carried at full precision; two-decimal
     rounding happens only at formatting time
  3. Immutability: Money values are never mutated, operations return new values

USAGE:
  price := fund.NewMoney(1250.50)
  total := price.Add(fund.NewMoneyFromInt(100))
  fmt.Println(total) // "1350.50"

SEE ALSO:
  - date.go: Calendar date type and whole-month arithmetic
  - ledger.go: Simulation producing LedgerEntry rows
  - projection.go: Chart series derived from a simulation
*/
package fund

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Monetary amount with fixed-point decimal semantics
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int) Money {
	return Money{Value: decimal.NewFromInt(int64(value))}
}

func Zero() Money {
	return Money{Value: decimal.Zero}
}

// ParseMoney parses a decimal string. Malformed input yields zero rather
// than an error, matching permissive upstream form handling.
func ParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero()
	}
	return Money{Value: d}
}

func (m Money) Add(o Money) Money          { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money          { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) Mul(s decimal.Decimal) Money { return Money{Value: m.Value.Mul(s)} }
func (m Money) MulInt(n int) Money         { return Money{Value: m.Value.Mul(decimal.NewFromInt(int64(n)))} }
func (m Money) Neg() Money                 { return Money{Value: m.Value.Neg()} }
func (m Money) IsNegative() bool           { return m.Value.IsNegative() }
func (m Money) IsZero() bool               { return m.Value.IsZero() }
func (m Money) IsPositive() bool           { return m.Value.IsPositive() }
func (m Money) Equal(o Money) bool         { return m.Value.Equal(o.Value) }
func (m Money) GreaterThan(o Money) bool   { return m.Value.GreaterThan(o.Value) }
func (m Money) LessThan(o Money) bool      { return m.Value.LessThan(o.Value) }

// Round2 returns the amount rounded to cents. Used when an amount leaves
// the engine (occurrence costs, DTO conversion), never mid-accumulation.
func (m Money) Round2() Money { return Money{Value: m.Value.Round(2)} }

// Float64 returns the amount rounded to two decimals as a float, for JSON
// responses where the UI expects numbers with two fractional digits.
func (m Money) Float64() float64 {
	f, _ := m.Value.Round(2).Float64()
	return f
}

// String formats with exactly two fractional digits, e.g. "1210.00".
func (m Money) String() string { return m.Value.StringFixed(2) }
