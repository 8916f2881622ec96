/*
presentvalue.go - Discounting functions

PURPOSE:
  Present value of a stream of future cash flows. Used for initial
  recognition of the lease liability and for sizing schedules.

RATE UNITS:
  Two representations exist and are NOT interchangeable:
  - PresentValue takes a fractional periodic rate (0.05 = 5% per period)
  - MonthlyPresentValue takes an annual percentage (3.5 = 3.5% per year)
    and discounts monthly
  The rate and the period indices must always be in matching units.

SEE ALSO:
  - schedule.go: Consumers feed schedule payments back through PresentValue
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// PRESENT VALUE - Core discounting
// =============================================================================

// PresentValue accumulates cf / (1+rate)^n for each cash flow. periods
// supplies the exponent per cash flow; when nil or short, the exponent
// defaults to the 1-based position. Pure and total: an empty stream returns
// zero, a rate of exactly -1 returns zero (the discount base collapses and
// there is no finite value to report), and no other validation is performed
// on rate sign - callers own input sanity (the schedule façades validate
// before reaching here).
func PresentValue(cashFlows []decimal.Decimal, rate decimal.Decimal, periods []int) decimal.Decimal {
	pv := zero
	base := one.Add(rate)
	if base.IsZero() {
		return zero
	}
	for i, cf := range cashFlows {
		n := i + 1
		if i < len(periods) {
			n = periods[i]
		}
		discount := base.Pow(decimal.NewFromInt(int64(n)))
		pv = pv.Add(cf.Div(discount))
	}
	return pv
}

// MonthlyPresentValue discounts a constant monthly payment over termMonths
// at annualRatePercent expressed as a percentage (3.5 = 3.5%). The rate is
// converted to a fractional monthly rate before discounting.
func MonthlyPresentValue(monthlyPayment decimal.Decimal, annualRatePercent decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 {
		return zero
	}
	monthlyRate := annualRatePercent.Div(decimal.NewFromInt(100)).Div(twelve)
	cashFlows := make([]decimal.Decimal, termMonths)
	for i := range cashFlows {
		cashFlows[i] = monthlyPayment
	}
	return PresentValue(cashFlows, monthlyRate, nil)
}

// AnnuityPayment returns the constant periodic payment that fully amortizes
// principal over termPeriods at the given fractional periodic rate. With a
// zero rate this degenerates to straight division.
func AnnuityPayment(principal, rate decimal.Decimal, termPeriods int) decimal.Decimal {
	if termPeriods <= 0 {
		return zero
	}
	n := decimal.NewFromInt(int64(termPeriods))
	if rate.IsZero() {
		return principal.Div(n)
	}
	// principal * rate / (1 - (1+rate)^-n)
	factor := one.Div(one.Add(rate).Pow(n))
	return principal.Mul(rate).Div(one.Sub(factor))
}
