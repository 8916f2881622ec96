/*
Package engine provides the lease compliance calculation core.

PURPOSE:
  This package contains the pure calculation functions for lease accounting
  under ASC 842 and IFRS 16: amortization schedule generation, present-value
  discounting, and journal posting synthesis. It has no I/O, no shared state,
  and no clock dependency beyond the commencement date supplied by the caller.

KEY CONCEPTS IN THIS FILE (types.go):
  - LeaseEconomics: The immutable economic terms of a lease calculation
  - ScheduleEntry: One period of an amortization schedule
  - Standard: Which accounting standard governs the schedule mechanics
  - JournalPosting: A single debit/credit record

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Rounding at construction: Every currency field is rounded to cents when
     the entry is built, not at display time, so totals reconcile
  3. Purity: Every generation call returns a fresh, complete sequence;
     nothing is mutated in place and nothing is cached

USAGE:
  econ := engine.LeaseEconomics{
      Principal:       decimal.NewFromInt(100000),
      PeriodicPayment: decimal.NewFromInt(20000),
      TermPeriods:     5,
      DiscountRate:    decimal.NewFromFloat(0.05),
  }
  schedule, err := engine.GenerateASC842Schedule(econ)

SEE ALSO:
  - schedule.go: Schedule generation algorithms
  - presentvalue.go: Discounting functions
  - journal.go: Journal posting synthesis
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STANDARD - Accounting standard selector
// =============================================================================

type Standard string

const (
	StandardASC842 Standard = "ASC842"
	StandardIFRS16 Standard = "IFRS16"
)

// Valid reports whether the selector names a supported standard.
func (s Standard) Valid() bool {
	return s == StandardASC842 || s == StandardIFRS16
}

// =============================================================================
// LEASE ECONOMICS - Input terms for a schedule calculation
// =============================================================================

// LeaseEconomics holds the economic terms of a single calculation request.
// DiscountRate is an annual rate expressed as a fraction (0.05 = 5%).
// The percentage representation used by MonthlyPresentValue is NOT
// interchangeable with this field; callers must not mix the two.
type LeaseEconomics struct {
	Principal       decimal.Decimal
	PeriodicPayment decimal.Decimal
	TermPeriods     int
	DiscountRate    decimal.Decimal

	// CommencementDate anchors payment dates. The zero value falls back to
	// the current day, which keeps legacy callers working but lets new
	// callers pin schedules to the contract's real timeline.
	CommencementDate time.Time
}

// =============================================================================
// SCHEDULE ENTRY - One period of an amortization schedule
// =============================================================================

// ScheduleEntry is a single period of a generated schedule. All currency
// fields are rounded to 2 decimal places at construction.
type ScheduleEntry struct {
	Period      int       `json:"period"`
	PaymentDate time.Time `json:"payment_date"`

	LeasePayment     decimal.Decimal `json:"lease_payment"`
	InterestExpense  decimal.Decimal `json:"interest_expense"`
	PrincipalPayment decimal.Decimal `json:"principal_payment"`

	BeginningLiability decimal.Decimal `json:"beginning_lease_liability"`
	EndingLiability    decimal.Decimal `json:"ending_lease_liability"`

	ROUAssetValue          decimal.Decimal `json:"rou_asset_value"`
	ROUAssetAmortization   decimal.Decimal `json:"rou_asset_amortization"`
	CumulativeAmortization decimal.Decimal `json:"cumulative_amortization"`

	// Balance-sheet split of the ending liability. Zero for IFRS 16
	// schedules, which do not produce the split.
	ShortTermLiability decimal.Decimal `json:"short_term_liability"`
	LongTermLiability  decimal.Decimal `json:"long_term_liability"`

	// Running totals and standard-specific constants.
	InterestAmortized decimal.Decimal `json:"interest_amortized"`
	AccruedInterest   decimal.Decimal `json:"accrued_interest"`
	PrepaidRent       decimal.Decimal `json:"prepaid_rent"`
}

// =============================================================================
// JOURNAL POSTING - A single debit/credit record
// =============================================================================

// JournalPosting is one ledger record. Debit/credit pairs are implied by
// separate account fields on the same record; there is no multi-leg posting.
type JournalPosting struct {
	EntryDate     time.Time       `json:"entry_date"`
	Description   string          `json:"description"`
	DebitAccount  string          `json:"debit_account"`
	CreditAccount string          `json:"credit_account"`
	Amount        decimal.Decimal `json:"amount"`
	Reference     string          `json:"reference"`
}

// Ledger account names used by the synthesizer.
const (
	AccountROUAsset        = "Right-of-Use Asset"
	AccountLeaseLiability  = "Lease Liability"
	AccountCash            = "Cash"
	AccountInterestExpense = "Interest Expense"
)

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

var (
	zero   = decimal.Zero
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// roundCents rounds to 2 decimal places, the resolution of every currency
// field this package emits.
func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// clampZero floors a balance at zero. Balances never go negative; the final
// period absorbs any residual cent from rounding.
func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return zero
	}
	return d
}
