/*
Package lease holds the contract domain model around the calculation engine.

PURPOSE:
  Bridges persisted contract records and the pure engine: applies the caller
  conventions for defaulted assumptions, converts contracts into engine
  inputs, and fans generated schedules out into per-period payment records.

DEFAULTS (applied when a field is unset):
  DiscountRate   0.05
  LeaseTermYears 5
  AnnualPayment  Amount / LeaseTermYears

  Note that the defaulted payment does NOT fully amortize the liability at a
  non-zero rate; callers that want a zero final balance should size the
  payment with engine.AnnuityPayment.

SEE ALSO:
  - engine: The pure calculation core
  - store/sqlite: Persistence for contracts, schedules, payments, postings
*/
package lease

import (
	"time"

	"github.com/meridian/lease-engine/engine"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CONTRACT - Persisted lease terms
// =============================================================================

const (
	DefaultDiscountRate   = 0.05
	DefaultLeaseTermYears = 5
)

// Contract is a persisted lease agreement. Amount is the initial liability /
// asset value; the remaining economic fields may be zero and are defaulted
// at calculation time by WithDefaults.
type Contract struct {
	ID             string
	Name           string
	Lessor         string
	Amount         decimal.Decimal
	DiscountRate   decimal.Decimal
	LeaseTermYears int
	AnnualPayment  decimal.Decimal
	StartDate      time.Time
	CreatedAt      time.Time
}

// WithDefaults returns a copy with unset economic assumptions filled in
// per the caller convention.
func (c Contract) WithDefaults() Contract {
	if c.DiscountRate.IsZero() {
		c.DiscountRate = decimal.NewFromFloat(DefaultDiscountRate)
	}
	if c.LeaseTermYears == 0 {
		c.LeaseTermYears = DefaultLeaseTermYears
	}
	if c.AnnualPayment.IsZero() && c.LeaseTermYears > 0 {
		c.AnnualPayment = c.Amount.Div(decimal.NewFromInt(int64(c.LeaseTermYears)))
	}
	return c
}

// Economics converts the contract into engine input. Defaults are applied
// first so a bare contract with only an amount still produces a schedule.
func (c Contract) Economics() engine.LeaseEconomics {
	d := c.WithDefaults()
	return engine.LeaseEconomics{
		Principal:        d.Amount,
		PeriodicPayment:  d.AnnualPayment,
		TermPeriods:      d.LeaseTermYears,
		DiscountRate:     d.DiscountRate,
		CommencementDate: d.StartDate,
	}
}

// JournalSource exposes the contract slice the journal synthesizer consumes.
func (c Contract) JournalSource() engine.JournalSource {
	return engine.JournalSource{
		ContractID:   c.ID,
		ContractName: c.Name,
		Amount:       c.Amount,
	}
}

// =============================================================================
// SCHEDULE - A persisted generation result
// =============================================================================

// Schedule is a generated amortization schedule persisted against a
// contract, together with the present value of its payment stream.
type Schedule struct {
	ContractID   string
	Standard     engine.Standard
	Entries      []engine.ScheduleEntry
	PresentValue decimal.Decimal
	GeneratedAt  time.Time
}

// PresentValueOf discounts a schedule's payment stream at the given
// fractional annual rate, feeding each entry's payment and 1-based period
// through the engine's discounting core.
func PresentValueOf(entries []engine.ScheduleEntry, rate decimal.Decimal) decimal.Decimal {
	cashFlows := make([]decimal.Decimal, len(entries))
	periods := make([]int, len(entries))
	for i, e := range entries {
		cashFlows[i] = e.LeasePayment
		periods[i] = e.Period
	}
	return engine.PresentValue(cashFlows, rate, periods)
}

// =============================================================================
// PAYMENT - Per-period fan-out from a schedule
// =============================================================================

type PaymentStatus string

const (
	PaymentStatusDue       PaymentStatus = "Due"
	PaymentStatusScheduled PaymentStatus = "Scheduled"
)

// Payment is one per-period payment record derived from a schedule entry.
type Payment struct {
	ID         string
	ContractID string
	Period     int
	Amount     decimal.Decimal
	DueDate    time.Time
	Status     PaymentStatus
}

// PaymentsFromSchedule derives one payment record per schedule entry.
// Payments whose due date has passed asOf are marked Due, the rest
// Scheduled. IDs are assigned by the caller at persistence time.
func PaymentsFromSchedule(contractID string, entries []engine.ScheduleEntry, asOf time.Time) []Payment {
	payments := make([]Payment, len(entries))
	for i, e := range entries {
		status := PaymentStatusScheduled
		if e.PaymentDate.Before(asOf) {
			status = PaymentStatusDue
		}
		payments[i] = Payment{
			ContractID: contractID,
			Period:     e.Period,
			Amount:     e.LeasePayment,
			DueDate:    e.PaymentDate,
			Status:     status,
		}
	}
	return payments
}

// =============================================================================
// JOURNAL ENTRY - A persisted posting
// =============================================================================

// JournalEntry is a persisted engine.JournalPosting with identity and the
// standard it was generated under.
type JournalEntry struct {
	ID         string
	ContractID string
	Standard   engine.Standard
	Posting    engine.JournalPosting
	CreatedAt  time.Time
}
