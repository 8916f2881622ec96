/*
journal.go - Journal posting synthesis

PURPOSE:
  Translates a contract plus a schedule convention into debit/credit
  postings for initial recognition and periodic settlement. Deterministic
  mapping rules, no state, no I/O.

MODES:
  Legacy (default):
    - Initial recognition: debit ROU Asset, credit Lease Liability, full
      contract amount, dated at the anchor date.
    - ASC 842 only: one blended payment posting one month later, debit
      Lease Liability, credit Cash, for the FULL contract amount. This
      conflates principal and interest and never extends past the first
      period; it is preserved for consumers reconciled against it.
    - IFRS 16: initial recognition only.

  PerPeriod:
    - Initial recognition as above, then one principal posting and one
      interest posting per schedule entry, dated at that entry's payment
      date and carrying that period's principal and interest separately.

SEE ALSO:
  - schedule.go: Source of the per-period amounts
*/
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// OPTIONS
// =============================================================================

type JournalMode string

const (
	// JournalModeLegacy emits the original two-posting (ASC 842) or
	// one-posting (IFRS 16) shape.
	JournalModeLegacy JournalMode = "legacy"

	// JournalModePerPeriod emits a principal and an interest posting for
	// every schedule period.
	JournalModePerPeriod JournalMode = "per_period"
)

// JournalSource is the slice of a contract the synthesizer needs.
type JournalSource struct {
	ContractID   string
	ContractName string
	Amount       decimal.Decimal
}

// JournalOptions controls synthesis. The zero value selects legacy mode
// anchored at the current day.
type JournalOptions struct {
	Mode JournalMode

	// Schedule supplies per-period amounts; required for per-period mode.
	Schedule []ScheduleEntry

	// AsOf anchors the initial recognition date. Zero value means now.
	AsOf time.Time
}

// =============================================================================
// SYNTHESIS
// =============================================================================

// GenerateJournalEntries emits the posting sequence for a contract under the
// given standard. Unknown standards are rejected with ErrUnsupportedStandard
// rather than silently yielding an empty sequence.
func GenerateJournalEntries(src JournalSource, std Standard, opts JournalOptions) ([]JournalPosting, error) {
	if !std.Valid() {
		return nil, &UnsupportedStandardError{Standard: std}
	}

	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	amount := roundCents(src.Amount)

	postings := []JournalPosting{{
		EntryDate:     asOf,
		Description:   fmt.Sprintf("Initial recognition of lease: %s", src.ContractName),
		DebitAccount:  AccountROUAsset,
		CreditAccount: AccountLeaseLiability,
		Amount:        amount,
		Reference:     src.ContractID,
	}}

	switch opts.Mode {
	case JournalModePerPeriod:
		if len(opts.Schedule) == 0 {
			return nil, ErrScheduleRequired
		}
		for _, entry := range opts.Schedule {
			postings = append(postings,
				JournalPosting{
					EntryDate:     entry.PaymentDate,
					Description:   fmt.Sprintf("Lease principal payment, period %d: %s", entry.Period, src.ContractName),
					DebitAccount:  AccountLeaseLiability,
					CreditAccount: AccountCash,
					Amount:        entry.PrincipalPayment,
					Reference:     fmt.Sprintf("%s-p%d", src.ContractID, entry.Period),
				},
				JournalPosting{
					EntryDate:     entry.PaymentDate,
					Description:   fmt.Sprintf("Lease interest expense, period %d: %s", entry.Period, src.ContractName),
					DebitAccount:  AccountInterestExpense,
					CreditAccount: AccountCash,
					Amount:        entry.InterestExpense,
					Reference:     fmt.Sprintf("%s-p%d", src.ContractID, entry.Period),
				},
			)
		}
	default:
		// Legacy shape: only ASC 842 materializes a periodic posting, and
		// only the first one, blended at the full contract amount.
		if std == StandardASC842 {
			postings = append(postings, JournalPosting{
				EntryDate:     asOf.AddDate(0, 1, 0),
				Description:   fmt.Sprintf("Lease payment: %s", src.ContractName),
				DebitAccount:  AccountLeaseLiability,
				CreditAccount: AccountCash,
				Amount:        amount,
				Reference:     src.ContractID,
			})
		}
	}

	return postings, nil
}
