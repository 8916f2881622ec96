package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/meridian/lease-engine/engine"
	"github.com/meridian/lease-engine/lease"
	"github.com/meridian/lease-engine/store/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testContract() lease.Contract {
	return lease.Contract{
		ID:             "contract-001",
		Name:           "Office Lease",
		Lessor:         "Meridian Properties",
		Amount:         decimal.NewFromInt(100000),
		DiscountRate:   decimal.NewFromFloat(0.05),
		LeaseTermYears: 5,
		AnnualPayment:  decimal.NewFromInt(20000),
		StartDate:      time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:      time.Date(2025, time.January, 2, 9, 30, 0, 0, time.UTC),
	}
}

// =============================================================================
// CONTRACTS
// =============================================================================

func TestStore_ContractRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateContract(ctx, testContract()))

	got, err := store.GetContract(ctx, "contract-001")
	require.NoError(t, err)

	assert.Equal(t, "Office Lease", got.Name)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(100000)), "amount must survive cent-exact")
	assert.True(t, got.DiscountRate.Equal(decimal.NewFromFloat(0.05)))
	assert.Equal(t, 5, got.LeaseTermYears)
	assert.True(t, got.StartDate.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestStore_GetContract_Missing_ReturnsNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetContract(context.Background(), "nope")

	assert.ErrorIs(t, err, sqlite.ErrNotFound)
}

func TestStore_ListContracts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c1 := testContract()
	c2 := testContract()
	c2.ID = "contract-002"
	c2.Name = "Warehouse Lease"
	require.NoError(t, store.CreateContract(ctx, c1))
	require.NoError(t, store.CreateContract(ctx, c2))

	contracts, err := store.ListContracts(ctx)
	require.NoError(t, err)
	assert.Len(t, contracts, 2)
}

// =============================================================================
// SCHEDULES
// =============================================================================

func TestStore_ScheduleRoundTrip_PreservesEntries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := testContract()
	entries, err := engine.GenerateASC842Schedule(c.Economics())
	require.NoError(t, err)

	sched := lease.Schedule{
		ContractID:   c.ID,
		Standard:     engine.StandardASC842,
		Entries:      entries,
		PresentValue: lease.PresentValueOf(entries, c.DiscountRate),
		GeneratedAt:  time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveSchedule(ctx, sched))

	got, err := store.GetSchedule(ctx, c.ID, engine.StandardASC842)
	require.NoError(t, err)
	require.Len(t, got.Entries, 5)

	assert.True(t, got.Entries[0].InterestExpense.Equal(entries[0].InterestExpense))
	assert.True(t, got.Entries[4].EndingLiability.Equal(entries[4].EndingLiability))
	assert.True(t, got.PresentValue.Equal(sched.PresentValue))
}

func TestStore_SaveSchedule_UpsertsPerStandard(t *testing.T) {
	// GIVEN: ASC 842 and IFRS 16 schedules for the same contract
	// WHEN: Saving both, then regenerating one
	// THEN: The standards are stored independently and upsert replaces

	store := newTestStore(t)
	ctx := context.Background()
	c := testContract()

	asc, err := engine.GenerateASC842Schedule(c.Economics())
	require.NoError(t, err)
	ifrs, err := engine.GenerateIFRS16Schedule(c.Economics())
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, store.SaveSchedule(ctx, lease.Schedule{
		ContractID: c.ID, Standard: engine.StandardASC842, Entries: asc,
		PresentValue: decimal.NewFromInt(1), GeneratedAt: now,
	}))
	require.NoError(t, store.SaveSchedule(ctx, lease.Schedule{
		ContractID: c.ID, Standard: engine.StandardIFRS16, Entries: ifrs,
		PresentValue: decimal.NewFromInt(2), GeneratedAt: now,
	}))
	require.NoError(t, store.SaveSchedule(ctx, lease.Schedule{
		ContractID: c.ID, Standard: engine.StandardASC842, Entries: asc,
		PresentValue: decimal.NewFromInt(3), GeneratedAt: now,
	}))

	gotASC, err := store.GetSchedule(ctx, c.ID, engine.StandardASC842)
	require.NoError(t, err)
	gotIFRS, err := store.GetSchedule(ctx, c.ID, engine.StandardIFRS16)
	require.NoError(t, err)

	assert.True(t, gotASC.PresentValue.Equal(decimal.NewFromInt(3)))
	assert.True(t, gotIFRS.PresentValue.Equal(decimal.NewFromInt(2)))
}

// =============================================================================
// PAYMENTS
// =============================================================================

func TestStore_ReplacePayments_ReplacesWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	c := testContract()

	entries, err := engine.GenerateASC842Schedule(c.Economics())
	require.NoError(t, err)

	payments := lease.PaymentsFromSchedule(c.ID, entries, time.Now().UTC())
	for i := range payments {
		payments[i].ID = fmt.Sprintf("%s-p%d", c.ID, i+1)
	}
	require.NoError(t, store.ReplacePayments(ctx, c.ID, payments))

	// Replace with a shorter set; the old rows must be gone.
	require.NoError(t, store.ReplacePayments(ctx, c.ID, payments[:2]))

	got, err := store.ListPayments(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Period)
	assert.Equal(t, 2, got[1].Period)
	assert.True(t, got[0].Amount.Equal(entries[0].LeasePayment))
}

// =============================================================================
// JOURNAL ENTRIES
// =============================================================================

func TestStore_JournalEntries_AppendAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	c := testContract()

	postings, err := engine.GenerateJournalEntries(c.JournalSource(), engine.StandardASC842,
		engine.JournalOptions{AsOf: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	now := time.Now().UTC()
	batch := make([]lease.JournalEntry, len(postings))
	for i, p := range postings {
		batch[i] = lease.JournalEntry{
			ID:         fmt.Sprintf("%s-je-%d", c.ID, i+1),
			ContractID: c.ID,
			Standard:   engine.StandardASC842,
			Posting:    p,
			CreatedAt:  now,
		}
	}
	require.NoError(t, store.AppendJournalEntries(ctx, batch))

	got, err := store.ListJournalEntries(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, engine.AccountROUAsset, got[0].Posting.DebitAccount)
	assert.Equal(t, engine.AccountCash, got[1].Posting.CreditAccount)
	assert.True(t, got[0].Posting.Amount.Equal(decimal.NewFromInt(100000)))
	assert.True(t, got[0].Posting.EntryDate.Before(got[1].Posting.EntryDate))
}
