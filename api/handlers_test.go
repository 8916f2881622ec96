package api_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meridian/lease-engine/api"
	"github.com/meridian/lease-engine/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) http.Handler {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return api.NewRouter(api.NewHandler(store))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

// createContract posts a standard 100,000 contract and returns its ID.
func createContract(t *testing.T, router http.Handler) string {
	rec := doJSON(t, router, http.MethodPost, "/api/contracts", map[string]any{
		"name":       "Office Lease",
		"lessor":     "Meridian Properties",
		"amount":     100000,
		"start_date": "2025-01-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	dto := decode[api.ContractDTO](t, rec)
	require.NotEmpty(t, dto.ID)
	return dto.ID
}

// =============================================================================
// CONTRACT ENDPOINTS
// =============================================================================

func TestAPI_CreateAndGetContract(t *testing.T) {
	router := newTestServer(t)

	id := createContract(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/contracts/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decode[api.ContractDTO](t, rec)
	assert.Equal(t, "Office Lease", dto.Name)
	assert.Equal(t, 100000.0, dto.Amount)
	assert.Equal(t, "2025-01-01", dto.StartDate)
}

func TestAPI_CreateContract_RejectsNonPositiveAmount(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/contracts", map[string]any{
		"name":   "Broken",
		"amount": 0,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_GetContract_Missing_Returns404(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/contracts/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// SCHEDULE ENDPOINTS
// =============================================================================

func TestAPI_GenerateSchedule_ASC842_DefaultedTerms(t *testing.T) {
	// GIVEN: A contract with only an amount (rate/term/payment defaulted)
	// WHEN: Generating an ASC 842 schedule
	// THEN: 5 annual periods, first-period interest 5,000, PV persisted

	router := newTestServer(t)
	id := createContract(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/contracts/"+id+"/schedule",
		map[string]any{"standard": "ASC842"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	dto := decode[api.ScheduleDTO](t, rec)
	require.Len(t, dto.Entries, 5)
	assert.Equal(t, "ASC842", dto.Standard)
	assert.InDelta(t, 5000.00, dto.Entries[0].InterestExpense, 0.001)
	assert.InDelta(t, 15000.00, dto.Entries[0].PrincipalPayment, 0.001)
	assert.Greater(t, dto.PresentValue, 0.0)
	assert.Less(t, dto.PresentValue, 100000.0)

	// The schedule is persisted and retrievable.
	rec = doJSON(t, router, http.MethodGet, "/api/contracts/"+id+"/schedule?standard=ASC842", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decode[api.ScheduleDTO](t, rec)
	assert.Equal(t, dto.Entries, stored.Entries)
}

func TestAPI_GenerateSchedule_UnknownStandard_Returns400(t *testing.T) {
	router := newTestServer(t)
	id := createContract(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/contracts/"+id+"/schedule",
		map[string]any{"standard": "GAAP"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[api.ErrorResponse](t, rec)
	assert.Equal(t, "UnsupportedStandard", resp.Code)
}

func TestAPI_GenerateSchedule_InvalidOverride_Returns400(t *testing.T) {
	router := newTestServer(t)
	id := createContract(t, router)

	negative := -0.05
	rec := doJSON(t, router, http.MethodPost, "/api/contracts/"+id+"/schedule",
		map[string]any{"standard": "ASC842", "discount_rate": negative})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[api.ErrorResponse](t, rec)
	assert.Equal(t, "InvalidLeaseParameters", resp.Code)
}

func TestAPI_GenerateSchedule_FansOutPayments(t *testing.T) {
	// GIVEN: A generated schedule commencing 2025-01-01
	// WHEN: Listing payments
	// THEN: One record per period with due dates one year apart

	router := newTestServer(t)
	id := createContract(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/contracts/"+id+"/schedule",
		map[string]any{"standard": "ASC842"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/contracts/"+id+"/payments", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	payments := decode[[]api.PaymentDTO](t, rec)
	require.Len(t, payments, 5)
	for i, p := range payments {
		assert.Equal(t, i+1, p.Period)
		assert.InDelta(t, 20000.00, p.Amount, 0.001)
		assert.Equal(t, fmt.Sprintf("%d-01-01", 2026+i), p.DueDate)
		assert.Contains(t, []string{"Due", "Scheduled"}, p.Status)
	}
}

func TestAPI_GetSchedule_BeforeGeneration_Returns404(t *testing.T) {
	router := newTestServer(t)
	id := createContract(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/contracts/"+id+"/schedule", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// JOURNAL ENDPOINTS
// =============================================================================

func TestAPI_GenerateJournalEntries_ASC842_Legacy(t *testing.T) {
	router := newTestServer(t)
	id := createContract(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/contracts/"+id+"/journal-entries",
		map[string]any{"standard": "ASC842"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	entries := decode[[]api.JournalEntryDTO](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, "Right-of-Use Asset", entries[0].DebitAccount)
	assert.Equal(t, "Lease Liability", entries[0].CreditAccount)
	assert.InDelta(t, 100000.00, entries[0].Amount, 0.001)
	assert.Equal(t, "Lease Liability", entries[1].DebitAccount)
	assert.Equal(t, "Cash", entries[1].CreditAccount)
}

func TestAPI_GenerateJournalEntries_IFRS16_Legacy(t *testing.T) {
	router := newTestServer(t)
	id := createContract(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/contracts/"+id+"/journal-entries",
		map[string]any{"standard": "IFRS16"})
	require.Equal(t, http.StatusCreated, rec.Code)

	entries := decode[[]api.JournalEntryDTO](t, rec)
	assert.Len(t, entries, 1)
}

func TestAPI_GenerateJournalEntries_UnknownStandard_Returns400(t *testing.T) {
	router := newTestServer(t)
	id := createContract(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/contracts/"+id+"/journal-entries",
		map[string]any{"standard": "GAAP"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[api.ErrorResponse](t, rec)
	assert.Equal(t, "UnsupportedStandard", resp.Code)
}

func TestAPI_GenerateJournalEntries_PerPeriod_RequiresSchedule(t *testing.T) {
	router := newTestServer(t)
	id := createContract(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/contracts/"+id+"/journal-entries",
		map[string]any{"standard": "ASC842", "mode": "per_period"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_GenerateJournalEntries_PerPeriod_SplitsPostings(t *testing.T) {
	router := newTestServer(t)
	id := createContract(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/contracts/"+id+"/schedule",
		map[string]any{"standard": "ASC842"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/contracts/"+id+"/journal-entries",
		map[string]any{"standard": "ASC842", "mode": "per_period"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	entries := decode[[]api.JournalEntryDTO](t, rec)
	// 1 initial recognition + principal and interest per period.
	require.Len(t, entries, 11)
	assert.Equal(t, "Interest Expense", entries[2].DebitAccount)
	assert.InDelta(t, 5000.00, entries[2].Amount, 0.001)
	assert.InDelta(t, 15000.00, entries[1].Amount, 0.001)
}

// =============================================================================
// EXPORT ENDPOINT
// =============================================================================

func TestAPI_ExportSchedule_FourteenColumnLayout(t *testing.T) {
	// The column set and order are an external contract; this test pins it.

	router := newTestServer(t)
	id := createContract(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/contracts/"+id+"/schedule",
		map[string]any{"standard": "ASC842"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/contracts/"+id+"/schedule/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6, "header + 5 periods")

	assert.Equal(t, []string{
		"Period", "Payment Date", "Lease Payment", "Interest Expense",
		"Principal Payment", "Lease Liability", "ROU Asset Value",
		"ROU Asset Amortization", "Cumulative Amortization",
		"Short-term Liability", "Long-term Liability", "Interest Amortized",
		"Accrued Interest", "Prepaid Rent",
	}, records[0])

	first := records[1]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "2026-01-01", first[1])
	assert.Equal(t, "20000.00", first[2])
	assert.Equal(t, "5000.00", first[3])
	assert.Equal(t, "15000.00", first[4])
	assert.Equal(t, "85000.00", first[5])
}
