/*
handlers.go - HTTP API handlers for the lease compliance system

PURPOSE:
  Exposes the calculation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine and
  store. The engine stays pure; everything stateful happens here.

ENDPOINTS:
  Contracts:
    GET    /api/contracts                     List all contracts
    POST   /api/contracts                     Create contract
    GET    /api/contracts/{id}                Get contract details

  Schedules:
    POST   /api/contracts/{id}/schedule       Generate + persist a schedule
    GET    /api/contracts/{id}/schedule       Get persisted schedule
    GET    /api/contracts/{id}/schedule/export  CSV export (ASC 842 layout)
    GET    /api/contracts/{id}/payments       Fanned-out payment records

  Journal:
    POST   /api/contracts/{id}/journal-entries  Synthesize + persist postings
    GET    /api/contracts/{id}/journal-entries  List persisted postings

REQUEST FLOW:
  1. Parse HTTP request
  2. Load contract, apply defaulted assumptions
  3. Call the engine
  4. Persist results, serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid lease parameters, unsupported standard, bad input
  - 404: Contract or schedule not found
  - 500: Storage failures

SEE ALSO:
  - dto.go: Request/response data structures
  - export.go: CSV flattening
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meridian/lease-engine/engine"
	"github.com/meridian/lease-engine/lease"
	"github.com/meridian/lease-engine/store/sqlite"
	"github.com/shopspring/decimal"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store, now: func() time.Time { return time.Now().UTC() }}
}

// =============================================================================
// CONTRACT HANDLERS
// =============================================================================

// ListContracts returns all contracts.
func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.Store.ListContracts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list contracts", err)
		return
	}

	dtos := make([]ContractDTO, len(contracts))
	for i, c := range contracts {
		dtos[i] = toContractDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateContract creates a contract record.
func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var req CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Contract name is required", nil)
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "Contract amount must be positive", nil)
		return
	}

	startDate := h.now()
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD", err)
			return
		}
		startDate = parsed
	}

	c := lease.Contract{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Lessor:         req.Lessor,
		Amount:         decimal.NewFromFloat(req.Amount),
		DiscountRate:   decimal.NewFromFloat(req.DiscountRate),
		LeaseTermYears: req.LeaseTermYears,
		AnnualPayment:  decimal.NewFromFloat(req.AnnualPayment),
		StartDate:      startDate,
		CreatedAt:      h.now(),
	}

	if err := h.Store.CreateContract(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create contract", err)
		return
	}
	writeJSON(w, http.StatusCreated, toContractDTO(c))
}

// GetContract returns a single contract.
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadContract(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toContractDTO(c))
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// GenerateSchedule generates and persists an amortization schedule for a
// contract, computes its present value, and fans out payment records.
func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadContract(w, r)
	if !ok {
		return
	}

	var req GenerateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Request-level overrides win over stored terms; stored terms win over
	// defaults.
	if req.DiscountRate != nil {
		c.DiscountRate = decimal.NewFromFloat(*req.DiscountRate)
	}
	if req.LeaseTermYears != nil {
		c.LeaseTermYears = *req.LeaseTermYears
	}
	if req.AnnualPayment != nil {
		c.AnnualPayment = decimal.NewFromFloat(*req.AnnualPayment)
	}
	c = c.WithDefaults()

	std := engine.Standard(req.Standard)
	entries, err := engine.GenerateSchedule(c.Economics(), std)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	sched := lease.Schedule{
		ContractID:   c.ID,
		Standard:     std,
		Entries:      entries,
		PresentValue: lease.PresentValueOf(entries, c.DiscountRate),
		GeneratedAt:  h.now(),
	}
	if err := h.Store.SaveSchedule(r.Context(), sched); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist schedule", err)
		return
	}

	payments := lease.PaymentsFromSchedule(c.ID, entries, h.now())
	for i := range payments {
		payments[i].ID = uuid.NewString()
	}
	if err := h.Store.ReplacePayments(r.Context(), c.ID, payments); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist payments", err)
		return
	}

	writeJSON(w, http.StatusCreated, toScheduleDTO(sched))
}

// GetSchedule returns the persisted schedule for a contract+standard.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	sched, ok := h.loadSchedule(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toScheduleDTO(sched))
}

// ListPayments returns a contract's fanned-out payment records.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "id")
	payments, err := h.Store.ListPayments(r.Context(), contractID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTOs(payments))
}

// =============================================================================
// JOURNAL HANDLERS
// =============================================================================

// GenerateJournalEntries synthesizes postings for a contract under a
// standard and persists them as an append-only batch.
func (h *Handler) GenerateJournalEntries(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadContract(w, r)
	if !ok {
		return
	}

	var req GenerateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	std := engine.Standard(req.Standard)
	if !std.Valid() {
		writeEngineError(w, &engine.UnsupportedStandardError{Standard: std})
		return
	}
	opts := engine.JournalOptions{AsOf: h.now()}

	if req.Mode == string(engine.JournalModePerPeriod) {
		// Per-period synthesis draws amounts from the persisted schedule.
		sched, err := h.Store.GetSchedule(r.Context(), c.ID, std)
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusBadRequest,
				"Per-period journal entries require a generated schedule", err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load schedule", err)
			return
		}
		opts.Mode = engine.JournalModePerPeriod
		opts.Schedule = sched.Entries
	}

	postings, err := engine.GenerateJournalEntries(c.JournalSource(), std, opts)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	now := h.now()
	batch := make([]lease.JournalEntry, len(postings))
	for i, p := range postings {
		batch[i] = lease.JournalEntry{
			ID:         uuid.NewString(),
			ContractID: c.ID,
			Standard:   std,
			Posting:    p,
			CreatedAt:  now,
		}
	}
	if err := h.Store.AppendJournalEntries(r.Context(), batch); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist journal entries", err)
		return
	}

	writeJSON(w, http.StatusCreated, toJournalEntryDTOs(batch))
}

// ListJournalEntries returns a contract's persisted postings.
func (h *Handler) ListJournalEntries(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "id")
	entries, err := h.Store.ListJournalEntries(r.Context(), contractID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list journal entries", err)
		return
	}
	writeJSON(w, http.StatusOK, toJournalEntryDTOs(entries))
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

func (h *Handler) loadContract(w http.ResponseWriter, r *http.Request) (lease.Contract, bool) {
	id := chi.URLParam(r, "id")
	c, err := h.Store.GetContract(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Contract not found", nil)
		return lease.Contract{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load contract", err)
		return lease.Contract{}, false
	}
	return c, true
}

func (h *Handler) loadSchedule(w http.ResponseWriter, r *http.Request) (lease.Schedule, bool) {
	contractID := chi.URLParam(r, "id")
	std := engine.Standard(r.URL.Query().Get("standard"))
	if std == "" {
		std = engine.StandardASC842
	}
	if !std.Valid() {
		writeError(w, http.StatusBadRequest, "Unsupported accounting standard",
			&engine.UnsupportedStandardError{Standard: std})
		return lease.Schedule{}, false
	}

	sched, err := h.Store.GetSchedule(r.Context(), contractID, std)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Schedule not found; generate it first", nil)
		return lease.Schedule{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load schedule", err)
		return lease.Schedule{}, false
	}
	return sched, true
}

// writeEngineError maps engine failures to HTTP statuses: caller mistakes
// are 400s, anything else is a 500.
func writeEngineError(w http.ResponseWriter, err error) {
	code := ""
	switch {
	case errors.Is(err, engine.ErrUnsupportedStandard):
		code = "UnsupportedStandard"
	case errors.Is(err, engine.ErrInvalidLeaseParameters):
		code = "InvalidLeaseParameters"
	}
	if engine.IsClientError(err) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: code})
		return
	}
	writeError(w, http.StatusInternalServerError, "Calculation failed", err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
