/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

CURRENCY FIELDS:
  DTOs carry currency as float64 for JSON ergonomics. The values were
  rounded to cents by the engine before they ever reach a DTO, so the
  float conversion is lossless at this resolution.

SEE ALSO:
  - handlers.go: Uses these types
  - lease: Domain types being converted
*/
package api

import (
	"time"

	"github.com/meridian/lease-engine/engine"
	"github.com/meridian/lease-engine/lease"
	"github.com/shopspring/decimal"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ContractDTO represents a contract in API responses.
type ContractDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Lessor         string  `json:"lessor,omitempty"`
	Amount         float64 `json:"amount"`
	DiscountRate   float64 `json:"discount_rate"`
	LeaseTermYears int     `json:"lease_term_years"`
	AnnualPayment  float64 `json:"annual_payment"`
	StartDate      string  `json:"start_date"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

// CreateContractRequest is the request to create a contract. Economic
// assumptions left at zero are defaulted at calculation time.
type CreateContractRequest struct {
	Name           string  `json:"name"`
	Lessor         string  `json:"lessor"`
	Amount         float64 `json:"amount"`
	DiscountRate   float64 `json:"discount_rate"`
	LeaseTermYears int     `json:"lease_term_years"`
	AnnualPayment  float64 `json:"annual_payment"`
	StartDate      string  `json:"start_date"` // ISO date; empty = today
}

// GenerateScheduleRequest selects the standard and optional overrides.
type GenerateScheduleRequest struct {
	Standard       string   `json:"standard"`
	DiscountRate   *float64 `json:"discount_rate,omitempty"`
	LeaseTermYears *int     `json:"lease_term_years,omitempty"`
	AnnualPayment  *float64 `json:"annual_payment,omitempty"`
}

// ScheduleEntryDTO is one period of a schedule in API responses.
type ScheduleEntryDTO struct {
	Period                 int     `json:"period"`
	PaymentDate            string  `json:"payment_date"`
	LeasePayment           float64 `json:"lease_payment"`
	InterestExpense        float64 `json:"interest_expense"`
	PrincipalPayment       float64 `json:"principal_payment"`
	BeginningLiability     float64 `json:"beginning_lease_liability"`
	EndingLiability        float64 `json:"ending_lease_liability"`
	ROUAssetValue          float64 `json:"rou_asset_value"`
	ROUAssetAmortization   float64 `json:"rou_asset_amortization"`
	CumulativeAmortization float64 `json:"cumulative_amortization"`
	ShortTermLiability     float64 `json:"short_term_liability"`
	LongTermLiability      float64 `json:"long_term_liability"`
	InterestAmortized      float64 `json:"interest_amortized"`
	AccruedInterest        float64 `json:"accrued_interest"`
	PrepaidRent            float64 `json:"prepaid_rent"`
}

// ScheduleDTO is a generated schedule plus its present value.
type ScheduleDTO struct {
	ContractID   string             `json:"contract_id"`
	Standard     string             `json:"standard"`
	PresentValue float64            `json:"present_value"`
	GeneratedAt  string             `json:"generated_at"`
	Entries      []ScheduleEntryDTO `json:"entries"`
}

// PaymentDTO is one fanned-out payment record.
type PaymentDTO struct {
	ID         string  `json:"id"`
	ContractID string  `json:"contract_id"`
	Period     int     `json:"period"`
	Amount     float64 `json:"amount"`
	DueDate    string  `json:"due_date"`
	Status     string  `json:"status"`
}

// GenerateJournalRequest selects the standard and posting mode.
type GenerateJournalRequest struct {
	Standard string `json:"standard"`
	// Mode "per_period" splits principal and interest per schedule period;
	// empty or "legacy" keeps the original two-posting shape.
	Mode string `json:"mode,omitempty"`
}

// JournalEntryDTO is one persisted posting.
type JournalEntryDTO struct {
	ID            string  `json:"id"`
	ContractID    string  `json:"contract_id"`
	Standard      string  `json:"standard"`
	EntryDate     string  `json:"entry_date"`
	Description   string  `json:"description"`
	DebitAccount  string  `json:"debit_account"`
	CreditAccount string  `json:"credit_account"`
	Amount        float64 `json:"amount"`
	Reference     string  `json:"reference,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func toContractDTO(c lease.Contract) ContractDTO {
	return ContractDTO{
		ID:             c.ID,
		Name:           c.Name,
		Lessor:         c.Lessor,
		Amount:         toFloat(c.Amount),
		DiscountRate:   toFloat(c.DiscountRate),
		LeaseTermYears: c.LeaseTermYears,
		AnnualPayment:  toFloat(c.AnnualPayment),
		StartDate:      c.StartDate.Format("2006-01-02"),
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}

func toScheduleEntryDTO(e engine.ScheduleEntry) ScheduleEntryDTO {
	return ScheduleEntryDTO{
		Period:                 e.Period,
		PaymentDate:            e.PaymentDate.Format("2006-01-02"),
		LeasePayment:           toFloat(e.LeasePayment),
		InterestExpense:        toFloat(e.InterestExpense),
		PrincipalPayment:       toFloat(e.PrincipalPayment),
		BeginningLiability:     toFloat(e.BeginningLiability),
		EndingLiability:        toFloat(e.EndingLiability),
		ROUAssetValue:          toFloat(e.ROUAssetValue),
		ROUAssetAmortization:   toFloat(e.ROUAssetAmortization),
		CumulativeAmortization: toFloat(e.CumulativeAmortization),
		ShortTermLiability:     toFloat(e.ShortTermLiability),
		LongTermLiability:      toFloat(e.LongTermLiability),
		InterestAmortized:      toFloat(e.InterestAmortized),
		AccruedInterest:        toFloat(e.AccruedInterest),
		PrepaidRent:            toFloat(e.PrepaidRent),
	}
}

func toScheduleDTO(s lease.Schedule) ScheduleDTO {
	entries := make([]ScheduleEntryDTO, len(s.Entries))
	for i, e := range s.Entries {
		entries[i] = toScheduleEntryDTO(e)
	}
	return ScheduleDTO{
		ContractID:   s.ContractID,
		Standard:     string(s.Standard),
		PresentValue: toFloat(s.PresentValue),
		GeneratedAt:  s.GeneratedAt.Format(time.RFC3339),
		Entries:      entries,
	}
}

func toPaymentDTOs(payments []lease.Payment) []PaymentDTO {
	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = PaymentDTO{
			ID:         p.ID,
			ContractID: p.ContractID,
			Period:     p.Period,
			Amount:     toFloat(p.Amount),
			DueDate:    p.DueDate.Format("2006-01-02"),
			Status:     string(p.Status),
		}
	}
	return dtos
}

func toJournalEntryDTOs(entries []lease.JournalEntry) []JournalEntryDTO {
	dtos := make([]JournalEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = JournalEntryDTO{
			ID:            e.ID,
			ContractID:    e.ContractID,
			Standard:      string(e.Standard),
			EntryDate:     e.Posting.EntryDate.Format(time.RFC3339),
			Description:   e.Posting.Description,
			DebitAccount:  e.Posting.DebitAccount,
			CreditAccount: e.Posting.CreditAccount,
			Amount:        toFloat(e.Posting.Amount),
			Reference:     e.Posting.Reference,
		}
	}
	return dtos
}
