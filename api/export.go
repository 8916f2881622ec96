/*
export.go - CSV export of persisted schedules

PURPOSE:
  Flattens a persisted schedule into the fixed 14-column tabular layout
  consumed by downstream spreadsheet users. The column set and order are an
  external contract; changing them breaks existing exports.

SEE ALSO:
  - handlers.go: Route wiring and schedule loading
*/
package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
)

// exportColumns is the fixed column contract for schedule exports.
var exportColumns = []string{
	"Period",
	"Payment Date",
	"Lease Payment",
	"Interest Expense",
	"Principal Payment",
	"Lease Liability",
	"ROU Asset Value",
	"ROU Asset Amortization",
	"Cumulative Amortization",
	"Short-term Liability",
	"Long-term Liability",
	"Interest Amortized",
	"Accrued Interest",
	"Prepaid Rent",
}

// ExportSchedule streams the persisted schedule as CSV.
// GET /api/contracts/{id}/schedule/export
func (h *Handler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	sched, ok := h.loadSchedule(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", sched.ContractID+"-"+string(sched.Standard)+"-schedule.csv"))

	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return
	}
	for _, e := range sched.Entries {
		record := []string{
			strconv.Itoa(e.Period),
			e.PaymentDate.Format("2006-01-02"),
			e.LeasePayment.StringFixed(2),
			e.InterestExpense.StringFixed(2),
			e.PrincipalPayment.StringFixed(2),
			e.EndingLiability.StringFixed(2),
			e.ROUAssetValue.StringFixed(2),
			e.ROUAssetAmortization.StringFixed(2),
			e.CumulativeAmortization.StringFixed(2),
			e.ShortTermLiability.StringFixed(2),
			e.LongTermLiability.StringFixed(2),
			e.InterestAmortized.StringFixed(2),
			e.AccruedInterest.StringFixed(2),
			e.PrepaidRent.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return
		}
	}
	cw.Flush()
}
