package handler

import (
	"net/http"

	ledgerdomain "expense-ledger-go/internal/domain/ledger"
)

type categoryTotalResponse struct {
	Name string `json:"name"`
	Net  string `json:"net"`
}

type summaryResponse struct {
	NetBalance   string                  `json:"net_balance"`
	TotalIncome  string                  `json:"total_income"`
	TotalExpense string                  `json:"total_expense"`
	RecordCount  int                     `json:"record_count"`
	ByCategory   []categoryTotalResponse `json:"by_category"`
}

func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	summary, err := h.Ledger.Summary(r.Context(), ownerID)
	if err != nil {
		h.writeServiceError(w, "summary.get", err, "user_id", ownerID)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

func toSummaryResponse(summary ledgerdomain.Summary) summaryResponse {
	byCategory := make([]categoryTotalResponse, 0, len(summary.ByCategory))
	for _, total := range summary.ByCategory {
		byCategory = append(byCategory, categoryTotalResponse{
			Name: total.Name,
			Net:  total.Net.StringFixed(2),
		})
	}

	return summaryResponse{
		NetBalance:   summary.NetBalance.StringFixed(2),
		TotalIncome:  summary.TotalIncome.StringFixed(2),
		TotalExpense: summary.TotalExpense.StringFixed(2),
		RecordCount:  summary.RecordCount,
		ByCategory:   byCategory,
	}
}
