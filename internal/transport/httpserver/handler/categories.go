package handler

import (
	"net/http"
)

type categoryListResponse struct {
	Items []categoryResponse `json:"items"`
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	categories, err := h.Ledger.ListCategories(r.Context(), ownerID)
	if err != nil {
		h.writeServiceError(w, "categories.list", err, "user_id", ownerID)
		return
	}

	items := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, categoryResponse{ID: category.ID, Name: category.Name})
	}
	writeJSON(w, http.StatusOK, categoryListResponse{Items: items})
}
