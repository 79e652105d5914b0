package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	ledgerdomain "expense-ledger-go/internal/domain/ledger"
)

type recordRequest struct {
	Type        string           `json:"type"`
	Date        string           `json:"date"`
	Item        string           `json:"item"`
	Quantity    string           `json:"quantity"`
	Cost        *decimal.Decimal `json:"cost"`
	CategoryID  *string          `json:"category_id"`
	NewCategory string           `json:"new_category"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type recordResponse struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Date      string            `json:"date"`
	Item      string            `json:"item"`
	Quantity  string            `json:"quantity"`
	Cost      string            `json:"cost"`
	Category  *categoryResponse `json:"category"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type recordListResponse struct {
	Items []recordResponse `json:"items"`
}

type purgeResponse struct {
	RecordsDeleted    int64 `json:"records_deleted"`
	CategoriesDeleted int64 `json:"categories_deleted"`
}

func (h *Handlers) ListRecords(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	key, descending, err := ledgerdomain.ParseSort(r.URL.Query().Get("sort"))
	if err != nil {
		h.writeServiceError(w, "records.list", err, "user_id", ownerID)
		return
	}

	records, err := h.Ledger.ListRecords(r.Context(), ownerID, key, descending)
	if err != nil {
		h.writeServiceError(w, "records.list", err, "user_id", ownerID)
		return
	}

	items := make([]recordResponse, 0, len(records))
	for _, record := range records {
		items = append(items, toRecordResponse(record))
	}
	writeJSON(w, http.StatusOK, recordListResponse{Items: items})
}

func (h *Handlers) GetRecord(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	recordID := chi.URLParam(r, "id")
	record, err := h.Ledger.GetRecord(r.Context(), ownerID, recordID)
	if err != nil {
		h.writeServiceError(w, "records.get", err, "user_id", ownerID, "record_id", recordID)
		return
	}

	writeJSON(w, http.StatusOK, toRecordResponse(*record))
}

func (h *Handlers) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	fields, ok := parseRecordFields(w, req)
	if !ok {
		return
	}

	record, err := h.Ledger.CreateRecord(r.Context(), ledgerdomain.CreateRecordInput{
		OwnerID:         ownerID,
		RecordFields:    fields,
		CategoryID:      trimmedID(req.CategoryID),
		NewCategoryName: req.NewCategory,
	})
	if err != nil {
		h.writeServiceError(w, "records.create", err, "user_id", ownerID)
		return
	}

	writeJSON(w, http.StatusCreated, toRecordResponse(*record))
}

func (h *Handlers) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	fields, ok := parseRecordFields(w, req)
	if !ok {
		return
	}

	recordID := chi.URLParam(r, "id")
	record, err := h.Ledger.UpdateRecord(r.Context(), ledgerdomain.UpdateRecordInput{
		ID:              recordID,
		OwnerID:         ownerID,
		RecordFields:    fields,
		CategoryID:      trimmedID(req.CategoryID),
		NewCategoryName: req.NewCategory,
	})
	if err != nil {
		h.writeServiceError(w, "records.update", err, "user_id", ownerID, "record_id", recordID)
		return
	}

	writeJSON(w, http.StatusOK, toRecordResponse(*record))
}

func (h *Handlers) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	recordID := chi.URLParam(r, "id")
	if err := h.Ledger.DeleteRecord(r.Context(), ownerID, recordID); err != nil {
		h.writeServiceError(w, "records.delete", err, "user_id", ownerID, "record_id", recordID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) PurgeRecords(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	result, err := h.Ledger.Purge(r.Context(), ownerID)
	if err != nil {
		h.writeServiceError(w, "records.purge", err, "user_id", ownerID)
		return
	}

	h.log.Info("records.purge: done", "user_id", ownerID, "records", result.RecordsDeleted, "categories", result.CategoriesDeleted)
	writeJSON(w, http.StatusOK, purgeResponse{
		RecordsDeleted:    result.RecordsDeleted,
		CategoriesDeleted: result.CategoriesDeleted,
	})
}

func parseRecordFields(w http.ResponseWriter, req recordRequest) (ledgerdomain.RecordFields, bool) {
	kind, err := ledgerdomain.ParseKind(req.Type)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "invalid_request", "type must be Expense or Income", "type")
		return ledgerdomain.RecordFields{}, false
	}

	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "invalid_request", "invalid date", "date")
		return ledgerdomain.RecordFields{}, false
	}

	if req.Cost == nil {
		writeFieldError(w, http.StatusBadRequest, "invalid_request", "cost is required", "cost")
		return ledgerdomain.RecordFields{}, false
	}

	return ledgerdomain.RecordFields{
		Kind:     kind,
		Date:     date,
		Item:     req.Item,
		Quantity: req.Quantity,
		Cost:     *req.Cost,
	}, true
}

func toRecordResponse(record ledgerdomain.Record) recordResponse {
	response := recordResponse{
		ID:        record.ID,
		Type:      string(record.Kind),
		Date:      record.Date.Format(dateLayout),
		Item:      record.Item,
		Quantity:  record.Quantity,
		Cost:      record.Cost.StringFixed(2),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	if record.Category != nil {
		response.Category = &categoryResponse{
			ID:   record.Category.ID,
			Name: record.Category.Name,
		}
	}
	return response
}
