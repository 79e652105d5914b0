package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	ledgerdomain "expense-ledger-go/internal/domain/ledger"
	"expense-ledger-go/internal/export"
)

// ExportRecords renders the ledger as a workbook. It is built in memory so a
// failure can still be reported as JSON.
func (h *Handlers) ExportRecords(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	key, descending, err := ledgerdomain.ParseSort(r.URL.Query().Get("sort"))
	if err != nil {
		h.writeServiceError(w, "records.export", err, "user_id", ownerID)
		return
	}

	records, err := h.Ledger.ListRecords(r.Context(), ownerID, key, descending)
	if err != nil {
		h.writeServiceError(w, "records.export", err, "user_id", ownerID)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteLedgerXLSX(&buf, records, ledgerdomain.Summarize(records)); err != nil {
		h.log.InternalError("records.export: render workbook failed", err, "user_id", ownerID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	filename := fmt.Sprintf("ledger-%s.xlsx", time.Now().UTC().Format(dateLayout))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Warn("records.export: write response failed", "user_id", ownerID, "err", err)
	}
}
