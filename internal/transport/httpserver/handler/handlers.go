package handler

import (
	"errors"
	"net/http"

	ledgerdomain "expense-ledger-go/internal/domain/ledger"
	"expense-ledger-go/internal/transport/httpserver/middleware"
	"expense-ledger-go/pkg/logger"
)

type Handlers struct {
	Ledger *ledgerdomain.Service
	log    logger.Logger
}

func New(ledger *ledgerdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Ledger: ledger,
		log:    log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return "", false
	}
	return user.ID, true
}

// writeServiceError maps ledger errors to responses. Storage errors are
// logged and never shown to the caller.
func (h *Handlers) writeServiceError(w http.ResponseWriter, op string, err error, args ...any) {
	var validationErr *ledgerdomain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.log.BusinessError(op+": invalid input", err, args...)
		writeFieldError(w, http.StatusBadRequest, "invalid_request", validationErr.Message, validationErr.Field)
	case errors.Is(err, ledgerdomain.ErrRecordNotFound):
		h.log.BusinessError(op+": record not found", err, args...)
		writeError(w, http.StatusNotFound, "record_not_found", "record not found")
	case errors.Is(err, ledgerdomain.ErrCategoryNotFound):
		h.log.BusinessError(op+": category not found", err, args...)
		writeError(w, http.StatusNotFound, "category_not_found", "category not found")
	case errors.Is(err, ledgerdomain.ErrConflict), errors.Is(err, ledgerdomain.ErrCategoryNameTaken):
		h.log.BusinessError(op+": conflict", err, args...)
		writeError(w, http.StatusConflict, "conflict", "the ledger was changed concurrently, retry the request")
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
