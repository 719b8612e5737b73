package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/baskoro/barpos-inventory-service/internal/apperr"
)

type errorResponse struct {
	Error string `json:"error"`
}

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, errorResponse{Error: message})
}

// RespondDomainError maps the engine's error taxonomy to HTTP statuses.
// Insufficient-stock and invalid-transfer errors keep their item and
// quantity context in the message so staff can correct the request.
func RespondDomainError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsInsufficientStock(err):
		RespondError(w, http.StatusUnprocessableEntity, err.Error())
	case apperr.IsInvalidTransferState(err):
		RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrInvalidQuantity):
		RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		RespondError(w, http.StatusConflict, err.Error())
	default:
		RespondError(w, http.StatusInternalServerError, err.Error())
	}
}

// ListResponse is the common paged-list envelope.
type ListResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}
