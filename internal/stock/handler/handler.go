package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/baskoro/barpos-inventory-service/internal/api"
	"github.com/baskoro/barpos-inventory-service/internal/auth"
	"github.com/baskoro/barpos-inventory-service/internal/batch"
	"github.com/baskoro/barpos-inventory-service/internal/stock"
	"github.com/baskoro/barpos-inventory-service/internal/stock/dto"
)

type StockHandler struct {
	uc     stock.UseCase
	logger *zap.Logger
}

func NewStockHandler(uc stock.UseCase, logger *zap.Logger) *StockHandler {
	return &StockHandler{uc: uc, logger: logger}
}

func (h *StockHandler) RegisterRoutes(r chi.Router) {
	r.Route("/stock", func(r chi.Router) {
		r.Get("/", h.listStock)
		r.Get("/low", h.listLowStock)
		r.Get("/movements", h.listMovements)
		r.Get("/{locationID}/{itemID}", h.getStock)
		r.Post("/credit", h.credit)
		r.Post("/debit", h.debit)
		r.Post("/adjust", h.adjust)
		r.Post("/batch", h.applyBatch)
		r.Post("/import", h.importCSV)
	})
}

func (h *StockHandler) getStock(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationID")
	itemID := chi.URLParam(r, "itemID")

	qty, err := h.uc.GetStock(r.Context(), locationID, itemID)
	if err != nil {
		api.RespondDomainError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"location_id":   locationID,
		"item_id":       itemID,
		"current_stock": qty,
	})
}

func (h *StockHandler) listStock(w http.ResponseWriter, r *http.Request) {
	filters := &dto.StockFilters{
		LocationID: r.URL.Query().Get("location_id"),
		ItemID:     r.URL.Query().Get("item_id"),
		Page:       queryInt(r, "page", 1),
		PageSize:   queryInt(r, "page_size", 50),
	}

	items, total, err := h.uc.ListStock(r.Context(), filters)
	if err != nil {
		api.RespondDomainError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, api.ListResponse{Items: items, Total: total})
}

func (h *StockHandler) listLowStock(w http.ResponseWriter, r *http.Request) {
	items, total, err := h.uc.ListLowStock(
		r.Context(),
		r.URL.Query().Get("location_id"),
		queryInt(r, "page", 1),
		queryInt(r, "page_size", 50),
	)
	if err != nil {
		api.RespondDomainError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, api.ListResponse{Items: items, Total: total})
}

func (h *StockHandler) listMovements(w http.ResponseWriter, r *http.Request) {
	filters := &dto.MovementFilters{
		ItemID:       r.URL.Query().Get("item_id"),
		LocationID:   r.URL.Query().Get("location_id"),
		MovementType: r.URL.Query().Get("movement_type"),
		Reference:    r.URL.Query().Get("reference"),
		Page:         queryInt(r, "page", 1),
		PageSize:     queryInt(r, "page_size", 50),
	}

	movements, total, err := h.uc.ListMovements(r.Context(), filters)
	if err != nil {
		api.RespondDomainError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, api.ListResponse{Items: movements, Total: total})
}

func (h *StockHandler) credit(w http.ResponseWriter, r *http.Request) {
	var input dto.MutationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input.UserID = auth.CallerFromContext(r.Context()).UserID
	if input.ReferenceType == "" {
		input.ReferenceType = "manual"
	}

	movement, err := h.uc.Credit(r.Context(), &input)
	if err != nil {
		api.RespondDomainError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, movement)
}

func (h *StockHandler) debit(w http.ResponseWriter, r *http.Request) {
	var input dto.MutationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input.UserID = auth.CallerFromContext(r.Context()).UserID
	if input.ReferenceType == "" {
		input.ReferenceType = "manual"
	}

	movement, err := h.uc.Debit(r.Context(), &input)
	if err != nil {
		api.RespondDomainError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, movement)
}

func queryInt(r *http.Request, key string, fallback int) int {
	if val := r.URL.Query().Get(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}

func (h *StockHandler) adjust(w http.ResponseWriter, r *http.Request) {
	var input dto.AdjustInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input.UserID = auth.CallerFromContext(r.Context()).UserID

	movement, err := h.uc.Adjust(r.Context(), &input)
	if err != nil {
		api.RespondDomainError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, movement)
}

func (h *StockHandler) applyBatch(w http.ResponseWriter, r *http.Request) {
	var entries []dto.BatchEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	caller := auth.CallerFromContext(r.Context())
	results := h.uc.ApplyBatch(r.Context(), entries, caller.UserID)
	api.RespondJSON(w, http.StatusOK, results)
}

// importCSV parses the upload first, then feeds only the valid rows into
// the batch path; parse failures and stock failures come back in one list.
func (h *StockHandler) importCSV(w http.ResponseWriter, r *http.Request) {
	entries, parseFailures, err := batch.ParseAdjustments(r.Body)
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := auth.CallerFromContext(r.Context())
	results := h.uc.ApplyBatch(r.Context(), entries, caller.UserID)

	combined := make([]dto.BatchResult, 0, len(parseFailures)+len(results))
	combined = append(combined, parseFailures...)
	combined = append(combined, results...)
	api.RespondJSON(w, http.StatusOK, combined)
}
