package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/baskoro/barpos-inventory-service/internal/api"
	"github.com/baskoro/barpos-inventory-service/internal/auth"
	"github.com/baskoro/barpos-inventory-service/internal/transfer"
	"github.com/baskoro/barpos-inventory-service/internal/transfer/dto"
)

type TransferHandler struct {
	uc     transfer.UseCase
	logger *zap.Logger
}

func NewTransferHandler(uc transfer.UseCase, logger *zap.Logger) *TransferHandler {
	return &TransferHandler{uc: uc, logger: logger}
}

func (h *TransferHandler) RegisterRoutes(r chi.Router) {
	r.Route("/transfers", func(r chi.Router) {
		r.Post("/", h.request)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Post("/{id}/respond", h.respond)
	})
}

func (h *TransferHandler) request(w http.ResponseWriter, r *http.Request) {
	var input dto.RequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	caller := auth.CallerFromContext(r.Context())
	t, err := h.uc.Request(r.Context(), &input, caller)
	if err != nil {
		api.RespondDomainError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusCreated, t)
}

type respondInput struct {
	Decision string `json:"decision"` // accept | reject
}

func (h *TransferHandler) respond(w http.ResponseWriter, r *http.Request) {
	var input respondInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	caller := auth.CallerFromContext(r.Context())
	t, err := h.uc.Respond(r.Context(), chi.URLParam(r, "id"), input.Decision, caller)
	if err != nil {
		api.RespondDomainError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, t)
}

func (h *TransferHandler) get(w http.ResponseWriter, r *http.Request) {
	t, err := h.uc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.RespondDomainError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, t)
}

func (h *TransferHandler) list(w http.ResponseWriter, r *http.Request) {
	filters := &dto.TransferFilters{
		LocationID: r.URL.Query().Get("location_id"),
		Status:     r.URL.Query().Get("status"),
		ItemID:     r.URL.Query().Get("item_id"),
		Page:       queryInt(r, "page", 1),
		PageSize:   queryInt(r, "page_size", 50),
	}

	items, total, err := h.uc.List(r.Context(), filters)
	if err != nil {
		api.RespondDomainError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, api.ListResponse{Items: items, Total: total})
}

func queryInt(r *http.Request, key string, fallback int) int {
	if val := r.URL.Query().Get(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}
