package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/baskoro/barpos-inventory-service/internal/api"
	"github.com/baskoro/barpos-inventory-service/internal/auth"
	"github.com/baskoro/barpos-inventory-service/internal/order"
	"github.com/baskoro/barpos-inventory-service/internal/order/dto"
)

type OrderHandler struct {
	uc     order.UseCase
	logger *zap.Logger
}

func NewOrderHandler(uc order.UseCase, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: logger}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/validate", h.validateCart)
		r.Post("/deduct", h.applyDeduction)
	})
}

type validateInput struct {
	BarID string         `json:"bar_id"`
	Lines []dto.CartLine `json:"lines"`
}

func (h *OrderHandler) validateCart(w http.ResponseWriter, r *http.Request) {
	var input validateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.uc.ValidateCart(r.Context(), input.BarID, input.Lines)
	if err != nil {
		api.RespondDomainError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, result)
}

func (h *OrderHandler) applyDeduction(w http.ResponseWriter, r *http.Request) {
	var input dto.DeductionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input.UserID = auth.CallerFromContext(r.Context()).UserID

	movements, err := h.uc.ApplyCartDeduction(r.Context(), &input)
	if err != nil {
		api.RespondDomainError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, movements)
}
