package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/baskoro/barpos-inventory-service/internal/api"
	"github.com/baskoro/barpos-inventory-service/internal/item"
	"github.com/baskoro/barpos-inventory-service/internal/item/dto"
)

type ItemHandler struct {
	uc     item.UseCase
	logger *zap.Logger
}

func NewItemHandler(uc item.UseCase, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{uc: uc, logger: logger}
}

func (h *ItemHandler) RegisterRoutes(r chi.Router) {
	r.Route("/items", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
}

func (h *ItemHandler) create(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.uc.Create(r.Context(), &input)
	if err != nil {
		api.RespondDomainError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusCreated, created)
}

func (h *ItemHandler) get(w http.ResponseWriter, r *http.Request) {
	it, err := h.uc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.RespondDomainError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, it)
}

func (h *ItemHandler) list(w http.ResponseWriter, r *http.Request) {
	filters := &dto.ItemFilters{
		Category:    r.URL.Query().Get("category"),
		SearchQuery: r.URL.Query().Get("q"),
		Page:        queryInt(r, "page", 1),
		PageSize:    queryInt(r, "page_size", 50),
	}
	if val := r.URL.Query().Get("is_active"); val != "" {
		active := val == "true"
		filters.IsActive = &active
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
