package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/baskoro/barpos-inventory-service/internal/api"
	"github.com/baskoro/barpos-inventory-service/internal/location"
	"github.com/baskoro/barpos-inventory-service/internal/location/dto"
)

type LocationHandler struct {
	uc     location.UseCase
	logger *zap.Logger
}

func NewLocationHandler(uc location.UseCase, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{uc: uc, logger: logger}
}

func (h *LocationHandler) RegisterRoutes(r chi.Router) {
	r.Route("/locations", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
}

func (h *LocationHandler) create(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateLocationInput
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

func (h *LocationHandler) get(w http.ResponseWriter, r *http.Request) {
	loc, err := h.uc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.RespondDomainError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, loc)
}

func (h *LocationHandler) list(w http.ResponseWriter, r *http.Request) {
	filters := &dto.LocationFilters{
		Kind:     r.URL.Query().Get("kind"),
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", 50),
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
