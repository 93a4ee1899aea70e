package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-bar/internal/common"
	"github.com/noah-isme/backend-bar/internal/repo"
)

// Handler exposes drink catalog endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type drinkRequest struct {
	Name         string  `json:"name" validate:"required"`
	InitialPrice float64 `json:"initialPrice" validate:"required,gt=0"`
}

// List handles GET /drinks.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	drinks, err := h.Svc.List(r.Context())
	if err != nil {
		common.RenderError(w, err)
		return
	}
	if drinks == nil {
		drinks = []repo.Drink{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": drinks})
}

// Create handles POST /drinks.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	drink, err := h.Svc.Create(r.Context(), req.Name, req.InitialPrice)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": drink})
}

// Update handles PUT /drinks/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := drinkID(w, r)
	if !ok {
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	drink, err := h.Svc.Update(r.Context(), id, req.Name, req.InitialPrice)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": drink})
}

// Delete handles DELETE /drinks/{id}: the drink's ledger rows go with it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := drinkID(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		common.RenderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reset handles POST /drinks/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.ResetAll(r.Context()); err != nil {
		common.RenderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (drinkRequest, bool) {
	var req drinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid request body", nil)
		return req, false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
			return req, false
		}
	}
	return req, true
}

func drinkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid drink id", nil)
		return 0, false
	}
	return id, true
}
