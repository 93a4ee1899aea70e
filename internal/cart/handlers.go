package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-bar/internal/common"
)

// Handler exposes cart endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type itemRequest struct {
	DrinkID  int64 `json:"drinkId" validate:"required,gt=0"`
	Quantity int32 `json:"quantity" validate:"omitempty,gt=0"`
}

// Create handles POST /carts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Svc.Create(r.Context())
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": cart})
}

// Get handles GET /carts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.render(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": cart})
}

// AddItem handles POST /carts/{id}/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	cart, err := h.Svc.AddItem(r.Context(), chi.URLParam(r, "id"), req.DrinkID, req.Quantity)
	if err != nil {
		h.render(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": cart})
}

// UpdateItem handles PATCH /carts/{id}/items/{drinkId}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	drinkID, ok := pathDrinkID(w, r)
	if !ok {
		return
	}
	var req struct {
		Quantity int32 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid request body", nil)
		return
	}
	cart, err := h.Svc.UpdateItem(r.Context(), chi.URLParam(r, "id"), drinkID, req.Quantity)
	if err != nil {
		h.render(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": cart})
}

// RemoveItem handles DELETE /carts/{id}/items/{drinkId}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	drinkID, ok := pathDrinkID(w, r)
	if !ok {
		return
	}
	cart, err := h.Svc.RemoveItem(r.Context(), chi.URLParam(r, "id"), drinkID)
	if err != nil {
		h.render(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": cart})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst *itemRequest) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid request body", nil)
		return false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(dst); err != nil {
			common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
			return false
		}
	}
	return true
}

func (h *Handler) render(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "cart not found", nil)
		return
	}
	common.RenderError(w, err)
}

func pathDrinkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "drinkId"), 10, 64)
	if err != nil || id < 1 {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid drink id", nil)
		return 0, false
	}
	return id, true
}
