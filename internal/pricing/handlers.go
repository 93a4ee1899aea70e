package pricing

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-bar/internal/common"
)

// Handler exposes the sale-recording endpoint.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type recordSaleRequest struct {
	DrinkName string `json:"drinkName" validate:"required"`
	Quantity  int32  `json:"quantity" validate:"omitempty,gt=0"`
}

// RecordSale handles POST /sales: one sale event triggers a full pricing pass.
func (h *Handler) RecordSale(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "pricing service not configured", nil)
		return
	}
	var req recordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid request body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
			return
		}
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	result, err := h.Svc.RecordSale(r.Context(), req.DrinkName, req.Quantity)
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}
