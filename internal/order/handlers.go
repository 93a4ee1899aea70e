package order

import (
	"context"
	"net/http"

	"github.com/noah-isme/backend-bar/internal/common"
	"github.com/noah-isme/backend-bar/internal/repo"
)

// Querier is the subset of order storage the handlers need.
type Querier interface {
	ListOrders(ctx context.Context, limit, offset int32) ([]repo.Order, error)
	CountOrders(ctx context.Context) (int64, error)
}

// Handler exposes the order history endpoint.
type Handler struct {
	Q Querier
}

// List handles GET /orders, newest first with page/perPage paging.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	offset := (page - 1) * perPage

	orders, err := h.Q.ListOrders(r.Context(), int32(perPage), int32(offset))
	if err != nil {
		common.RenderError(w, common.StorageError(err))
		return
	}
	total, err := h.Q.CountOrders(r.Context())
	if err != nil {
		common.RenderError(w, common.StorageError(err))
		return
	}
	if orders == nil {
		orders = []repo.Order{}
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": orders,
		"pagination": common.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: int(total),
		},
	})
}
