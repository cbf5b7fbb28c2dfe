package order

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	apperrors "github.com/dhakamart/commerce/internal"
	"github.com/dhakamart/commerce/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     svc,
	}
}

// GetOrder handles GET /api/v1/orders/{orderID}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	o, err := h.Service.Get(orderID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := ToView(o)
	if err != nil {
		h.Logger.Error("GetOrder: failed to decode order", "order_id", orderID, "error", err)
		h.HandleError(w, apperrors.NewInternalError("failed to decode order", err))
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

// ListOrders handles GET /api/v1/admin/orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Service.List()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	views := make([]*OrderView, 0, len(orders))
	for _, o := range orders {
		view, err := ToView(o)
		if err != nil {
			h.Logger.Error("ListOrders: failed to decode order", "order_id", o.ID, "error", err)
			h.HandleError(w, apperrors.NewInternalError("failed to decode order", err))
			return
		}
		views = append(views, view)
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"orders": views,
		"total":  len(views),
	})
}

// UpdateOrderStatus handles PATCH /api/v1/admin/orders/{orderID}/status
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateOrderStatus: failed to parse request body", "error", err)
		h.HandleError(w, apperrors.NewValidationError("invalid request body", apperrors.ErrCodeValidationFailed))
		return
	}

	o, err := h.Service.UpdateStatus(orderID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := ToView(o)
	if err != nil {
		h.Logger.Error("UpdateOrderStatus: failed to decode order", "order_id", orderID, "error", err)
		h.HandleError(w, apperrors.NewInternalError("failed to decode order", err))
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}
