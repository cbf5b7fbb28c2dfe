package checkout

import (
	"encoding/json"
	"log/slog"
	"net/http"

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

// BeginCheckout handles POST /api/v1/checkout
func (h *Handler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	var dto BeginCheckoutDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("BeginCheckout: failed to parse request body", "error", err)
		h.HandleError(w, apperrors.NewValidationError("invalid request body", apperrors.ErrCodeValidationFailed))
		return
	}

	session, err := h.Service.Begin(dto)
	if err != nil {
		h.Logger.Error("BeginCheckout: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, BeginCheckoutResponse{
		OrderID:     session.OrderID,
		OrderNumber: session.OrderNumber,
		Total:       session.Total.String(),
		Gateway:     session.Gateway,
	})
}
