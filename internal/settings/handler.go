package settings

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

// GetSettings handles GET /api/v1/admin/settings/{gateway}
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	gateway := chi.URLParam(r, "gateway")

	row, err := h.Service.Get(gateway)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToView(row, len(row.Credentials) > 0))
}

// UpdateSettings handles PUT /api/v1/admin/settings/{gateway}
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	gateway := chi.URLParam(r, "gateway")

	var dto UpdateSettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateSettings: failed to parse request body", "error", err)
		h.HandleError(w, apperrors.NewValidationError("invalid request body", apperrors.ErrCodeValidationFailed))
		return
	}

	row, err := h.Service.Update(gateway, dto)
	if err != nil {
		h.Logger.Error("UpdateSettings: service error", "error", err, "gateway", gateway)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("UpdateSettings: gateway settings saved", "gateway", gateway, "enabled", row.IsEnabled)
	h.WriteJSON(w, http.StatusOK, ToView(row, len(row.Credentials) > 0))
}
