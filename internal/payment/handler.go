package payment

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

// GrantBkashToken handles POST /api/v1/payments/bkash/grant-token
func (h *Handler) GrantBkashToken(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.GrantBkashToken(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// CreateBkashPayment handles POST /api/v1/payments/bkash/create
func (h *Handler) CreateBkashPayment(w http.ResponseWriter, r *http.Request) {
	var dto CreateBkashPaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateBkashPayment: failed to parse request body", "error", err)
		h.HandleError(w, apperrors.NewValidationError("invalid request body", apperrors.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.CreateBkashPayment(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// ExecuteBkashPayment handles POST /api/v1/payments/bkash/execute
func (h *Handler) ExecuteBkashPayment(w http.ResponseWriter, r *http.Request) {
	var dto ExecuteBkashPaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ExecuteBkashPayment: failed to parse request body", "error", err)
		h.HandleError(w, apperrors.NewValidationError("invalid request body", apperrors.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.ExecuteBkashPayment(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// QueryBkashPayment handles POST /api/v1/payments/bkash/query
func (h *Handler) QueryBkashPayment(w http.ResponseWriter, r *http.Request) {
	var dto QueryBkashPaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("QueryBkashPayment: failed to parse request body", "error", err)
		h.HandleError(w, apperrors.NewValidationError("invalid request body", apperrors.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.QueryBkashPayment(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// BkashCallback handles GET /api/v1/payments/bkash/callback, the browser
// redirect from the bKash checkout page.
func (h *Handler) BkashCallback(w http.ResponseWriter, r *http.Request) {
	paymentID := r.URL.Query().Get("paymentID")
	status := r.URL.Query().Get("status")

	resp, err := h.Service.HandleBkashCallback(r.Context(), paymentID, status)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// InitSSLCommerzPayment handles POST /api/v1/payments/sslcommerz/init
func (h *Handler) InitSSLCommerzPayment(w http.ResponseWriter, r *http.Request) {
	var dto InitSSLCommerzPaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("InitSSLCommerzPayment: failed to parse request body", "error", err)
		h.HandleError(w, apperrors.NewValidationError("invalid request body", apperrors.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.InitSSLCommerzPayment(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// ValidateSSLCommerzPayment handles POST /api/v1/payments/sslcommerz/validate
func (h *Handler) ValidateSSLCommerzPayment(w http.ResponseWriter, r *http.Request) {
	var dto ValidateSSLCommerzDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ValidateSSLCommerzPayment: failed to parse request body", "error", err)
		h.HandleError(w, apperrors.NewValidationError("invalid request body", apperrors.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.ValidateSSLCommerzPayment(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// SSLCommerzIPN handles POST /api/v1/payments/sslcommerz/ipn. The gateway
// POSTs form-encoded transaction data here for both the server-to-server
// notification and the browser redirects.
func (h *Handler) SSLCommerzIPN(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Logger.Error("SSLCommerzIPN: failed to parse form", "error", err)
		h.HandleError(w, apperrors.NewValidationError("invalid notification payload", apperrors.ErrCodeInvalidCallback))
		return
	}

	resp, err := h.Service.HandleSSLCommerzIPN(r.Context(), r.PostForm)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}
