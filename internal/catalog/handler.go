package catalog

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

// ListProducts handles GET /api/v1/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.ListProducts()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.Service.GetProduct(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, product)
}

// ListReviews handles GET /api/v1/products/{id}/reviews
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	reviews, err := h.Service.ListReviews(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"reviews": reviews})
}

// AddReview handles POST /api/v1/products/{id}/reviews
func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto AddReviewDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AddReview: failed to parse request body", "error", err)
		h.HandleError(w, apperrors.NewValidationError("invalid request body", apperrors.ErrCodeValidationFailed))
		return
	}

	review, err := h.Service.AddReview(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, review)
}
