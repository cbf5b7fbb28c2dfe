package order

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/dhakamart/commerce/internal"
	checkoutmodel "github.com/dhakamart/commerce/internal/core/datamodel/checkout"
	ordermodel "github.com/dhakamart/commerce/internal/core/datamodel/order"
	"github.com/dhakamart/commerce/internal/core/events"
)

type Service struct {
	repository RepositoryAPI
	eventBus   *events.EventBus
	logger     *slog.Logger
}

func NewService(repository RepositoryAPI, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Materialize turns a consumed checkout session into a persisted order. The
// order keeps the session's id, so a replayed callback that materializes
// again overwrites the same row instead of creating a duplicate.
func (s *Service) Materialize(session *checkoutmodel.Session, details ordermodel.PaymentDetails) (*ordermodel.Order, error) {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode payment details", err)
	}

	now := time.Now().UTC()
	o := &ordermodel.Order{
		ID:              session.OrderID,
		OrderNumber:     session.OrderNumber,
		UserID:          session.UserID,
		CustomerEmail:   session.CustomerEmail,
		CustomerName:    session.CustomerName,
		CustomerAvatar:  session.CustomerAvatar,
		Status:          ordermodel.StatusPending,
		Total:           session.Total,
		PaymentMethod:   details.Method,
		PaymentStatus:   ordermodel.PaymentCompleted,
		PaymentDetails:  detailsJSON,
		ShippingAddress: session.ShippingAddress,
		Items:           session.Items,
		PlacedAt:        now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repository.Upsert(o); err != nil {
		s.logger.Error("failed to persist order", "order_id", o.ID, "error", err)
		return nil, apperrors.NewInternalError("failed to persist order", err)
	}

	s.logger.Info("order materialized",
		"order_id", o.ID,
		"order_number", o.OrderNumber,
		"payment_method", o.PaymentMethod,
		"total", o.Total.String())

	s.eventBus.Publish(context.Background(), events.NewOrderCreatedEvent(
		o.ID, o.OrderNumber, o.PaymentMethod, o.Total.String()))

	return o, nil
}

func (s *Service) Get(id string) (*ordermodel.Order, error) {
	o, err := s.repository.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		s.logger.Error("failed to load order", "order_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to load order", err)
	}
	return o, nil
}

func (s *Service) List() ([]*ordermodel.Order, error) {
	orders, err := s.repository.List()
	if err != nil {
		s.logger.Error("failed to list orders", "error", err)
		return nil, apperrors.NewInternalError("failed to list orders", err)
	}
	return orders, nil
}

// UpdateStatus applies a staff status change after checking the transition
// table. Payment status is never touched here.
func (s *Service) UpdateStatus(id string, dto UpdateStatusDTO) (*ordermodel.Order, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	o, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if !o.CanTransitionTo(dto.Status) {
		return nil, apperrors.NewValidationError(
			"cannot transition order from "+o.Status+" to "+dto.Status,
			apperrors.ErrCodeInvalidTransition)
	}

	if err := s.repository.UpdateStatus(id, dto.Status); err != nil {
		s.logger.Error("failed to update order status", "order_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update order status", err)
	}

	s.logger.Info("order status updated", "order_id", id, "from", o.Status, "to", dto.Status)

	o.Status = dto.Status
	return o, nil
}
