package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/dhakamart/commerce/internal"
	"github.com/dhakamart/commerce/internal/catalog"
	checkoutmodel "github.com/dhakamart/commerce/internal/core/datamodel/checkout"
	"github.com/dhakamart/commerce/internal/core/events"
)

type Service struct {
	repository RepositoryAPI
	catalog    catalog.ServiceAPI
	eventBus   *events.EventBus
	logger     *slog.Logger
}

func NewService(repository RepositoryAPI, catalogService catalog.ServiceAPI, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		catalog:    catalogService,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Begin prices the cart against the catalog, snapshots everything a later
// order needs, and persists the session under a generated order id. The
// order id doubles as the idempotency key for the whole payment lifecycle.
func (s *Service) Begin(dto BeginCheckoutDTO) (*checkoutmodel.Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	items, total, err := s.catalog.PriceItems(dto.Items)
	if err != nil {
		return nil, err
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode cart items", err)
	}

	addressJSON, err := json.Marshal(dto.ShippingAddress)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode shipping address", err)
	}

	now := time.Now().UTC()
	session := &checkoutmodel.Session{
		OrderID:         uuid.New().String(),
		OrderNumber:     newOrderNumber(),
		UserID:          dto.Customer.UserID,
		CustomerEmail:   dto.Customer.Email,
		CustomerName:    dto.Customer.Name,
		CustomerAvatar:  dto.Customer.Avatar,
		Gateway:         dto.Gateway,
		Items:           itemsJSON,
		ShippingAddress: addressJSON,
		Total:           total,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repository.Create(session); err != nil {
		s.logger.Error("failed to create checkout session", "error", err)
		return nil, apperrors.NewInternalError("failed to create checkout session", err)
	}

	s.logger.Info("checkout session created",
		"order_id", session.OrderID,
		"order_number", session.OrderNumber,
		"gateway", session.Gateway,
		"total", session.Total.String())

	s.eventBus.Publish(context.Background(), events.NewCheckoutStartedEvent(
		session.OrderID, session.OrderNumber, session.Gateway, session.Total.String()))

	return session, nil
}

func (s *Service) Get(orderID string) (*checkoutmodel.Session, error) {
	session, err := s.repository.GetByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCheckoutNotFound
		}
		s.logger.Error("failed to load checkout session", "order_id", orderID, "error", err)
		return nil, apperrors.NewInternalError("failed to load checkout session", err)
	}
	return session, nil
}

// Consume marks the session spent. Exactly one caller wins; later calls get
// ErrCheckoutConsumed so the orchestrator can fall back to the existing order.
func (s *Service) Consume(orderID string) (*checkoutmodel.Session, error) {
	session, err := s.repository.Consume(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCheckoutNotFound
		}
		if appErr, ok := apperrors.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to consume checkout session", "order_id", orderID, "error", err)
		return nil, apperrors.NewInternalError("failed to consume checkout session", err)
	}

	s.logger.Info("checkout session consumed", "order_id", orderID)
	return session, nil
}

func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("DM-%s", suffix)
}
