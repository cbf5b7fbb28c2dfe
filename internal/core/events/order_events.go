package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCheckoutStarted  = "checkout.started"
	EventTypePaymentCompleted = "payment.completed"
	EventTypePaymentFailed    = "payment.failed"
	EventTypeOrderCreated     = "order.created"
)

type CheckoutStartedEvent struct {
	BaseEvent
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Gateway     string `json:"gateway"`
	Total       string `json:"total"`
}

func NewCheckoutStartedEvent(orderID, orderNumber, gateway, total string) *CheckoutStartedEvent {
	return &CheckoutStartedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCheckoutStarted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":     orderID,
				"order_number": orderNumber,
				"gateway":      gateway,
				"total":        total,
			},
		},
		OrderID:     orderID,
		OrderNumber: orderNumber,
		Gateway:     gateway,
		Total:       total,
	}
}

type PaymentCompletedEvent struct {
	BaseEvent
	OrderID       string `json:"order_id"`
	Gateway       string `json:"gateway"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
}

func NewPaymentCompletedEvent(orderID, gateway, transactionID, amount string) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":       orderID,
				"gateway":        gateway,
				"transaction_id": transactionID,
				"amount":         amount,
			},
		},
		OrderID:       orderID,
		Gateway:       gateway,
		TransactionID: transactionID,
		Amount:        amount,
	}
}

type PaymentFailedEvent struct {
	BaseEvent
	OrderID string `json:"order_id"`
	Gateway string `json:"gateway"`
	Reason  string `json:"reason"`
}

func NewPaymentFailedEvent(orderID, gateway, reason string) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id": orderID,
				"gateway":  gateway,
				"reason":   reason,
			},
		},
		OrderID: orderID,
		Gateway: gateway,
		Reason:  reason,
	}
}

type OrderCreatedEvent struct {
	BaseEvent
	OrderID       string `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	PaymentMethod string `json:"payment_method"`
	Total         string `json:"total"`
}

func NewOrderCreatedEvent(orderID, orderNumber, paymentMethod, total string) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOrderCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":       orderID,
				"order_number":   orderNumber,
				"payment_method": paymentMethod,
				"total":          total,
			},
		},
		OrderID:       orderID,
		OrderNumber:   orderNumber,
		PaymentMethod: paymentMethod,
		Total:         total,
	}
}
