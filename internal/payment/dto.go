package payment

import (
	"github.com/dhakamart/commerce/internal/core/common/validation"
)

type CreateBkashPaymentDTO struct {
	Amount  string `json:"amount"`
	OrderID string `json:"orderId"`
	Token   string `json:"token"`
}

func (d *CreateBkashPaymentDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("amount", d.Amount).Required()
	validator.Field("orderId", d.OrderID).Required()
	validator.Field("token", d.Token).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type ExecuteBkashPaymentDTO struct {
	PaymentID string `json:"paymentID"`
	Token     string `json:"token"`
}

func (d *ExecuteBkashPaymentDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("paymentID", d.PaymentID).Required()
	validator.Field("token", d.Token).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type QueryBkashPaymentDTO struct {
	PaymentID string `json:"paymentID"`
	Token     string `json:"token"`
}

func (d *QueryBkashPaymentDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("paymentID", d.PaymentID).Required()
	validator.Field("token", d.Token).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type InitSSLCommerzPaymentDTO struct {
	OrderID string `json:"orderId"`
}

func (d *InitSSLCommerzPaymentDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("orderId", d.OrderID).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type ValidateSSLCommerzDTO struct {
	ValID string `json:"val_id"`
}

func (d *ValidateSSLCommerzDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("val_id", d.ValID).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type GrantTokenResponse struct {
	Token        string `json:"token"`
	ExpiresIn    int    `json:"expiresIn"`
	RefreshToken string `json:"refreshToken"`
}

type InitSSLCommerzResponse struct {
	Status         string `json:"status"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

// CompletedPaymentResponse is returned once a payment is finalized and its
// order materialized, including on idempotent callback replays.
type CompletedPaymentResponse struct {
	OrderID       string `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	PaymentStatus string `json:"payment_status"`
	PaymentMethod string `json:"payment_method"`
	TransactionID string `json:"transaction_id,omitempty"`
	Total         string `json:"total"`
}
