package checkout

import (
	errors "github.com/dhakamart/commerce/internal"
	"github.com/dhakamart/commerce/internal/catalog"
	"github.com/dhakamart/commerce/internal/core/common/validation"
	ordermodel "github.com/dhakamart/commerce/internal/core/datamodel/order"
	settingsmodel "github.com/dhakamart/commerce/internal/core/datamodel/settings"
)

type CustomerDTO struct {
	UserID *string `json:"user_id,omitempty"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Avatar string  `json:"avatar,omitempty"`
}

type BeginCheckoutDTO struct {
	Items           []catalog.ItemRef          `json:"items"`
	ShippingAddress ordermodel.ShippingAddress `json:"shipping_address"`
	Customer        CustomerDTO                `json:"customer"`
	Gateway         string                     `json:"gateway"`
}

func (d *BeginCheckoutDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("gateway", d.Gateway).Required().
		OneOf([]string{settingsmodel.GatewayBkash, settingsmodel.GatewaySSLCommerz}, errors.ErrCodeValidationFailed)
	validator.Field("customer.email", d.Customer.Email).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}

	if len(d.Items) == 0 {
		return errors.NewValidationError("cart is empty", errors.ErrCodeEmptyCart)
	}
	return nil
}

// BeginCheckoutResponse is what the client holds after checkout submission:
// an opaque order id, not the pending-order state itself.
type BeginCheckoutResponse struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Total       string `json:"total"`
	Gateway     string `json:"gateway"`
}
