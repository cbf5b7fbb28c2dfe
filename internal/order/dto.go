package order

import (
	"encoding/json"
	"time"

	errors "github.com/dhakamart/commerce/internal"
	"github.com/dhakamart/commerce/internal/core/common/validation"
	ordermodel "github.com/dhakamart/commerce/internal/core/datamodel/order"
)

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (d *UpdateStatusDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("status", d.Status).Required().
		OneOf([]string{ordermodel.StatusPending, ordermodel.StatusProcessing,
			ordermodel.StatusShipped, ordermodel.StatusDelivered, ordermodel.StatusCancelled},
			errors.ErrCodeValidationFailed)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type OrderView struct {
	ID              string                      `json:"id"`
	OrderNumber     string                      `json:"order_number"`
	UserID          *string                     `json:"user_id,omitempty"`
	CustomerEmail   string                      `json:"customer_email"`
	CustomerName    string                      `json:"customer_name,omitempty"`
	CustomerAvatar  string                      `json:"customer_avatar,omitempty"`
	Status          string                      `json:"status"`
	Total           string                      `json:"total"`
	PaymentMethod   string                      `json:"payment_method"`
	PaymentStatus   string                      `json:"payment_status"`
	PaymentDetails  *ordermodel.PaymentDetails  `json:"payment_details,omitempty"`
	ShippingAddress *ordermodel.ShippingAddress `json:"shipping_address,omitempty"`
	Items           []ordermodel.OrderItem      `json:"items"`
	PlacedAt        time.Time                   `json:"placed_at"`
}

// ToView decodes the persisted jsonb columns into the response shape. Decode
// failures are surfaced rather than silently dropped since payment details
// are an audit record.
func ToView(o *ordermodel.Order) (*OrderView, error) {
	items, err := o.DecodeItems()
	if err != nil {
		return nil, err
	}
	details, err := o.DecodePaymentDetails()
	if err != nil {
		return nil, err
	}

	var addr *ordermodel.ShippingAddress
	if len(o.ShippingAddress) > 0 {
		addr = &ordermodel.ShippingAddress{}
		if err := json.Unmarshal(o.ShippingAddress, addr); err != nil {
			return nil, err
		}
	}

	return &OrderView{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		CustomerEmail:   o.CustomerEmail,
		CustomerName:    o.CustomerName,
		CustomerAvatar:  o.CustomerAvatar,
		Status:          o.Status,
		Total:           o.Total.String(),
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		PaymentDetails:  details,
		ShippingAddress: addr,
		Items:           items,
		PlacedAt:        o.PlacedAt,
	}, nil
}
