package checkout

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	ordermodel "github.com/dhakamart/commerce/internal/core/datamodel/order"
)

// Session is the server-side pending-order record bridging checkout
// submission and order creation. The client holds only the order id.
type Session struct {
	OrderID         string          `gorm:"primaryKey;column:order_id;type:varchar(36)"`
	OrderNumber     string          `gorm:"column:order_number;not null;uniqueIndex"`
	UserID          *string         `gorm:"column:user_id;type:varchar(36)"`
	CustomerEmail   string          `gorm:"column:customer_email;not null"`
	CustomerName    string          `gorm:"column:customer_name"`
	CustomerAvatar  string          `gorm:"column:customer_avatar"`
	Gateway         string          `gorm:"column:gateway;not null"`
	Items           json.RawMessage `gorm:"column:items;type:jsonb;not null"`
	ShippingAddress json.RawMessage `gorm:"column:shipping_address;type:jsonb"`
	Total           decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	ConsumedAt      *time.Time      `gorm:"column:consumed_at"`
	CreatedAt       time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;default:now()"`
}

func (Session) TableName() string {
	return "checkout_sessions"
}

func (s *Session) Consumed() bool {
	return s.ConsumedAt != nil
}

func (s *Session) DecodeItems() ([]ordermodel.OrderItem, error) {
	var items []ordermodel.OrderItem
	if len(s.Items) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(s.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Session) DecodeShippingAddress() (*ordermodel.ShippingAddress, error) {
	if len(s.ShippingAddress) == 0 {
		return nil, nil
	}
	var addr ordermodel.ShippingAddress
	if err := json.Unmarshal(s.ShippingAddress, &addr); err != nil {
		return nil, err
	}
	return &addr, nil
}
