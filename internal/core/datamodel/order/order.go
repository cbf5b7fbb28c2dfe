package order

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses, mutated by staff only after materialization.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// Payment statuses.
const (
	PaymentCompleted = "completed"
	PaymentPending   = "pending"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

const (
	MethodBkash      = "bkash"
	MethodSSLCommerz = "sslcommerz"
)

type OrderItem struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	ImageURL    string          `json:"image_url,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ProductType string          `json:"product_type"`
	DownloadURL *string         `json:"download_url,omitempty"`
	Note        *string         `json:"note,omitempty"`
}

type ShippingAddress struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// BkashTransaction is the audit record from a completed bKash payment.
type BkashTransaction struct {
	PaymentID             string `json:"payment_id"`
	TrxID                 string `json:"trx_id"`
	TransactionStatus     string `json:"transaction_status"`
	PayerReference        string `json:"payer_reference,omitempty"`
	CustomerMsisdn        string `json:"customer_msisdn,omitempty"`
	Amount                string `json:"amount"`
	Currency              string `json:"currency"`
	Intent                string `json:"intent"`
	MerchantInvoiceNumber string `json:"merchant_invoice_number"`
}

// SSLCommerzTransaction is the audit record from a validated SSLCommerz payment.
type SSLCommerzTransaction struct {
	ValID      string `json:"val_id"`
	TranID     string `json:"tran_id"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	CardType   string `json:"card_type,omitempty"`
	CardNo     string `json:"card_no,omitempty"`
	CardIssuer string `json:"card_issuer,omitempty"`
	BankTranID string `json:"bank_tran_id,omitempty"`
	VerifyKey  string `json:"verify_key,omitempty"`
	VerifySign string `json:"verify_sign,omitempty"`
	RiskLevel  string `json:"risk_level,omitempty"`
	RiskTitle  string `json:"risk_title,omitempty"`
}

// PaymentDetails is a tagged union over the per-gateway transaction records.
// Exactly one variant is populated, selected by Method. Immutable once written.
type PaymentDetails struct {
	Method     string
	Bkash      *BkashTransaction
	SSLCommerz *SSLCommerzTransaction
}

type paymentDetailsJSON struct {
	Method     string                 `json:"method"`
	Bkash      *BkashTransaction      `json:"bkash,omitempty"`
	SSLCommerz *SSLCommerzTransaction `json:"sslcommerz,omitempty"`
}

func (d PaymentDetails) MarshalJSON() ([]byte, error) {
	return json.Marshal(paymentDetailsJSON{
		Method:     d.Method,
		Bkash:      d.Bkash,
		SSLCommerz: d.SSLCommerz,
	})
}

func (d *PaymentDetails) UnmarshalJSON(data []byte) error {
	var raw paymentDetailsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Method {
	case MethodBkash:
		if raw.Bkash == nil {
			return fmt.Errorf("payment details: method %s without transaction record", raw.Method)
		}
	case MethodSSLCommerz:
		if raw.SSLCommerz == nil {
			return fmt.Errorf("payment details: method %s without transaction record", raw.Method)
		}
	default:
		return fmt.Errorf("payment details: unknown method %q", raw.Method)
	}
	d.Method = raw.Method
	d.Bkash = raw.Bkash
	d.SSLCommerz = raw.SSLCommerz
	return nil
}

// TransactionID returns the gateway-side transaction reference preserved for
// manual reconciliation.
func (d PaymentDetails) TransactionID() string {
	switch d.Method {
	case MethodBkash:
		if d.Bkash != nil {
			return d.Bkash.TrxID
		}
	case MethodSSLCommerz:
		if d.SSLCommerz != nil {
			return d.SSLCommerz.BankTranID
		}
	}
	return ""
}

type Order struct {
	ID              string          `gorm:"primaryKey;type:varchar(36)"`
	OrderNumber     string          `gorm:"column:order_number;not null;uniqueIndex"`
	UserID          *string         `gorm:"column:user_id;type:varchar(36)"`
	CustomerEmail   string          `gorm:"column:customer_email;not null"`
	CustomerName    string          `gorm:"column:customer_name"`
	CustomerAvatar  string          `gorm:"column:customer_avatar"`
	Status          string          `gorm:"column:status;default:Pending"`
	Total           decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	PaymentMethod   string          `gorm:"column:payment_method;not null"`
	PaymentStatus   string          `gorm:"column:payment_status;default:pending"`
	PaymentDetails  json.RawMessage `gorm:"column:payment_details;type:jsonb"`
	ShippingAddress json.RawMessage `gorm:"column:shipping_address;type:jsonb"`
	Items           json.RawMessage `gorm:"column:items;type:jsonb"`
	PlacedAt        time.Time       `gorm:"column:placed_at;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;default:now()"`
}

func (Order) TableName() string {
	return "orders"
}

var statusTransitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// CanTransitionTo reports whether a staff status change is allowed.
// Delivered and Cancelled are terminal.
func (o *Order) CanTransitionTo(next string) bool {
	allowed, ok := statusTransitions[o.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}

func ValidStatus(status string) bool {
	_, ok := statusTransitions[status]
	return ok
}

func (o *Order) DecodeItems() ([]OrderItem, error) {
	var items []OrderItem
	if len(o.Items) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(o.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (o *Order) DecodePaymentDetails() (*PaymentDetails, error) {
	if len(o.PaymentDetails) == 0 {
		return nil, nil
	}
	var details PaymentDetails
	if err := json.Unmarshal(o.PaymentDetails, &details); err != nil {
		return nil, err
	}
	return &details, nil
}
