package settings

import (
	"encoding/json"
	"time"
)

const (
	GatewayBkash      = "bkash"
	GatewaySSLCommerz = "sslcommerz"
)

// PaymentSettings is one row per gateway. Credentials is a gateway-specific
// JSON blob decoded into the typed credential structs below.
type PaymentSettings struct {
	ID          int64           `gorm:"primaryKey"`
	Gateway     string          `gorm:"column:gateway;not null;uniqueIndex"`
	Credentials json.RawMessage `gorm:"column:credentials;type:jsonb"`
	IsSandbox   bool            `gorm:"column:is_sandbox;default:true"`
	IsEnabled   bool            `gorm:"column:is_enabled;default:false"`
	CreatedAt   time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;default:now()"`
}

func (PaymentSettings) TableName() string {
	return "payment_settings"
}

type BkashCredentials struct {
	AppKey    string `json:"app_key"`
	AppSecret string `json:"app_secret"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

func (c BkashCredentials) Complete() bool {
	return c.AppKey != "" && c.AppSecret != "" && c.Username != "" && c.Password != ""
}

type SSLCommerzCredentials struct {
	StoreID       string `json:"store_id"`
	StorePassword string `json:"store_password"`
}

func (c SSLCommerzCredentials) Complete() bool {
	return c.StoreID != "" && c.StorePassword != ""
}

const (
	bkashSandboxBaseURL = "https://tokenized.sandbox.bka.sh/v1.2.0-beta/tokenized"
	bkashLiveBaseURL    = "https://tokenized.pay.bka.sh/v1.2.0-beta/tokenized"

	sslcommerzSandboxBaseURL = "https://sandbox.sslcommerz.com"
	sslcommerzLiveBaseURL    = "https://securepay.sslcommerz.com"
)

// BkashSettings is the decoded, validated view consumed by the bKash adapter.
type BkashSettings struct {
	Credentials BkashCredentials
	IsSandbox   bool

	// BaseURLOverride points the adapter at a test server when set.
	BaseURLOverride string
}

func (s BkashSettings) BaseURL() string {
	if s.BaseURLOverride != "" {
		return s.BaseURLOverride
	}
	if s.IsSandbox {
		return bkashSandboxBaseURL
	}
	return bkashLiveBaseURL
}

// SSLCommerzSettings is the decoded, validated view consumed by the SSLCommerz adapter.
type SSLCommerzSettings struct {
	Credentials SSLCommerzCredentials
	IsSandbox   bool

	BaseURLOverride string
}

func (s SSLCommerzSettings) BaseURL() string {
	if s.BaseURLOverride != "" {
		return s.BaseURLOverride
	}
	if s.IsSandbox {
		return sslcommerzSandboxBaseURL
	}
	return sslcommerzLiveBaseURL
}
