package sslcommerz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	apperrors "github.com/dhakamart/commerce/internal"
	settingsmodel "github.com/dhakamart/commerce/internal/core/datamodel/settings"
)

// Vendor statuses that confirm a completed payment. Exact match only; the
// vendor documents no case variants and none are accepted.
const (
	StatusValid     = "VALID"
	StatusValidated = "VALIDATED"

	initStatusSuccess = "SUCCESS"
)

// Fallback values used when the checkout submission carries incomplete
// customer or shipping data. The vendor requires these fields; substituting
// placeholders keeps checkout unblocked at the cost of data quality.
const (
	fallbackField    = "N/A"
	fallbackCity     = "Dhaka"
	fallbackPostcode = "1000"
	fallbackCountry  = "Bangladesh"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultAttempts = 3
	defaultBaseWait = 500 * time.Millisecond
)

type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("sslcommerz %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type InitPaymentRequest struct {
	Amount     string
	TranID     string
	NumOfItems int

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	ShippingName     string
	ShippingAddress  string
	ShippingCity     string
	ShippingPostcode string
	ShippingCountry  string

	SuccessURL string
	FailURL    string
	CancelURL  string
	IPNURL     string
}

type InitPaymentResponse struct {
	Status         string `json:"status"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
	FailedReason   string `json:"failedreason"`
}

type ValidationResponse struct {
	Status     string `json:"status"`
	TranDate   string `json:"tran_date"`
	TranID     string `json:"tran_id"`
	ValID      string `json:"val_id"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	CardType   string `json:"card_type"`
	CardNo     string `json:"card_no"`
	CardIssuer string `json:"card_issuer"`
	BankTranID string `json:"bank_tran_id"`
	VerifySign string `json:"verify_sign"`
	VerifyKey  string `json:"verify_key"`
	RiskLevel  string `json:"risk_level"`
	RiskTitle  string `json:"risk_title"`
}

func (r *ValidationResponse) Valid() bool {
	return r.Status == StatusValid || r.Status == StatusValidated
}

type ClientAPI interface {
	InitPayment(ctx context.Context, cfg settingsmodel.SSLCommerzSettings, req InitPaymentRequest) (*InitPaymentResponse, error)
	ValidatePayment(ctx context.Context, cfg settingsmodel.SSLCommerzSettings, valID string) (*ValidationResponse, error)
}

type Config struct {
	Timeout        time.Duration
	RetryAttempts  int
	RetryBaseDelay time.Duration
}

type Client struct {
	http           *http.Client
	retryAttempts  uint64
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseWait
	}
	return &Client{
		http:           &http.Client{Timeout: timeout},
		retryAttempts:  uint64(attempts),
		retryBaseDelay: baseDelay,
		logger:         logger,
	}
}

// InitPayment opens a vendor checkout session. Safe to retry on transport
// failure: an unused session simply expires vendor-side.
func (c *Client) InitPayment(ctx context.Context, cfg settingsmodel.SSLCommerzSettings, req InitPaymentRequest) (*InitPaymentResponse, error) {
	form := c.buildInitForm(cfg, req)

	var resp InitPaymentResponse
	backoff := retry.WithMaxRetries(c.retryAttempts, retry.NewExponential(c.retryBaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.postForm(ctx, cfg.BaseURL()+"/gwprocess/v4/api.php", form, &resp)
		if err != nil {
			if _, ok := err.(*TransportError); ok {
				c.logger.Warn("sslcommerz init failed, will retry", "error", err, "tran_id", req.TranID)
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		c.logger.Error("sslcommerz init payment failed", "error", err, "tran_id", req.TranID)
		if _, ok := err.(*TransportError); ok {
			return nil, apperrors.NewGatewayError("failed to reach sslcommerz", apperrors.ErrCodeGatewayRequest, http.StatusBadGateway).WithCause(err)
		}
		return nil, err
	}

	if resp.Status != initStatusSuccess || resp.GatewayPageURL == "" {
		c.logger.Error("sslcommerz rejected session init",
			"status", resp.Status,
			"reason", resp.FailedReason,
			"tran_id", req.TranID)
		return nil, apperrors.NewGatewayError(
			fmt.Sprintf("sslcommerz rejected payment session: %s", resp.FailedReason),
			apperrors.ErrCodeGatewayRequest,
			http.StatusBadGateway,
		)
	}

	c.logger.Info("sslcommerz payment session created",
		"tran_id", req.TranID,
		"session_key", resp.SessionKey)
	return &resp, nil
}

// ValidatePayment is the authoritative completion check for SSLCommerz.
// Never retried: it reflects vendor-side state that a retry cannot change.
func (c *Client) ValidatePayment(ctx context.Context, cfg settingsmodel.SSLCommerzSettings, valID string) (*ValidationResponse, error) {
	query := url.Values{}
	query.Set("val_id", valID)
	query.Set("store_id", cfg.Credentials.StoreID)
	query.Set("store_passwd", cfg.Credentials.StorePassword)
	query.Set("format", "json")

	endpoint := cfg.BaseURL() + "/validator/api/validationserverAPI.php?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("sslcommerz validation request failed", "error", err, "val_id", valID)
		return nil, &TransportError{Op: "validate", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "validate", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("sslcommerz validator returned non-200",
			"status", resp.StatusCode,
			"body", string(respBody))
		return nil, apperrors.NewGatewayError(
			fmt.Sprintf("sslcommerz validator returned status %d", resp.StatusCode),
			apperrors.ErrCodeGatewayRequest,
			resp.StatusCode,
		)
	}

	var validation ValidationResponse
	if err := json.Unmarshal(respBody, &validation); err != nil {
		c.logger.Error("sslcommerz validator returned malformed body", "error", err)
		return nil, apperrors.NewGatewayError("sslcommerz returned malformed response", apperrors.ErrCodeGatewayRequest, http.StatusBadGateway).WithCause(err)
	}

	c.logger.Info("sslcommerz validation response",
		"val_id", validation.ValID,
		"tran_id", validation.TranID,
		"status", validation.Status)
	return &validation, nil
}

func (c *Client) buildInitForm(cfg settingsmodel.SSLCommerzSettings, req InitPaymentRequest) url.Values {
	form := url.Values{}
	form.Set("store_id", cfg.Credentials.StoreID)
	form.Set("store_passwd", cfg.Credentials.StorePassword)
	form.Set("total_amount", req.Amount)
	form.Set("currency", "BDT")
	form.Set("tran_id", req.TranID)
	form.Set("success_url", req.SuccessURL)
	form.Set("fail_url", req.FailURL)
	form.Set("cancel_url", req.CancelURL)
	if req.IPNURL != "" {
		form.Set("ipn_url", req.IPNURL)
	}

	form.Set("cus_name", c.orFallback(req.CustomerName, fallbackField, "cus_name", req.TranID))
	form.Set("cus_email", c.orFallback(req.CustomerEmail, fallbackField, "cus_email", req.TranID))
	form.Set("cus_phone", c.orFallback(req.CustomerPhone, fallbackField, "cus_phone", req.TranID))
	form.Set("cus_add1", c.orFallback(req.ShippingAddress, fallbackField, "cus_add1", req.TranID))
	form.Set("cus_city", c.orFallback(req.ShippingCity, fallbackCity, "cus_city", req.TranID))
	form.Set("cus_postcode", c.orFallback(req.ShippingPostcode, fallbackPostcode, "cus_postcode", req.TranID))
	form.Set("cus_country", c.orFallback(req.ShippingCountry, fallbackCountry, "cus_country", req.TranID))

	form.Set("shipping_method", "Courier")
	form.Set("ship_name", c.orFallback(req.ShippingName, fallbackField, "ship_name", req.TranID))
	form.Set("ship_add1", c.orFallback(req.ShippingAddress, fallbackField, "ship_add1", req.TranID))
	form.Set("ship_city", c.orFallback(req.ShippingCity, fallbackCity, "ship_city", req.TranID))
	form.Set("ship_postcode", c.orFallback(req.ShippingPostcode, fallbackPostcode, "ship_postcode", req.TranID))
	form.Set("ship_country", c.orFallback(req.ShippingCountry, fallbackCountry, "ship_country", req.TranID))

	form.Set("product_name", "Order "+req.TranID)
	form.Set("product_category", "General")
	form.Set("product_profile", "general")
	numItems := req.NumOfItems
	if numItems <= 0 {
		numItems = 1
	}
	form.Set("num_of_item", fmt.Sprintf("%d", numItems))

	return form
}

// orFallback substitutes a placeholder for a missing field and logs the
// substitution so shipping data-quality gaps stay visible.
func (c *Client) orFallback(value, fallback, field, tranID string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	c.logger.Warn("sslcommerz init: substituting fallback for missing field",
		"field", field,
		"fallback", fallback,
		"tran_id", tranID)
	return fallback
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: endpoint, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: endpoint, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("sslcommerz returned non-200",
			"url", endpoint,
			"status", resp.StatusCode,
			"body", string(respBody))
		return apperrors.NewGatewayError(
			fmt.Sprintf("sslcommerz returned status %d", resp.StatusCode),
			apperrors.ErrCodeGatewayRequest,
			resp.StatusCode,
		)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		c.logger.Error("sslcommerz returned malformed body", "url", endpoint, "error", err)
		return apperrors.NewGatewayError("sslcommerz returned malformed response", apperrors.ErrCodeGatewayRequest, http.StatusBadGateway).WithCause(err)
	}

	return nil
}
