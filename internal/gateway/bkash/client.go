package bkash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	apperrors "github.com/dhakamart/commerce/internal"
	settingsmodel "github.com/dhakamart/commerce/internal/core/datamodel/settings"
)

// Vendor success code for the tokenized checkout API.
const StatusCodeSuccess = "0000"

// TransactionStatus value that confirms a completed payment. Anything else
// returned by execute or query is a failure.
const TransactionStatusCompleted = "Completed"

const (
	modeCheckout    = "0011"
	intentSale      = "sale"
	currencyBDT     = "BDT"
	defaultTimeout  = 30 * time.Second
	defaultAttempts = 3
	defaultBaseWait = 500 * time.Millisecond
)

// TransportError marks a failure before any vendor response was read. The
// orchestrator reconciles these with a status query instead of assuming
// the vendor-side state.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("bkash %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type TokenResponse struct {
	IDToken      string `json:"id_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	StatusCode   string `json:"statusCode"`
	StatusMsg    string `json:"statusMessage"`
}

type CreatePaymentRequest struct {
	Amount                string
	MerchantInvoiceNumber string
	PayerReference        string
	CallbackURL           string
}

type CreatePaymentResponse struct {
	PaymentID             string `json:"paymentID"`
	BkashURL              string `json:"bkashURL"`
	CallbackURL           string `json:"callbackURL"`
	Amount                string `json:"amount"`
	Intent                string `json:"intent"`
	Currency              string `json:"currency"`
	PaymentCreateTime     string `json:"paymentCreateTime"`
	TransactionStatus     string `json:"transactionStatus"`
	MerchantInvoiceNumber string `json:"merchantInvoiceNumber"`
	StatusCode            string `json:"statusCode"`
	StatusMsg             string `json:"statusMessage"`
}

type PaymentResult struct {
	PaymentID             string `json:"paymentID"`
	TrxID                 string `json:"trxID"`
	TransactionStatus     string `json:"transactionStatus"`
	Amount                string `json:"amount"`
	Currency              string `json:"currency"`
	Intent                string `json:"intent"`
	MerchantInvoiceNumber string `json:"merchantInvoiceNumber"`
	PayerReference        string `json:"payerReference"`
	CustomerMsisdn        string `json:"customerMsisdn"`
	PaymentExecuteTime    string `json:"paymentExecuteTime"`
	StatusCode            string `json:"statusCode"`
	StatusMsg             string `json:"statusMessage"`
}

func (r *PaymentResult) Completed() bool {
	return r.TransactionStatus == TransactionStatusCompleted
}

// ClientAPI is the adapter surface consumed by the payment orchestrator.
// Settings are passed per call: the orchestrator re-reads the settings store
// before every transaction so admin edits take effect immediately.
type ClientAPI interface {
	GrantToken(ctx context.Context, cfg settingsmodel.BkashSettings) (*TokenResponse, error)
	CreatePayment(ctx context.Context, cfg settingsmodel.BkashSettings, token string, req CreatePaymentRequest) (*CreatePaymentResponse, error)
	ExecutePayment(ctx context.Context, cfg settingsmodel.BkashSettings, token, paymentID string) (*PaymentResult, error)
	QueryPayment(ctx context.Context, cfg settingsmodel.BkashSettings, token, paymentID string) (*PaymentResult, error)
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

// GrantToken obtains a short-lived bearer token from the vendor. Safe to
// retry: no vendor-side state is created.
func (c *Client) GrantToken(ctx context.Context, cfg settingsmodel.BkashSettings) (*TokenResponse, error) {
	payload := map[string]string{
		"app_key":    cfg.Credentials.AppKey,
		"app_secret": cfg.Credentials.AppSecret,
	}

	headers := map[string]string{
		"username": cfg.Credentials.Username,
		"password": cfg.Credentials.Password,
	}

	var resp TokenResponse
	err := c.doWithRetry(ctx, "grant token", func(ctx context.Context) error {
		return c.postJSON(ctx, cfg.BaseURL()+"/checkout/token/grant", headers, "", payload, &resp)
	})
	if err != nil {
		c.logger.Error("bkash token grant failed", "error", err)
		if _, ok := err.(*TransportError); ok {
			return nil, apperrors.NewGatewayError("failed to reach bkash", apperrors.ErrCodeGatewayAuth, http.StatusBadGateway).WithCause(err)
		}
		return nil, err
	}

	if resp.IDToken == "" {
		c.logger.Error("bkash token grant returned no token",
			"status_code", resp.StatusCode,
			"status_message", resp.StatusMsg)
		return nil, apperrors.NewGatewayError("bkash authentication failed", apperrors.ErrCodeGatewayAuth, http.StatusBadGateway)
	}

	c.logger.Info("bkash token granted", "expires_in", resp.ExpiresIn)
	return &resp, nil
}

// CreatePayment opens a vendor-side payment. The vendor treats creation and
// completion as separate irrevocable steps; this never skips to execute.
func (c *Client) CreatePayment(ctx context.Context, cfg settingsmodel.BkashSettings, token string, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	payload := map[string]string{
		"mode":                  modeCheckout,
		"payerReference":        req.PayerReference,
		"callbackURL":           req.CallbackURL,
		"amount":                req.Amount,
		"currency":              currencyBDT,
		"intent":                intentSale,
		"merchantInvoiceNumber": req.MerchantInvoiceNumber,
	}

	headers := map[string]string{
		"X-APP-Key": cfg.Credentials.AppKey,
	}

	var resp CreatePaymentResponse
	err := c.doWithRetry(ctx, "create payment", func(ctx context.Context) error {
		return c.postJSON(ctx, cfg.BaseURL()+"/checkout/create", headers, token, payload, &resp)
	})
	if err != nil {
		c.logger.Error("bkash create payment failed", "error", err, "invoice", req.MerchantInvoiceNumber)
		if _, ok := err.(*TransportError); ok {
			return nil, apperrors.NewGatewayError("failed to reach bkash", apperrors.ErrCodeGatewayRequest, http.StatusBadGateway).WithCause(err)
		}
		return nil, err
	}

	if resp.StatusCode != StatusCodeSuccess {
		c.logger.Error("bkash create payment rejected",
			"status_code", resp.StatusCode,
			"status_message", resp.StatusMsg,
			"invoice", req.MerchantInvoiceNumber)
		return nil, apperrors.NewGatewayError(
			fmt.Sprintf("bkash rejected payment creation: %s", resp.StatusMsg),
			apperrors.ErrCodeGatewayRequest,
			http.StatusBadGateway,
		).WithDetails(map[string]string{"vendor_status": resp.StatusCode})
	}

	c.logger.Info("bkash payment created",
		"payment_id", resp.PaymentID,
		"invoice", req.MerchantInvoiceNumber)
	return &resp, nil
}

// ExecutePayment finalizes a vendor-side payment. Never retried here: a
// timed-out execute may already have moved vendor-side state, so the caller
// reconciles with QueryPayment instead.
func (c *Client) ExecutePayment(ctx context.Context, cfg settingsmodel.BkashSettings, token, paymentID string) (*PaymentResult, error) {
	payload := map[string]string{"paymentID": paymentID}
	headers := map[string]string{"X-APP-Key": cfg.Credentials.AppKey}

	var resp PaymentResult
	if err := c.postJSON(ctx, cfg.BaseURL()+"/checkout/execute", headers, token, payload, &resp); err != nil {
		c.logger.Error("bkash execute payment failed", "error", err, "payment_id", paymentID)
		return nil, err
	}

	c.logger.Info("bkash execute payment response",
		"payment_id", resp.PaymentID,
		"trx_id", resp.TrxID,
		"transaction_status", resp.TransactionStatus)
	return &resp, nil
}

// QueryPayment is a read-only poll of vendor state, used to reconcile an
// interrupted execute.
func (c *Client) QueryPayment(ctx context.Context, cfg settingsmodel.BkashSettings, token, paymentID string) (*PaymentResult, error) {
	payload := map[string]string{"paymentID": paymentID}
	headers := map[string]string{"X-APP-Key": cfg.Credentials.AppKey}

	var resp PaymentResult
	if err := c.postJSON(ctx, cfg.BaseURL()+"/checkout/payment/status", headers, token, payload, &resp); err != nil {
		c.logger.Error("bkash query payment failed", "error", err, "payment_id", paymentID)
		return nil, err
	}

	c.logger.Info("bkash query payment response",
		"payment_id", resp.PaymentID,
		"transaction_status", resp.TransactionStatus)
	return &resp, nil
}

// doWithRetry runs a side-effect-free call with bounded exponential backoff.
// Only transport-level failures are retried; vendor rejections return as-is.
func (c *Client) doWithRetry(ctx context.Context, op string, call func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(c.retryAttempts, retry.NewExponential(c.retryBaseDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := call(ctx)
		if err == nil {
			return nil
		}
		if _, ok := err.(*TransportError); ok {
			c.logger.Warn("bkash call failed, will retry", "op", op, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *Client) postJSON(ctx context.Context, url string, headers map[string]string, token string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: url, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("bkash returned non-2xx",
			"url", url,
			"status", resp.StatusCode,
			"body", string(respBody))
		return apperrors.NewGatewayError(
			fmt.Sprintf("bkash returned status %d", resp.StatusCode),
			apperrors.ErrCodeGatewayRequest,
			resp.StatusCode,
		)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		c.logger.Error("bkash returned malformed body", "url", url, "error", err)
		return apperrors.NewGatewayError("bkash returned malformed response", apperrors.ErrCodeGatewayRequest, http.StatusBadGateway).WithCause(err)
	}

	return nil
}
