package payment

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/dhakamart/commerce/internal"
	"github.com/dhakamart/commerce/internal/checkout"
	checkoutmodel "github.com/dhakamart/commerce/internal/core/datamodel/checkout"
	ordermodel "github.com/dhakamart/commerce/internal/core/datamodel/order"
	settingsmodel "github.com/dhakamart/commerce/internal/core/datamodel/settings"
	"github.com/dhakamart/commerce/internal/core/events"
	"github.com/dhakamart/commerce/internal/gateway/bkash"
	"github.com/dhakamart/commerce/internal/gateway/sslcommerz"
	"github.com/dhakamart/commerce/internal/order"
	"github.com/dhakamart/commerce/internal/settings"
)

// Vendor-supplied status values on the bKash redirect callback.
const (
	callbackStatusSuccess = "success"
	callbackStatusFailure = "failure"
	callbackStatusCancel  = "cancel"
)

// SSLCommerz status values POSTed to the redirect/IPN endpoints.
const (
	ipnStatusFailed    = "FAILED"
	ipnStatusCancelled = "CANCELLED"
)

type Service struct {
	settings      settings.ServiceAPI
	checkout      checkout.ServiceAPI
	orders        order.ServiceAPI
	bkashClient   bkash.ClientAPI
	sslClient     sslcommerz.ClientAPI
	eventBus      *events.EventBus
	publicBaseURL string
	logger        *slog.Logger
}

func NewService(
	settingsService settings.ServiceAPI,
	checkoutService checkout.ServiceAPI,
	orderService order.ServiceAPI,
	bkashClient bkash.ClientAPI,
	sslClient sslcommerz.ClientAPI,
	eventBus *events.EventBus,
	publicBaseURL string,
	logger *slog.Logger,
) *Service {
	return &Service{
		settings:      settingsService,
		checkout:      checkoutService,
		orders:        orderService,
		bkashClient:   bkashClient,
		sslClient:     sslClient,
		eventBus:      eventBus,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

func (s *Service) GrantBkashToken(ctx context.Context) (*GrantTokenResponse, error) {
	cfg, err := s.settings.Bkash()
	if err != nil {
		return nil, err
	}

	token, err := s.bkashClient.GrantToken(ctx, *cfg)
	if err != nil {
		return nil, err
	}

	return &GrantTokenResponse{
		Token:        token.IDToken,
		ExpiresIn:    token.ExpiresIn,
		RefreshToken: token.RefreshToken,
	}, nil
}

// CreateBkashPayment opens a vendor-side payment for an existing checkout
// session. The session's order id becomes the merchant invoice number, which
// is how the execute step later maps a vendor paymentID back to the session.
func (s *Service) CreateBkashPayment(ctx context.Context, dto CreateBkashPaymentDTO) (*bkash.CreatePaymentResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cfg, err := s.settings.Bkash()
	if err != nil {
		return nil, err
	}

	session, err := s.checkout.Get(dto.OrderID)
	if err != nil {
		return nil, err
	}
	if err := s.checkGateway(session, settingsmodel.GatewayBkash); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(dto.Amount)
	if err != nil {
		return nil, apperrors.NewValidationError("amount must be a decimal number", apperrors.ErrCodeInvalidAmount)
	}
	if !amount.Equal(session.Total) {
		s.logger.Warn("bkash create amount does not match checkout total",
			"order_id", session.OrderID,
			"requested", amount.String(),
			"expected", session.Total.String())
		return nil, apperrors.NewValidationError("amount does not match checkout total", apperrors.ErrCodeInvalidAmount)
	}

	resp, err := s.bkashClient.CreatePayment(ctx, *cfg, dto.Token, bkash.CreatePaymentRequest{
		Amount:                session.Total.String(),
		MerchantInvoiceNumber: session.OrderID,
		PayerReference:        session.OrderNumber,
		CallbackURL:           s.publicBaseURL + "/api/v1/payments/bkash/callback",
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// ExecuteBkashPayment finalizes a vendor payment with a client-supplied token
// and materializes the order on success.
func (s *Service) ExecuteBkashPayment(ctx context.Context, dto ExecuteBkashPaymentDTO) (*CompletedPaymentResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cfg, err := s.settings.Bkash()
	if err != nil {
		return nil, err
	}

	return s.executeAndFinalize(ctx, cfg, dto.Token, dto.PaymentID)
}

func (s *Service) QueryBkashPayment(ctx context.Context, dto QueryBkashPaymentDTO) (*bkash.PaymentResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cfg, err := s.settings.Bkash()
	if err != nil {
		return nil, err
	}

	return s.bkashClient.QueryPayment(ctx, *cfg, dto.Token, dto.PaymentID)
}

// HandleBkashCallback processes the vendor redirect after the user acts on
// the bKash page. Cancel and failure short-circuit without calling execute;
// a missing paymentID is a hard failure, also without calling execute.
func (s *Service) HandleBkashCallback(ctx context.Context, paymentID, status string) (*CompletedPaymentResponse, error) {
	switch status {
	case callbackStatusCancel:
		s.logger.Info("bkash payment cancelled by user", "payment_id", paymentID)
		return nil, apperrors.NewValidationError("Payment was cancelled", apperrors.ErrCodePaymentCancelled)
	case callbackStatusFailure:
		s.logger.Warn("bkash payment failed at gateway", "payment_id", paymentID)
		return nil, apperrors.NewValidationError("Payment failed", apperrors.ErrCodePaymentValidation)
	}

	if paymentID == "" {
		s.logger.Error("bkash callback missing payment id", "status", status)
		return nil, apperrors.NewValidationError("Invalid payment response. Missing payment ID.", apperrors.ErrCodeInvalidCallback)
	}

	cfg, err := s.settings.Bkash()
	if err != nil {
		return nil, err
	}

	token, err := s.bkashClient.GrantToken(ctx, *cfg)
	if err != nil {
		return nil, err
	}

	return s.executeAndFinalize(ctx, cfg, token.IDToken, paymentID)
}

// executeAndFinalize runs the vendor execute step and, when the transaction
// completed, turns the checkout session into an order. A transport failure
// during execute is reconciled with one status query: the vendor may have
// completed the payment even though the response never arrived.
func (s *Service) executeAndFinalize(ctx context.Context, cfg *settingsmodel.BkashSettings, token, paymentID string) (*CompletedPaymentResponse, error) {
	result, err := s.bkashClient.ExecutePayment(ctx, *cfg, token, paymentID)
	if err != nil {
		var transportErr *bkash.TransportError
		if !errors.As(err, &transportErr) {
			return nil, err
		}

		s.logger.Warn("bkash execute interrupted, reconciling with status query",
			"payment_id", paymentID, "error", err)
		result, err = s.bkashClient.QueryPayment(ctx, *cfg, token, paymentID)
		if err != nil {
			return nil, apperrors.NewGatewayError(
				"payment state unknown, could not reach bkash",
				apperrors.ErrCodeGatewayRequest,
				http.StatusBadGateway,
			).WithCause(err)
		}
	}

	orderID := result.MerchantInvoiceNumber

	if !result.Completed() {
		s.logger.Warn("bkash transaction not completed",
			"payment_id", paymentID,
			"order_id", orderID,
			"transaction_status", result.TransactionStatus,
			"vendor_status", result.StatusCode)
		s.eventBus.Publish(ctx, events.NewPaymentFailedEvent(
			orderID, settingsmodel.GatewayBkash, result.TransactionStatus))
		return nil, apperrors.NewValidationError(
			"Payment was not completed",
			apperrors.ErrCodePaymentValidation,
		).WithDetails(map[string]string{"transaction_status": result.TransactionStatus})
	}

	details := ordermodel.PaymentDetails{
		Method: ordermodel.MethodBkash,
		Bkash: &ordermodel.BkashTransaction{
			PaymentID:             result.PaymentID,
			TrxID:                 result.TrxID,
			TransactionStatus:     result.TransactionStatus,
			PayerReference:        result.PayerReference,
			CustomerMsisdn:        result.CustomerMsisdn,
			Amount:                result.Amount,
			Currency:              result.Currency,
			Intent:                result.Intent,
			MerchantInvoiceNumber: result.MerchantInvoiceNumber,
		},
	}

	return s.finalize(ctx, orderID, details)
}

// InitSSLCommerzPayment opens a vendor checkout session from the server-side
// checkout snapshot. The client only supplies the order id; amounts and
// customer data always come from the session.
func (s *Service) InitSSLCommerzPayment(ctx context.Context, dto InitSSLCommerzPaymentDTO) (*InitSSLCommerzResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cfg, err := s.settings.SSLCommerz()
	if err != nil {
		return nil, err
	}

	session, err := s.checkout.Get(dto.OrderID)
	if err != nil {
		return nil, err
	}
	if err := s.checkGateway(session, settingsmodel.GatewaySSLCommerz); err != nil {
		return nil, err
	}

	items, err := session.DecodeItems()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to decode cart items", err)
	}
	addr, err := session.DecodeShippingAddress()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to decode shipping address", err)
	}
	if addr == nil {
		addr = &ordermodel.ShippingAddress{}
	}

	ipnURL := s.publicBaseURL + "/api/v1/payments/sslcommerz/ipn"
	resp, err := s.sslClient.InitPayment(ctx, *cfg, sslcommerz.InitPaymentRequest{
		Amount:     session.Total.String(),
		TranID:     session.OrderID,
		NumOfItems: len(items),

		CustomerName:  session.CustomerName,
		CustomerEmail: session.CustomerEmail,
		CustomerPhone: addr.Phone,

		ShippingName:     addr.Name,
		ShippingAddress:  addr.Address,
		ShippingCity:     addr.City,
		ShippingPostcode: addr.Postcode,
		ShippingCountry:  addr.Country,

		SuccessURL: ipnURL,
		FailURL:    ipnURL,
		CancelURL:  ipnURL,
		IPNURL:     ipnURL,
	})
	if err != nil {
		return nil, err
	}

	return &InitSSLCommerzResponse{
		Status:         resp.Status,
		SessionKey:     resp.SessionKey,
		GatewayPageURL: resp.GatewayPageURL,
	}, nil
}

// ValidateSSLCommerzPayment is the authoritative completion check for
// SSLCommerz; only a vendor-confirmed VALID/VALIDATED status materializes
// the order.
func (s *Service) ValidateSSLCommerzPayment(ctx context.Context, dto ValidateSSLCommerzDTO) (*CompletedPaymentResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cfg, err := s.settings.SSLCommerz()
	if err != nil {
		return nil, err
	}

	resp, err := s.sslClient.ValidatePayment(ctx, *cfg, dto.ValID)
	if err != nil {
		return nil, err
	}

	orderID := resp.TranID

	if !resp.Valid() {
		s.logger.Warn("sslcommerz validation rejected",
			"val_id", dto.ValID,
			"order_id", orderID,
			"vendor_status", resp.Status)
		s.eventBus.Publish(ctx, events.NewPaymentFailedEvent(
			orderID, settingsmodel.GatewaySSLCommerz, resp.Status))
		return nil, apperrors.NewValidationError(
			"Payment validation failed",
			apperrors.ErrCodePaymentValidation,
		).WithDetails(map[string]string{"vendor_status": resp.Status})
	}

	details := ordermodel.PaymentDetails{
		Method: ordermodel.MethodSSLCommerz,
		SSLCommerz: &ordermodel.SSLCommerzTransaction{
			ValID:      resp.ValID,
			TranID:     resp.TranID,
			Amount:     resp.Amount,
			Currency:   resp.Currency,
			CardType:   resp.CardType,
			CardNo:     resp.CardNo,
			CardIssuer: resp.CardIssuer,
			BankTranID: resp.BankTranID,
			VerifyKey:  resp.VerifyKey,
			VerifySign: resp.VerifySign,
			RiskLevel:  resp.RiskLevel,
			RiskTitle:  resp.RiskTitle,
		},
	}

	return s.finalize(ctx, orderID, details)
}

// HandleSSLCommerzIPN processes the server-to-server notification (and the
// browser redirects, which carry the same form fields). The POSTed fields are
// never trusted: completion always goes through a server-side validate call.
func (s *Service) HandleSSLCommerzIPN(ctx context.Context, form url.Values) (*CompletedPaymentResponse, error) {
	status := form.Get("status")
	valID := form.Get("val_id")
	tranID := form.Get("tran_id")

	switch status {
	case ipnStatusCancelled:
		s.logger.Info("sslcommerz payment cancelled by user", "tran_id", tranID)
		return nil, apperrors.NewValidationError("Payment was cancelled", apperrors.ErrCodePaymentCancelled)
	case ipnStatusFailed:
		s.logger.Warn("sslcommerz payment failed at gateway", "tran_id", tranID)
		s.eventBus.Publish(ctx, events.NewPaymentFailedEvent(
			tranID, settingsmodel.GatewaySSLCommerz, status))
		return nil, apperrors.NewValidationError("Payment failed", apperrors.ErrCodePaymentValidation)
	}

	if valID == "" {
		s.logger.Error("sslcommerz notification missing val_id", "tran_id", tranID, "status", status)
		return nil, apperrors.NewValidationError("Invalid payment notification", apperrors.ErrCodeInvalidCallback)
	}

	return s.ValidateSSLCommerzPayment(ctx, ValidateSSLCommerzDTO{ValID: valID})
}

// finalize materializes the order and then consumes the checkout session.
// The order row is written first so a persistence failure leaves the session
// unconsumed and the callback replayable. A session already consumed means a
// duplicate callback: the existing order is returned instead of a new one.
func (s *Service) finalize(ctx context.Context, orderID string, details ordermodel.PaymentDetails) (*CompletedPaymentResponse, error) {
	session, err := s.checkout.Get(orderID)
	if err != nil {
		return nil, err
	}

	if session.Consumed() {
		existing, err := s.orders.Get(orderID)
		if err != nil {
			s.logger.Error("checkout consumed but order missing", "order_id", orderID, "error", err)
			return nil, err
		}
		s.logger.Info("duplicate payment callback, returning existing order", "order_id", orderID)
		return completedResponse(existing), nil
	}

	o, err := s.orders.Materialize(session, details)
	if err != nil {
		return nil, err
	}

	// ErrCheckoutConsumed here means a concurrent callback raced us past the
	// Consumed check; both materialized the same row, so the order stands.
	if _, err := s.checkout.Consume(orderID); err != nil && !errors.Is(err, apperrors.ErrCheckoutConsumed) {
		s.logger.Error("order persisted but session not consumed", "order_id", orderID, "error", err)
		return nil, err
	}

	s.eventBus.Publish(ctx, events.NewPaymentCompletedEvent(
		o.ID, details.Method, details.TransactionID(), o.Total.String()))

	return completedResponse(o), nil
}

func (s *Service) checkGateway(session *checkoutmodel.Session, gateway string) error {
	if session.Gateway != gateway {
		s.logger.Warn("checkout session bound to a different gateway",
			"order_id", session.OrderID,
			"session_gateway", session.Gateway,
			"requested", gateway)
		return apperrors.NewValidationError(
			"checkout session was started for a different payment gateway",
			apperrors.ErrCodeValidationFailed)
	}
	return nil
}

func completedResponse(o *ordermodel.Order) *CompletedPaymentResponse {
	resp := &CompletedPaymentResponse{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		Total:         o.Total.String(),
	}
	if details, err := o.DecodePaymentDetails(); err == nil && details != nil {
		resp.TransactionID = details.TransactionID()
	}
	return resp
}
