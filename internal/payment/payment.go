package payment

import (
	"context"
	"net/url"

	"github.com/dhakamart/commerce/internal/gateway/bkash"
)

// ServiceAPI sequences the multi-step payment lifecycle for both gateways
// and owns the single place where a checkout session becomes an order.
type ServiceAPI interface {
	GrantBkashToken(ctx context.Context) (*GrantTokenResponse, error)
	CreateBkashPayment(ctx context.Context, dto CreateBkashPaymentDTO) (*bkash.CreatePaymentResponse, error)
	ExecuteBkashPayment(ctx context.Context, dto ExecuteBkashPaymentDTO) (*CompletedPaymentResponse, error)
	QueryBkashPayment(ctx context.Context, dto QueryBkashPaymentDTO) (*bkash.PaymentResult, error)
	HandleBkashCallback(ctx context.Context, paymentID, status string) (*CompletedPaymentResponse, error)

	InitSSLCommerzPayment(ctx context.Context, dto InitSSLCommerzPaymentDTO) (*InitSSLCommerzResponse, error)
	ValidateSSLCommerzPayment(ctx context.Context, dto ValidateSSLCommerzDTO) (*CompletedPaymentResponse, error)
	HandleSSLCommerzIPN(ctx context.Context, form url.Values) (*CompletedPaymentResponse, error)
}
