package payment

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	apperrors "github.com/dhakamart/commerce/internal"
	"github.com/dhakamart/commerce/internal/checkout"
	checkoutmodel "github.com/dhakamart/commerce/internal/core/datamodel/checkout"
	ordermodel "github.com/dhakamart/commerce/internal/core/datamodel/order"
	settingsmodel "github.com/dhakamart/commerce/internal/core/datamodel/settings"
	"github.com/dhakamart/commerce/internal/core/events"
	"github.com/dhakamart/commerce/internal/gateway/bkash"
	"github.com/dhakamart/commerce/internal/order"
	"github.com/dhakamart/commerce/internal/gateway/sslcommerz"
	"github.com/dhakamart/commerce/internal/settings"
)

func TestPaymentService(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Payment Orchestrator Suite")
}

// ---- mocks ----

type mockSettingsService struct {
	bkash    *settingsmodel.BkashSettings
	ssl      *settingsmodel.SSLCommerzSettings
	bkashErr error
	sslErr   error
}

func (m *mockSettingsService) Bkash() (*settingsmodel.BkashSettings, error) {
	if m.bkashErr != nil {
		return nil, m.bkashErr
	}
	return m.bkash, nil
}

func (m *mockSettingsService) SSLCommerz() (*settingsmodel.SSLCommerzSettings, error) {
	if m.sslErr != nil {
		return nil, m.sslErr
	}
	return m.ssl, nil
}

func (m *mockSettingsService) Get(gateway string) (*settingsmodel.PaymentSettings, error) {
	return nil, apperrors.ErrGatewayNotConfigured
}

func (m *mockSettingsService) Update(gateway string, dto settings.UpdateSettingsDTO) (*settingsmodel.PaymentSettings, error) {
	return nil, apperrors.ErrGatewayNotConfigured
}

type mockCheckoutService struct {
	sessions   map[string]*checkoutmodel.Session
	consumed   map[string]bool
	consumeErr error
}

func newMockCheckoutService() *mockCheckoutService {
	return &mockCheckoutService{
		sessions: map[string]*checkoutmodel.Session{},
		consumed: map[string]bool{},
	}
}

func (m *mockCheckoutService) Begin(dto checkout.BeginCheckoutDTO) (*checkoutmodel.Session, error) {
	return nil, errors.New("not implemented")
}

func (m *mockCheckoutService) Get(orderID string) (*checkoutmodel.Session, error) {
	s, ok := m.sessions[orderID]
	if !ok {
		return nil, apperrors.ErrCheckoutNotFound
	}
	return s, nil
}

func (m *mockCheckoutService) Consume(orderID string) (*checkoutmodel.Session, error) {
	if m.consumeErr != nil {
		return nil, m.consumeErr
	}
	s, ok := m.sessions[orderID]
	if !ok {
		return nil, apperrors.ErrCheckoutNotFound
	}
	if s.Consumed() {
		return nil, apperrors.ErrCheckoutConsumed
	}
	now := time.Now().UTC()
	s.ConsumedAt = &now
	m.consumed[orderID] = true
	return s, nil
}

type mockOrderService struct {
	orders           map[string]*ordermodel.Order
	materializeCalls int
}

func newMockOrderService() *mockOrderService {
	return &mockOrderService{orders: map[string]*ordermodel.Order{}}
}

func (m *mockOrderService) Materialize(session *checkoutmodel.Session, details ordermodel.PaymentDetails) (*ordermodel.Order, error) {
	m.materializeCalls++
	detailsJSON, _ := json.Marshal(details)
	o := &ordermodel.Order{
		ID:             session.OrderID,
		OrderNumber:    session.OrderNumber,
		Status:         ordermodel.StatusPending,
		Total:          session.Total,
		PaymentMethod:  details.Method,
		PaymentStatus:  ordermodel.PaymentCompleted,
		PaymentDetails: detailsJSON,
		PlacedAt:       time.Now().UTC(),
	}
	m.orders[o.ID] = o
	return o, nil
}

func (m *mockOrderService) Get(id string) (*ordermodel.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, apperrors.ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrderService) List() ([]*ordermodel.Order, error) {
	return nil, nil
}

func (m *mockOrderService) UpdateStatus(id string, dto order.UpdateStatusDTO) (*ordermodel.Order, error) {
	return nil, errors.New("not implemented")
}

type mockBkashClient struct {
	grantCalls   int
	createCalls  int
	executeCalls int
	queryCalls   int

	grantResp   *bkash.TokenResponse
	grantErr    error
	createResp  *bkash.CreatePaymentResponse
	createErr   error
	createReq   bkash.CreatePaymentRequest
	executeResp *bkash.PaymentResult
	executeErr  error
	queryResp   *bkash.PaymentResult
	queryErr    error
}

func (m *mockBkashClient) GrantToken(ctx context.Context, cfg settingsmodel.BkashSettings) (*bkash.TokenResponse, error) {
	m.grantCalls++
	return m.grantResp, m.grantErr
}

func (m *mockBkashClient) CreatePayment(ctx context.Context, cfg settingsmodel.BkashSettings, token string, req bkash.CreatePaymentRequest) (*bkash.CreatePaymentResponse, error) {
	m.createCalls++
	m.createReq = req
	return m.createResp, m.createErr
}

func (m *mockBkashClient) ExecutePayment(ctx context.Context, cfg settingsmodel.BkashSettings, token, paymentID string) (*bkash.PaymentResult, error) {
	m.executeCalls++
	return m.executeResp, m.executeErr
}

func (m *mockBkashClient) QueryPayment(ctx context.Context, cfg settingsmodel.BkashSettings, token, paymentID string) (*bkash.PaymentResult, error) {
	m.queryCalls++
	return m.queryResp, m.queryErr
}

type mockSSLClient struct {
	initCalls     int
	validateCalls int

	initResp     *sslcommerz.InitPaymentResponse
	initErr      error
	initReq      sslcommerz.InitPaymentRequest
	validateResp *sslcommerz.ValidationResponse
	validateErr  error
}

func (m *mockSSLClient) InitPayment(ctx context.Context, cfg settingsmodel.SSLCommerzSettings, req sslcommerz.InitPaymentRequest) (*sslcommerz.InitPaymentResponse, error) {
	m.initCalls++
	m.initReq = req
	return m.initResp, m.initErr
}

func (m *mockSSLClient) ValidatePayment(ctx context.Context, cfg settingsmodel.SSLCommerzSettings, valID string) (*sslcommerz.ValidationResponse, error) {
	m.validateCalls++
	return m.validateResp, m.validateErr
}

// ---- fixtures ----

func bkashSession(orderID string) *checkoutmodel.Session {
	items, _ := json.Marshal([]ordermodel.OrderItem{{
		ProductID: "p1", Name: "Jamdani Saree", Quantity: 1, Price: decimal.RequireFromString("1000.00"),
	}})
	return &checkoutmodel.Session{
		OrderID:       orderID,
		OrderNumber:   "DM-TEST0001",
		CustomerEmail: "rahim@example.com",
		CustomerName:  "Rahim",
		Gateway:       settingsmodel.GatewayBkash,
		Items:         items,
		Total:         decimal.RequireFromString("1000.00"),
	}
}

func sslSession(orderID string) *checkoutmodel.Session {
	s := bkashSession(orderID)
	s.Gateway = settingsmodel.GatewaySSLCommerz
	addr, _ := json.Marshal(ordermodel.ShippingAddress{
		Name: "Rahim", Phone: "01700000000", Address: "House 1", City: "Dhaka", Postcode: "1207", Country: "Bangladesh",
	})
	s.ShippingAddress = addr
	return s
}

var _ = ginkgo.Describe("Payment Service", func() {
	var (
		service       *Service
		settingsMock  *mockSettingsService
		checkoutMock  *mockCheckoutService
		ordersMock    *mockOrderService
		bkashMock     *mockBkashClient
		sslMock       *mockSSLClient
		ctx           context.Context
		completedExec *bkash.PaymentResult
	)

	ginkgo.BeforeEach(func() {
		settingsMock = &mockSettingsService{
			bkash: &settingsmodel.BkashSettings{
				Credentials: settingsmodel.BkashCredentials{
					AppKey: "k", AppSecret: "s", Username: "u", Password: "p",
				},
				IsSandbox: true,
			},
			ssl: &settingsmodel.SSLCommerzSettings{
				Credentials: settingsmodel.SSLCommerzCredentials{
					StoreID: "store", StorePassword: "pass",
				},
				IsSandbox: true,
			},
		}
		checkoutMock = newMockCheckoutService()
		ordersMock = newMockOrderService()
		bkashMock = &mockBkashClient{
			grantResp: &bkash.TokenResponse{IDToken: "token-abc", ExpiresIn: 3600},
		}
		sslMock = &mockSSLClient{}
		ctx = context.Background()

		completedExec = &bkash.PaymentResult{
			PaymentID:             "TR0011abc",
			TrxID:                 "TRX123",
			TransactionStatus:     bkash.TransactionStatusCompleted,
			Amount:                "1000.00",
			Currency:              "BDT",
			Intent:                "sale",
			MerchantInvoiceNumber: "ord-1",
		}

		service = NewService(
			settingsMock,
			checkoutMock,
			ordersMock,
			bkashMock,
			sslMock,
			events.NewEventBus(slog.Default()),
			"http://localhost:8080/",
			slog.Default(),
		)
	})

	ginkgo.Describe("HandleBkashCallback", func() {
		ginkgo.Context("when the user cancelled at the vendor page", func() {
			ginkgo.It("should fail without calling execute", func() {
				resp, err := service.HandleBkashCallback(ctx, "TR0011abc", "cancel")

				gomega.Expect(resp).To(gomega.BeNil())
				appErr, ok := apperrors.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodePaymentCancelled))
				gomega.Expect(bkashMock.executeCalls).To(gomega.BeZero())
				gomega.Expect(bkashMock.grantCalls).To(gomega.BeZero())
			})
		})

		ginkgo.Context("when the vendor reported failure", func() {
			ginkgo.It("should fail without calling execute", func() {
				resp, err := service.HandleBkashCallback(ctx, "TR0011abc", "failure")

				gomega.Expect(resp).To(gomega.BeNil())
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(bkashMock.executeCalls).To(gomega.BeZero())
			})
		})

		ginkgo.Context("when the callback is missing the payment id", func() {
			ginkgo.It("should fail hard and never call execute", func() {
				resp, err := service.HandleBkashCallback(ctx, "", "success")

				gomega.Expect(resp).To(gomega.BeNil())
				appErr, ok := apperrors.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Message).To(gomega.Equal("Invalid payment response. Missing payment ID."))
				gomega.Expect(bkashMock.executeCalls).To(gomega.BeZero())
			})
		})

		ginkgo.Context("when the execute step completes", func() {
			ginkgo.BeforeEach(func() {
				checkoutMock.sessions["ord-1"] = bkashSession("ord-1")
				bkashMock.executeResp = completedExec
			})

			ginkgo.It("should consume the session and materialize the order", func() {
				resp, err := service.HandleBkashCallback(ctx, "TR0011abc", "success")

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(resp.OrderID).To(gomega.Equal("ord-1"))
				gomega.Expect(resp.PaymentStatus).To(gomega.Equal(ordermodel.PaymentCompleted))
				gomega.Expect(resp.PaymentMethod).To(gomega.Equal(ordermodel.MethodBkash))
				gomega.Expect(resp.TransactionID).To(gomega.Equal("TRX123"))
				gomega.Expect(ordersMock.materializeCalls).To(gomega.Equal(1))
				gomega.Expect(checkoutMock.consumed["ord-1"]).To(gomega.BeTrue())
			})

			ginkgo.It("should return the existing order on a replayed callback", func() {
				first, err := service.HandleBkashCallback(ctx, "TR0011abc", "success")
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				second, err := service.HandleBkashCallback(ctx, "TR0011abc", "success")

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(second.OrderID).To(gomega.Equal(first.OrderID))
				gomega.Expect(second.OrderNumber).To(gomega.Equal(first.OrderNumber))
				gomega.Expect(ordersMock.materializeCalls).To(gomega.Equal(1))
			})
		})

		ginkgo.Context("when the execute step is not completed", func() {
			ginkgo.It("should fail and not consume the session", func() {
				checkoutMock.sessions["ord-1"] = bkashSession("ord-1")
				bkashMock.executeResp = &bkash.PaymentResult{
					PaymentID:             "TR0011abc",
					TransactionStatus:     "Initiated",
					MerchantInvoiceNumber: "ord-1",
				}

				resp, err := service.HandleBkashCallback(ctx, "TR0011abc", "success")

				gomega.Expect(resp).To(gomega.BeNil())
				appErr, ok := apperrors.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodePaymentValidation))
				gomega.Expect(checkoutMock.consumed["ord-1"]).To(gomega.BeFalse())
				gomega.Expect(ordersMock.materializeCalls).To(gomega.BeZero())
			})
		})

		ginkgo.Context("when the execute call is interrupted mid-flight", func() {
			ginkgo.BeforeEach(func() {
				checkoutMock.sessions["ord-1"] = bkashSession("ord-1")
				bkashMock.executeErr = &bkash.TransportError{Op: "execute", Err: errors.New("connection reset")}
			})

			ginkgo.It("should reconcile with a status query and materialize when completed", func() {
				bkashMock.queryResp = completedExec

				resp, err := service.HandleBkashCallback(ctx, "TR0011abc", "success")

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(resp.OrderID).To(gomega.Equal("ord-1"))
				gomega.Expect(bkashMock.queryCalls).To(gomega.Equal(1))
				gomega.Expect(ordersMock.materializeCalls).To(gomega.Equal(1))
			})

			ginkgo.It("should fail when the query shows the payment never completed", func() {
				bkashMock.queryResp = &bkash.PaymentResult{
					PaymentID:             "TR0011abc",
					TransactionStatus:     "Initiated",
					MerchantInvoiceNumber: "ord-1",
				}

				resp, err := service.HandleBkashCallback(ctx, "TR0011abc", "success")

				gomega.Expect(resp).To(gomega.BeNil())
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(ordersMock.materializeCalls).To(gomega.BeZero())
			})

			ginkgo.It("should report unknown state when the query also fails", func() {
				bkashMock.queryErr = &bkash.TransportError{Op: "query", Err: errors.New("timeout")}

				resp, err := service.HandleBkashCallback(ctx, "TR0011abc", "success")

				gomega.Expect(resp).To(gomega.BeNil())
				appErr, ok := apperrors.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodeGatewayRequest))
			})
		})

		ginkgo.Context("when the gateway is not configured", func() {
			ginkgo.It("should surface the settings error", func() {
				settingsMock.bkashErr = apperrors.ErrGatewayNotConfigured

				resp, err := service.HandleBkashCallback(ctx, "TR0011abc", "success")

				gomega.Expect(resp).To(gomega.BeNil())
				gomega.Expect(err).To(gomega.Equal(apperrors.ErrGatewayNotConfigured))
			})
		})
	})

	ginkgo.Describe("CreateBkashPayment", func() {
		ginkgo.BeforeEach(func() {
			checkoutMock.sessions["ord-1"] = bkashSession("ord-1")
			bkashMock.createResp = &bkash.CreatePaymentResponse{
				PaymentID:  "TR0011abc",
				BkashURL:   "https://sandbox.bka.sh/pay",
				StatusCode: bkash.StatusCodeSuccess,
			}
		})

		ginkgo.It("should require amount, orderId and token", func() {
			_, err := service.CreateBkashPayment(ctx, CreateBkashPaymentDTO{Amount: "1000.00"})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(bkashMock.createCalls).To(gomega.BeZero())
		})

		ginkgo.It("should reject an amount that does not match the checkout total", func() {
			_, err := service.CreateBkashPayment(ctx, CreateBkashPaymentDTO{
				Amount: "999.00", OrderID: "ord-1", Token: "token-abc",
			})

			appErr, ok := apperrors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodeInvalidAmount))
			gomega.Expect(bkashMock.createCalls).To(gomega.BeZero())
		})

		ginkgo.It("should use the order id as the merchant invoice number", func() {
			resp, err := service.CreateBkashPayment(ctx, CreateBkashPaymentDTO{
				Amount: "1000.00", OrderID: "ord-1", Token: "token-abc",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.PaymentID).To(gomega.Equal("TR0011abc"))
			gomega.Expect(bkashMock.createReq.MerchantInvoiceNumber).To(gomega.Equal("ord-1"))
			gomega.Expect(bkashMock.createReq.CallbackURL).To(gomega.Equal("http://localhost:8080/api/v1/payments/bkash/callback"))
		})

		ginkgo.It("should reject a session bound to the other gateway", func() {
			checkoutMock.sessions["ord-2"] = sslSession("ord-2")

			_, err := service.CreateBkashPayment(ctx, CreateBkashPaymentDTO{
				Amount: "1000.00", OrderID: "ord-2", Token: "token-abc",
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(bkashMock.createCalls).To(gomega.BeZero())
		})
	})

	ginkgo.Describe("InitSSLCommerzPayment", func() {
		ginkgo.BeforeEach(func() {
			checkoutMock.sessions["ord-2"] = sslSession("ord-2")
			sslMock.initResp = &sslcommerz.InitPaymentResponse{
				Status:         "SUCCESS",
				SessionKey:     "sess-1",
				GatewayPageURL: "https://sandbox.sslcommerz.com/EasyCheckOut/sess-1",
			}
		})

		ginkgo.It("should build the init request from the server-side snapshot", func() {
			resp, err := service.InitSSLCommerzPayment(ctx, InitSSLCommerzPaymentDTO{OrderID: "ord-2"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.GatewayPageURL).ToNot(gomega.BeEmpty())
			gomega.Expect(sslMock.initReq.TranID).To(gomega.Equal("ord-2"))
			gomega.Expect(sslMock.initReq.Amount).To(gomega.Equal("1000.00"))
			gomega.Expect(sslMock.initReq.CustomerEmail).To(gomega.Equal("rahim@example.com"))
			gomega.Expect(sslMock.initReq.ShippingCity).To(gomega.Equal("Dhaka"))
			gomega.Expect(sslMock.initReq.IPNURL).To(gomega.Equal("http://localhost:8080/api/v1/payments/sslcommerz/ipn"))
		})

		ginkgo.It("should reject a session bound to the other gateway", func() {
			checkoutMock.sessions["ord-1"] = bkashSession("ord-1")

			_, err := service.InitSSLCommerzPayment(ctx, InitSSLCommerzPaymentDTO{OrderID: "ord-1"})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(sslMock.initCalls).To(gomega.BeZero())
		})
	})

	ginkgo.Describe("ValidateSSLCommerzPayment", func() {
		ginkgo.BeforeEach(func() {
			checkoutMock.sessions["ord-2"] = sslSession("ord-2")
		})

		ginkgo.It("should materialize the order on a VALIDATED response", func() {
			sslMock.validateResp = &sslcommerz.ValidationResponse{
				Status:     "VALIDATED",
				ValID:      "val-1",
				TranID:     "ord-2",
				Amount:     "1000.00",
				BankTranID: "BANK123",
			}

			resp, err := service.ValidateSSLCommerzPayment(ctx, ValidateSSLCommerzDTO{ValID: "val-1"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.OrderID).To(gomega.Equal("ord-2"))
			gomega.Expect(resp.PaymentMethod).To(gomega.Equal(ordermodel.MethodSSLCommerz))
			gomega.Expect(resp.TransactionID).To(gomega.Equal("BANK123"))
			gomega.Expect(ordersMock.materializeCalls).To(gomega.Equal(1))
		})

		ginkgo.It("should fail on any other vendor status", func() {
			sslMock.validateResp = &sslcommerz.ValidationResponse{
				Status: "INVALID_TRANSACTION",
				ValID:  "val-1",
				TranID: "ord-2",
			}

			resp, err := service.ValidateSSLCommerzPayment(ctx, ValidateSSLCommerzDTO{ValID: "val-1"})

			gomega.Expect(resp).To(gomega.BeNil())
			appErr, ok := apperrors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodePaymentValidation))
			gomega.Expect(ordersMock.materializeCalls).To(gomega.BeZero())
		})
	})

	ginkgo.Describe("HandleSSLCommerzIPN", func() {
		ginkgo.BeforeEach(func() {
			checkoutMock.sessions["ord-2"] = sslSession("ord-2")
		})

		ginkgo.It("should treat CANCELLED as terminal without validating", func() {
			form := url.Values{}
			form.Set("status", "CANCELLED")
			form.Set("tran_id", "ord-2")

			resp, err := service.HandleSSLCommerzIPN(ctx, form)

			gomega.Expect(resp).To(gomega.BeNil())
			appErr, ok := apperrors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodePaymentCancelled))
			gomega.Expect(sslMock.validateCalls).To(gomega.BeZero())
		})

		ginkgo.It("should treat FAILED as terminal without validating", func() {
			form := url.Values{}
			form.Set("status", "FAILED")
			form.Set("tran_id", "ord-2")

			_, err := service.HandleSSLCommerzIPN(ctx, form)

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(sslMock.validateCalls).To(gomega.BeZero())
		})

		ginkgo.It("should reject notifications without a val_id", func() {
			form := url.Values{}
			form.Set("status", "VALID")
			form.Set("tran_id", "ord-2")

			_, err := service.HandleSSLCommerzIPN(ctx, form)

			appErr, ok := apperrors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodeInvalidCallback))
			gomega.Expect(sslMock.validateCalls).To(gomega.BeZero())
		})

		ginkgo.It("should never trust the posted status and validate server-side", func() {
			sslMock.validateResp = &sslcommerz.ValidationResponse{
				Status: "INVALID_TRANSACTION",
				ValID:  "val-1",
				TranID: "ord-2",
			}

			form := url.Values{}
			form.Set("status", "VALID")
			form.Set("val_id", "val-1")
			form.Set("tran_id", "ord-2")

			resp, err := service.HandleSSLCommerzIPN(ctx, form)

			gomega.Expect(resp).To(gomega.BeNil())
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(sslMock.validateCalls).To(gomega.Equal(1))
			gomega.Expect(ordersMock.materializeCalls).To(gomega.BeZero())
		})
	})
})
