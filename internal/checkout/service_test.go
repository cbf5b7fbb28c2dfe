package checkout

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/dhakamart/commerce/internal"
	"github.com/dhakamart/commerce/internal/catalog"
	catalogmodel "github.com/dhakamart/commerce/internal/core/datamodel/catalog"
	checkoutmodel "github.com/dhakamart/commerce/internal/core/datamodel/checkout"
	ordermodel "github.com/dhakamart/commerce/internal/core/datamodel/order"
	"github.com/dhakamart/commerce/internal/core/events"
)

func TestCheckoutService(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Checkout Service Suite")
}

type mockRepository struct {
	sessions  map[string]*checkoutmodel.Session
	createErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{sessions: map[string]*checkoutmodel.Session{}}
}

func (m *mockRepository) Create(s *checkoutmodel.Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.sessions[s.OrderID] = s
	return nil
}

func (m *mockRepository) GetByOrderID(orderID string) (*checkoutmodel.Session, error) {
	s, ok := m.sessions[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (m *mockRepository) Consume(orderID string) (*checkoutmodel.Session, error) {
	s, ok := m.sessions[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if s.Consumed() {
		return nil, apperrors.ErrCheckoutConsumed
	}
	now := s.CreatedAt
	s.ConsumedAt = &now
	return s, nil
}

type mockCatalog struct {
	priced   []ordermodel.OrderItem
	total    decimal.Decimal
	priceErr error
}

func (m *mockCatalog) ListProducts() ([]catalog.ProductWithStats, error) { return nil, nil }

func (m *mockCatalog) GetProduct(id string) (*catalog.ProductWithStats, error) { return nil, nil }

func (m *mockCatalog) ListReviews(productID string) ([]catalogmodel.Review, error) { return nil, nil }

func (m *mockCatalog) AddReview(productID string, dto catalog.AddReviewDTO) (*catalogmodel.Review, error) {
	return nil, errors.New("not implemented")
}

func (m *mockCatalog) PriceItems(refs []catalog.ItemRef) ([]ordermodel.OrderItem, decimal.Decimal, error) {
	if m.priceErr != nil {
		return nil, decimal.Zero, m.priceErr
	}
	return m.priced, m.total, nil
}

var _ = ginkgo.Describe("Checkout Service", func() {
	var (
		service     *Service
		repository  *mockRepository
		catalogMock *mockCatalog
	)

	validDTO := func() BeginCheckoutDTO {
		return BeginCheckoutDTO{
			Items:   []catalog.ItemRef{{ProductID: "p1", Quantity: 2}},
			Gateway: "bkash",
			Customer: CustomerDTO{
				Email: "karim@example.com",
				Name:  "Karim",
			},
			ShippingAddress: ordermodel.ShippingAddress{
				Name: "Karim", Phone: "01700000000", Address: "House 1", City: "Dhaka",
				Postcode: "1207", Country: "Bangladesh",
			},
		}
	}

	ginkgo.BeforeEach(func() {
		repository = newMockRepository()
		catalogMock = &mockCatalog{
			priced: []ordermodel.OrderItem{{
				ProductID: "p1", Name: "Nakshi Kantha", Quantity: 2,
				Price: decimal.RequireFromString("750.00"),
			}},
			total: decimal.RequireFromString("1500.00"),
		}
		service = NewService(repository, catalogMock, events.NewEventBus(slog.Default()), slog.Default())
	})

	ginkgo.Describe("Begin", func() {
		ginkgo.It("should price the cart server-side and persist a session", func() {
			// When a checkout is submitted
			session, err := service.Begin(validDTO())

			// Then the session snapshot carries the catalog-priced total
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(session.OrderID).ToNot(gomega.BeEmpty())
			gomega.Expect(session.OrderNumber).To(gomega.HavePrefix("DM-"))
			gomega.Expect(session.Total.Equal(decimal.RequireFromString("1500.00"))).To(gomega.BeTrue())
			gomega.Expect(session.Gateway).To(gomega.Equal("bkash"))
			gomega.Expect(repository.sessions).To(gomega.HaveKey(session.OrderID))

			items, err := session.DecodeItems()
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(items).To(gomega.HaveLen(1))
			gomega.Expect(items[0].Name).To(gomega.Equal("Nakshi Kantha"))
		})

		ginkgo.It("should generate a fresh order id per submission", func() {
			first, err := service.Begin(validDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			second, err := service.Begin(validDTO())

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(second.OrderID).ToNot(gomega.Equal(first.OrderID))
			gomega.Expect(second.OrderNumber).ToNot(gomega.Equal(first.OrderNumber))
		})

		ginkgo.It("should reject an empty cart", func() {
			dto := validDTO()
			dto.Items = nil

			_, err := service.Begin(dto)

			appErr, ok := apperrors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodeEmptyCart))
		})

		ginkgo.It("should reject an unknown gateway", func() {
			dto := validDTO()
			dto.Gateway = "stripe"

			_, err := service.Begin(dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should surface pricing failures from the catalog", func() {
			catalogMock.priceErr = apperrors.ErrProductNotFound

			_, err := service.Begin(validDTO())

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrProductNotFound))
		})
	})

	ginkgo.Describe("Get", func() {
		ginkgo.It("should map a missing session to the not-found error", func() {
			_, err := service.Get("nope")

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrCheckoutNotFound))
		})
	})

	ginkgo.Describe("Consume", func() {
		ginkgo.It("should hand the session to exactly one winner", func() {
			session, err := service.Begin(validDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			first, err := service.Consume(session.OrderID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(first.OrderID).To(gomega.Equal(session.OrderID))

			_, err = service.Consume(session.OrderID)
			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrCheckoutConsumed))
		})

		ginkgo.It("should map a missing session to the not-found error", func() {
			_, err := service.Consume("nope")

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrCheckoutNotFound))
		})
	})
})
