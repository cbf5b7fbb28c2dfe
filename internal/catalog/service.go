package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/dhakamart/commerce/internal"
	catalogmodel "github.com/dhakamart/commerce/internal/core/datamodel/catalog"
	ordermodel "github.com/dhakamart/commerce/internal/core/datamodel/order"
)

type Service struct {
	repository RepositoryAPI
	logger     *slog.Logger
}

func NewService(repository RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

func (s *Service) ListProducts() ([]ProductWithStats, error) {
	products, err := s.repository.ListWithStats()
	if err != nil {
		s.logger.Error("failed to list products", "error", err)
		return nil, apperrors.NewInternalError("failed to list products", err)
	}
	return products, nil
}

func (s *Service) GetProduct(id string) (*ProductWithStats, error) {
	product, err := s.repository.GetWithStats(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		s.logger.Error("failed to get product", "product_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to get product", err)
	}
	return product, nil
}

func (s *Service) ListReviews(productID string) ([]catalogmodel.Review, error) {
	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}

	reviews, err := s.repository.ListReviews(productID)
	if err != nil {
		s.logger.Error("failed to list reviews", "product_id", productID, "error", err)
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	return reviews, nil
}

func (s *Service) AddReview(productID string, dto AddReviewDTO) (*catalogmodel.Review, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}

	review := &catalogmodel.Review{
		ProductID: productID,
		UserEmail: dto.UserEmail,
		UserName:  dto.UserName,
		Rating:    dto.Rating,
		Comment:   dto.Comment,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repository.CreateReview(review); err != nil {
		s.logger.Error("failed to create review", "product_id", productID, "error", err)
		return nil, apperrors.NewInternalError("failed to create review", err)
	}

	s.logger.Info("review created", "product_id", productID, "rating", dto.Rating)
	return review, nil
}

// PriceItems resolves cart lines against the live catalog and extends the
// total. Client-sent prices are ignored: the catalog price at checkout time
// is authoritative.
func (s *Service) PriceItems(refs []ItemRef) ([]ordermodel.OrderItem, decimal.Decimal, error) {
	if len(refs) == 0 {
		return nil, decimal.Zero, apperrors.NewValidationError("cart is empty", apperrors.ErrCodeEmptyCart)
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Quantity <= 0 {
			return nil, decimal.Zero, apperrors.NewValidationFieldError("quantity",
				fmt.Sprintf("invalid quantity %d for product %s", ref.Quantity, ref.ProductID),
				apperrors.ErrCodeInvalidQuantity)
		}
		ids = append(ids, ref.ProductID)
	}

	products, err := s.repository.GetByIDs(ids)
	if err != nil {
		s.logger.Error("failed to load products for pricing", "error", err)
		return nil, decimal.Zero, apperrors.NewInternalError("failed to price cart", err)
	}

	byID := make(map[string]catalogmodel.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]ordermodel.OrderItem, 0, len(refs))
	total := decimal.Zero
	for _, ref := range refs {
		product, ok := byID[ref.ProductID]
		if !ok || !product.IsActive {
			return nil, decimal.Zero, apperrors.ErrProductNotFound
		}

		items = append(items, ordermodel.OrderItem{
			ProductID:   product.ID,
			Name:        product.Name,
			ImageURL:    product.ImageURL,
			Quantity:    ref.Quantity,
			Price:       product.Price,
			ProductType: product.ProductType,
			DownloadURL: product.DownloadURL,
			Note:        ref.Note,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(ref.Quantity))))
	}

	return items, total, nil
}
