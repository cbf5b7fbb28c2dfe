package catalog

import (
	"github.com/shopspring/decimal"

	catalogmodel "github.com/dhakamart/commerce/internal/core/datamodel/catalog"
	ordermodel "github.com/dhakamart/commerce/internal/core/datamodel/order"
)

// ProductWithStats is a product enriched with live-computed review
// aggregates. The aggregates are never stored; they come from a join at
// read time.
type ProductWithStats struct {
	catalogmodel.Product
	AvgRating   float64 `gorm:"column:avg_rating"`
	ReviewCount int64   `gorm:"column:review_count"`
}

type RepositoryAPI interface {
	ListWithStats() ([]ProductWithStats, error)
	GetWithStats(id string) (*ProductWithStats, error)
	GetByIDs(ids []string) ([]catalogmodel.Product, error)
	ListReviews(productID string) ([]catalogmodel.Review, error)
	CreateReview(r *catalogmodel.Review) error
}

// ItemRef is a cart line as submitted by the client: product id and quantity
// only. Prices always come from the catalog, never from the client.
type ItemRef struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Note      *string `json:"note,omitempty"`
}

type ServiceAPI interface {
	ListProducts() ([]ProductWithStats, error)
	GetProduct(id string) (*ProductWithStats, error)
	ListReviews(productID string) ([]catalogmodel.Review, error)
	AddReview(productID string, dto AddReviewDTO) (*catalogmodel.Review, error)
	PriceItems(refs []ItemRef) ([]ordermodel.OrderItem, decimal.Decimal, error)
}
