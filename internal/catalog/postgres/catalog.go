package postgres

import (
	"gorm.io/gorm"

	catalogpkg "github.com/dhakamart/commerce/internal/catalog"
	catalogmodel "github.com/dhakamart/commerce/internal/core/datamodel/catalog"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) catalogpkg.RepositoryAPI {
	return &CatalogRepository{
		db: db,
	}
}

const statsSelect = `products.*,
COALESCE(AVG(reviews.rating), 0) AS avg_rating,
COUNT(reviews.id) AS review_count`

func (r *CatalogRepository) ListWithStats() ([]catalogpkg.ProductWithStats, error) {
	var products []catalogpkg.ProductWithStats
	err := r.db.Model(&catalogmodel.Product{}).
		Select(statsSelect).
		Joins("LEFT JOIN reviews ON reviews.product_id = products.id").
		Where("products.is_active = ?", true).
		Group("products.id").
		Order("products.created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *CatalogRepository) GetWithStats(id string) (*catalogpkg.ProductWithStats, error) {
	var product catalogpkg.ProductWithStats
	err := r.db.Model(&catalogmodel.Product{}).
		Select(statsSelect).
		Joins("LEFT JOIN reviews ON reviews.product_id = products.id").
		Where("products.id = ?", id).
		Group("products.id").
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *CatalogRepository) GetByIDs(ids []string) ([]catalogmodel.Product, error) {
	var products []catalogmodel.Product
	err := r.db.Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *CatalogRepository) ListReviews(productID string) ([]catalogmodel.Review, error) {
	var reviews []catalogmodel.Review
	err := r.db.Where("product_id = ?", productID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (r *CatalogRepository) CreateReview(review *catalogmodel.Review) error {
	return r.db.Create(review).Error
}
