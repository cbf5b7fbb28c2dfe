package postgres

import (
	"time"

	"gorm.io/gorm"

	apperrors "github.com/dhakamart/commerce/internal"
	checkoutpkg "github.com/dhakamart/commerce/internal/checkout"
	checkoutmodel "github.com/dhakamart/commerce/internal/core/datamodel/checkout"
)

type CheckoutRepository struct {
	db *gorm.DB
}

func NewCheckoutRepository(db *gorm.DB) checkoutpkg.RepositoryAPI {
	return &CheckoutRepository{
		db: db,
	}
}

func (r *CheckoutRepository) Create(s *checkoutmodel.Session) error {
	return r.db.Create(s).Error
}

func (r *CheckoutRepository) GetByOrderID(orderID string) (*checkoutmodel.Session, error) {
	var s checkoutmodel.Session
	err := r.db.Where("order_id = ?", orderID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Consume is a conditional update: only an unconsumed session can be spent.
// RowsAffected==0 with an existing row means someone else already won.
func (r *CheckoutRepository) Consume(orderID string) (*checkoutmodel.Session, error) {
	now := time.Now().UTC()
	result := r.db.Model(&checkoutmodel.Session{}).
		Where("order_id = ? AND consumed_at IS NULL", orderID).
		Updates(map[string]interface{}{
			"consumed_at": now,
			"updated_at":  now,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		var existing checkoutmodel.Session
		if err := r.db.Where("order_id = ?", orderID).First(&existing).Error; err != nil {
			return nil, err
		}
		return nil, apperrors.ErrCheckoutConsumed
	}

	var s checkoutmodel.Session
	if err := r.db.Where("order_id = ?", orderID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
