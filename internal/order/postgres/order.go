package postgres

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	ordermodel "github.com/dhakamart/commerce/internal/core/datamodel/order"
	orderpkg "github.com/dhakamart/commerce/internal/order"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) orderpkg.RepositoryAPI {
	return &OrderRepository{
		db: db,
	}
}

// Upsert is keyed by the order id. A second materialization for the same id
// overwrites the row, which is what makes callback replays idempotent.
func (r *OrderRepository) Upsert(o *ordermodel.Order) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(o).Error
}

func (r *OrderRepository) GetByID(id string) (*ordermodel.Order, error) {
	var o ordermodel.Order
	err := r.db.Where("id = ?", id).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) List() ([]*ordermodel.Order, error) {
	var orders []*ordermodel.Order
	err := r.db.Order("placed_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(id, status string) error {
	return r.db.Model(&ordermodel.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}
