package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	settingsmodel "github.com/dhakamart/commerce/internal/core/datamodel/settings"
	settingspkg "github.com/dhakamart/commerce/internal/settings"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) settingspkg.RepositoryAPI {
	return &SettingsRepository{
		db: db,
	}
}

func (r *SettingsRepository) GetByGateway(gateway string) (*settingsmodel.PaymentSettings, error) {
	var s settingsmodel.PaymentSettings
	err := r.db.Where("gateway = ?", gateway).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) Upsert(s *settingsmodel.PaymentSettings) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "gateway"}},
		DoUpdates: clause.AssignmentColumns([]string{"credentials", "is_sandbox", "is_enabled", "updated_at"}),
	}).Create(s).Error
}
