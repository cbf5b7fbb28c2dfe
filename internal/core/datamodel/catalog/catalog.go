package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductTypePhysical = "physical"
	ProductTypeDigital  = "digital"
)

type Product struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description"`
	ImageURL    string          `gorm:"column:image_url"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	ProductType string          `gorm:"column:product_type;default:physical"`
	DownloadURL *string         `gorm:"column:download_url"`
	IsActive    bool            `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;default:now()"`
}

func (Product) TableName() string {
	return "products"
}

type Review struct {
	ID        int64     `gorm:"primaryKey"`
	ProductID string    `gorm:"column:product_id;type:varchar(36);not null;index"`
	UserEmail string    `gorm:"column:user_email;not null"`
	UserName  string    `gorm:"column:user_name"`
	Rating    int       `gorm:"column:rating;not null"`
	Comment   string    `gorm:"column:comment"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (Review) TableName() string {
	return "reviews"
}
