package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a live catalog listing. Carts and orders copy its fields rather
// than referencing it.
type Product struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	VendorID    int64           `gorm:"column:vendor_id;not null;index"`
	Name        string          `gorm:"column:name;not null"`
	ImageURL    string          `gorm:"column:image_url;not null;default:''"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	IsAvailable bool            `gorm:"column:is_available;not null;default:true"`
	Vendor      *Vendor         `gorm:"foreignKey:VendorID"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
