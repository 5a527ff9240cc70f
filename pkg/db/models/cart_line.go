package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one product in a user's cart together with the catalog snapshot
// taken when the line was first added.
type CartLine struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:cart_user_product_key"`
	ProductID       int64           `gorm:"column:product_id;not null;uniqueIndex:cart_user_product_key"`
	ProductName     string          `gorm:"column:product_name;not null"`
	ProductImageURL string          `gorm:"column:product_image_url;not null;default:''"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity        int             `gorm:"column:quantity;not null"`
	VendorID        int64           `gorm:"column:vendor_id;not null"`
	VendorName      string          `gorm:"column:vendor_name;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartLine) TableName() string { return "cart" }

// LineTotal is unit price times quantity without rounding.
func (c CartLine) LineTotal() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
