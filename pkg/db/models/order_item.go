package models

import "github.com/shopspring/decimal"

// OrderItem is an immutable snapshot of one purchased product.
type OrderItem struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID      int64           `gorm:"column:order_id;not null;index"`
	ProductID    int64           `gorm:"column:product_id;not null"`
	ItemName     string          `gorm:"column:item_name;not null"`
	ItemImageURL string          `gorm:"column:item_image_url;not null;default:''"`
	Quantity     int             `gorm:"column:quantity;not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice   decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
}
