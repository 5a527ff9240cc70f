package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
)

// Payment records how an order is settled. Status is the only field that
// changes after checkout.
type Payment struct {
	ID        int64               `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   int64               `gorm:"column:order_id;not null;uniqueIndex:payments_order_id_key"`
	Amount    decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Method    enums.PaymentMethod `gorm:"column:method;type:payment_method;not null"`
	Status    enums.PaymentStatus `gorm:"column:status;type:payment_status;not null"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
