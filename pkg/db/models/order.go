package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
)

// Order is the per-vendor order produced by a checkout. Only status,
// payment_id, cancellation_reason and updated_at change after creation.
type Order struct {
	ID                 int64             `gorm:"column:id;primaryKey;autoIncrement"`
	OrderNumber        string            `gorm:"column:order_number;not null;uniqueIndex:orders_order_number_key"`
	UserID             uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	VendorID           int64             `gorm:"column:vendor_id;not null"`
	VendorName         string            `gorm:"column:vendor_name;not null"`
	ServiceFee         decimal.Decimal   `gorm:"column:service_fee;type:numeric(12,2);not null"`
	TotalAmount        decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status             enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'preparing'"`
	PaymentID          *int64            `gorm:"column:payment_id"`
	CancellationReason *string           `gorm:"column:cancellation_reason"`
	Items              []OrderItem       `gorm:"foreignKey:OrderID;references:ID"`
	Payment            *Payment          `gorm:"foreignKey:OrderID;references:ID"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
