package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a rating left for a product of a completed order. At most one
// exists per (user, product, order).
type Review struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:product_reviews_user_product_order_key"`
	ProductID  int64     `gorm:"column:product_id;not null;uniqueIndex:product_reviews_user_product_order_key"`
	OrderID    int64     `gorm:"column:order_id;not null;uniqueIndex:product_reviews_user_product_order_key"`
	Rating     int       `gorm:"column:rating;not null"`
	ReviewText string    `gorm:"column:review_text;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Review) TableName() string { return "product_reviews" }
