package models

import (
	"time"

	"github.com/google/uuid"
)

// User anchors ownership of carts, orders and reviews. Credentials live with
// the identity provider that issues access tokens.
type User struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email       string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	DisplayName string    `gorm:"column:display_name;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
