package payloads

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
)

// OrderCreatedEvent is emitted once per vendor order written at checkout.
type OrderCreatedEvent struct {
	OrderID       int64               `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	VendorID      int64               `json:"vendor_id"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	ItemCount     int                 `json:"item_count"`
}

// OrderCanceledEvent is emitted when a customer cancels a preparing order.
type OrderCanceledEvent struct {
	OrderID    int64     `json:"order_id"`
	CanceledAt time.Time `json:"canceled_at"`
	Reason     string    `json:"reason"`
}

// OrderStatusChangedEvent is emitted when vendor staff advance an order.
type OrderStatusChangedEvent struct {
	OrderID int64             `json:"order_id"`
	From    enums.OrderStatus `json:"from"`
	To      enums.OrderStatus `json:"to"`
}

// ReviewSubmittedEvent is emitted for every created or updated review.
type ReviewSubmittedEvent struct {
	ReviewID  int64 `json:"review_id"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Rating    int   `json:"rating"`
	Created   bool  `json:"created"`
}

// FavoriteToggledEvent is emitted when a user adds or removes a favorite.
type FavoriteToggledEvent struct {
	ProductID int64 `json:"product_id"`
	Favorited bool  `json:"favorited"`
}
