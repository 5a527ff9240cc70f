package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/models"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
)

// StatusCounts holds one entry per order status, zeros included.
type StatusCounts map[enums.OrderStatus]int64

// PaymentSummary is the payment attached to an order detail.
type PaymentSummary struct {
	ID     int64               `json:"id"`
	Amount decimal.Decimal     `json:"amount"`
	Method enums.PaymentMethod `json:"method"`
	Status enums.PaymentStatus `json:"status"`
}

// ItemDetail is an order item together with the caller's review state.
type ItemDetail struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"product_id"`
	Name       string          `json:"item_name"`
	ImageURL   string          `json:"item_image_url"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Reviewed   bool            `json:"reviewed"`
}

// OrderDetail is the owner-facing view of an order.
type OrderDetail struct {
	ID                 int64             `json:"id"`
	OrderNumber        string            `json:"order_number"`
	VendorID           int64             `json:"vendor_id"`
	VendorName         string            `json:"vendor_name"`
	Status             enums.OrderStatus `json:"status"`
	Subtotal           decimal.Decimal   `json:"subtotal"`
	ServiceFee         decimal.Decimal   `json:"service_fee"`
	TotalAmount        decimal.Decimal   `json:"total_amount"`
	CancellationReason *string           `json:"cancellation_reason,omitempty"`
	CanCancel          bool              `json:"can_cancel"`
	CanReview          bool              `json:"can_review"`
	Payment            *PaymentSummary   `json:"payment,omitempty"`
	Items              []ItemDetail      `json:"items"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func newOrderDetail(order models.Order, reviewed map[int64]bool) OrderDetail {
	detail := OrderDetail{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		VendorID:           order.VendorID,
		VendorName:         order.VendorName,
		Status:             order.Status,
		Subtotal:           decimal.Zero,
		ServiceFee:         order.ServiceFee,
		TotalAmount:        order.TotalAmount,
		CancellationReason: order.CancellationReason,
		CanCancel:          order.Status.Cancellable(),
		CanReview:          order.Status.Reviewable(),
		Items:              make([]ItemDetail, 0, len(order.Items)),
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
	for _, item := range order.Items {
		detail.Subtotal = detail.Subtotal.Add(item.TotalPrice)
		detail.Items = append(detail.Items, ItemDetail{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Name:       item.ItemName,
			ImageURL:   item.ItemImageURL,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
			Reviewed:   reviewed[item.ProductID],
		})
	}
	if order.Payment != nil {
		detail.Payment = &PaymentSummary{
			ID:     order.Payment.ID,
			Amount: order.Payment.Amount,
			Method: order.Payment.Method,
			Status: order.Payment.Status,
		}
	}
	return detail
}
