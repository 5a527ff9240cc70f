package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/models"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
)

// Repository defines persistence operations for the order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	CreatePayment(ctx context.Context, payment *models.Payment) error
	SetPaymentID(ctx context.Context, orderID, paymentID int64) error
	FindByID(ctx context.Context, orderID int64) (*models.Order, error)
	FindByIDForUser(ctx context.Context, orderID int64, userID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *enums.OrderStatus) ([]models.Order, error)
	CountByStatus(ctx context.Context, userID uuid.UUID) (map[enums.OrderStatus]int64, error)
	ReviewedProducts(ctx context.Context, userID uuid.UUID, orderIDs []int64) (map[int64]map[int64]bool, error)
	CancelPreparing(ctx context.Context, orderID int64, userID uuid.UUID, reason string, at time.Time) (int64, error)
	UpdateStatusFrom(ctx context.Context, orderID int64, from, to enums.OrderStatus) (int64, error)
	UpdatePaymentStatus(ctx context.Context, orderID int64, status enums.PaymentStatus) (int64, error)
}
