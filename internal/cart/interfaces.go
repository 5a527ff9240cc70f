package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/models"
)

// CartRepository defines the persistence surface required by the cart service
// and by checkout.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	AddOrIncrement(ctx context.Context, line *models.CartLine) error
	SetQuantity(ctx context.Context, userID uuid.UUID, lineID int64, qty int) (int64, error)
	Delete(ctx context.Context, userID uuid.UUID, lineID int64) (int64, error)
	DeleteOrdered(ctx context.Context, userID uuid.UUID, lineID int64, qty int) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
