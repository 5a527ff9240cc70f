package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/models"
)

const addOrIncrementSQL = `
INSERT INTO cart (user_id, product_id, product_name, product_image_url, unit_price, quantity, vendor_id, vendor_name, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, product_id)
DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`

// Repository persists cart lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// AddOrIncrement inserts the line or, when the user already has the product,
// adds line.Quantity to the stored quantity. Snapshot columns of an existing
// line are left untouched.
func (r *Repository) AddOrIncrement(ctx context.Context, line *models.CartLine) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Exec(addOrIncrementSQL,
		line.UserID, line.ProductID, line.ProductName, line.ProductImageURL, line.UnitPrice,
		line.Quantity, line.VendorID, line.VendorName, now, now,
	).Error
}

// SetQuantity overwrites the quantity of a line owned by userID and reports
// the affected row count.
func (r *Repository) SetQuantity(ctx context.Context, userID uuid.UUID, lineID int64, qty int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ? AND user_id = ?", lineID, userID).
		Updates(map[string]any{"quantity": qty, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

// Delete removes a line owned by userID.
func (r *Repository) Delete(ctx context.Context, userID uuid.UUID, lineID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", lineID, userID).
		Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}

// DeleteOrdered removes a line only while it still holds qty. Zero affected
// rows means the line was checked out or changed by another request.
func (r *Repository) DeleteOrdered(ctx context.Context, userID uuid.UUID, lineID int64, qty int) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND quantity = ?", lineID, userID, qty).
		Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}

// ListByUser returns the user's lines grouped by vendor.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("vendor_id ASC").
		Order("id ASC").
		Find(&lines).Error
	return lines, err
}

// CountByUser returns the number of distinct lines in the user's cart.
func (r *Repository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
