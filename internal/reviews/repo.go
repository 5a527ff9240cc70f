package reviews

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/models"
)

const insertReviewSQL = `
INSERT INTO product_reviews (user_id, product_id, order_id, rating, review_text, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, product_id, order_id) DO NOTHING`

// Repository persists product reviews.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a review repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// InsertIfAbsent inserts the review unless one already exists for the same
// user, product and order. It reports whether a row was inserted.
func (r *Repository) InsertIfAbsent(ctx context.Context, review models.Review, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Exec(insertReviewSQL,
		review.UserID, review.ProductID, review.OrderID, review.Rating, review.ReviewText, at, at,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Overwrite replaces rating and text of the existing review.
func (r *Repository) Overwrite(ctx context.Context, review models.Review, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("user_id = ? AND product_id = ? AND order_id = ?", review.UserID, review.ProductID, review.OrderID).
		Updates(map[string]any{
			"rating":      review.Rating,
			"review_text": review.ReviewText,
			"updated_at":  at,
		})
	return res.RowsAffected, res.Error
}

// Find loads the review of userID for product within order.
func (r *Repository) Find(ctx context.Context, userID uuid.UUID, productID, orderID int64) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND order_id = ?", userID, productID, orderID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}
