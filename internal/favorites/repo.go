package favorites

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/models"
)

// Repository encapsulates favorite persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
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

// AddItem inserts a favorite and ignores duplicates. It reports whether a row
// was inserted.
func (r *Repository) AddItem(ctx context.Context, userID uuid.UUID, productID int64) (bool, error) {
	if userID == uuid.Nil || productID <= 0 {
		return false, gorm.ErrInvalidValue
	}
	res := r.db.WithContext(ctx).
		Exec(`INSERT INTO favorites (user_id, product_id, created_at) VALUES (?, ?, ?) ON CONFLICT (user_id, product_id) DO NOTHING`,
			userID, productID, time.Now().UTC())
	return res.RowsAffected == 1, res.Error
}

// RemoveItem deletes the user-product like if it exists and reports whether
// it did.
func (r *Repository) RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{})
	return res.RowsAffected == 1, res.Error
}

// ListItems returns the user's favorites joined with the live catalog.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID) (FavoritesDTO, error) {
	var records []favoriteProductRecord
	err := r.db.WithContext(ctx).
		Table("favorites f").
		Select(`f.created_at AS favorite_created_at, p.id AS product_id, p.name, p.image_url,
		        p.price, p.is_available, v.id AS vendor_id, v.name AS vendor_name`).
		Joins("JOIN products p ON p.id = f.product_id").
		Joins("JOIN vendors v ON v.id = p.vendor_id").
		Where("f.user_id = ?", userID).
		Order("f.created_at DESC").
		Order("f.product_id DESC").
		Scan(&records).Error
	if err != nil {
		return FavoritesDTO{}, err
	}

	items := make([]FavoriteItemDTO, 0, len(records))
	for _, record := range records {
		items = append(items, record.toDTO())
	}
	return FavoritesDTO{Items: items, Total: len(items)}, nil
}

// ListItemIDs returns only the product ids a user has liked, newest first.
func (r *Repository) ListItemIDs(ctx context.Context, userID uuid.UUID) (FavoriteIDsDTO, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("product_id DESC").
		Pluck("product_id", &ids).Error
	if err != nil {
		return FavoriteIDsDTO{}, err
	}
	return FavoriteIDsDTO{ProductIDs: ids, Total: len(ids)}, nil
}

type favoriteProductRecord struct {
	FavoriteCreatedAt time.Time       `gorm:"column:favorite_created_at"`
	ProductID         int64           `gorm:"column:product_id"`
	Name              string          `gorm:"column:name"`
	ImageURL          string          `gorm:"column:image_url"`
	Price             decimal.Decimal `gorm:"column:price"`
	IsAvailable       bool            `gorm:"column:is_available"`
	VendorID          int64           `gorm:"column:vendor_id"`
	VendorName        string          `gorm:"column:vendor_name"`
}

func (r favoriteProductRecord) toDTO() FavoriteItemDTO {
	return FavoriteItemDTO{
		Product: FavoriteProduct{
			ID:          r.ProductID,
			Name:        r.Name,
			ImageURL:    r.ImageURL,
			Price:       r.Price,
			IsAvailable: r.IsAvailable,
			VendorID:    r.VendorID,
			VendorName:  r.VendorName,
		},
		CreatedAt: r.FavoriteCreatedAt,
	}
}
