package products

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Snapshot is the catalog data copied onto cart lines when a product is added.
type Snapshot struct {
	ProductID   int64
	Name        string
	ImageURL    string
	Price       decimal.Decimal
	VendorID    int64
	VendorName  string
	IsAvailable bool
}

// Repository reads the live catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindSnapshot loads a product joined with its vendor. Returns
// gorm.ErrRecordNotFound when the product does not exist.
func (r *Repository) FindSnapshot(ctx context.Context, productID int64) (*Snapshot, error) {
	var snap Snapshot
	res := r.db.WithContext(ctx).
		Table("products AS p").
		Select(`p.id AS product_id, p.name, p.image_url, p.price, p.is_available,
		        v.id AS vendor_id, v.name AS vendor_name`).
		Joins("JOIN vendors v ON v.id = p.vendor_id").
		Where("p.id = ?", productID).
		Limit(1).
		Scan(&snap)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &snap, nil
}

// Exists reports whether the product is in the catalog.
func (r *Repository) Exists(ctx context.Context, productID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("products").Where("id = ?", productID).Count(&count).Error
	return count > 0, err
}
