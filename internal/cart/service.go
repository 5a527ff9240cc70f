package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsamongk12147998-oss/foodhub-sub000/internal/products"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/models"
	pkgerrors "github.com/jsamongk12147998-oss/foodhub-sub000/pkg/errors"
)

type productLoader interface {
	FindSnapshot(ctx context.Context, productID int64) (*products.Snapshot, error)
}

// Snapshot is the cart state returned after every cart mutation.
type Snapshot struct {
	Aggregation
	Count int
}

// Service exposes the cart operations available to an authenticated user.
type Service interface {
	AddOrIncrement(ctx context.Context, userID uuid.UUID, productID int64, qty int) (*Snapshot, error)
	SetQuantity(ctx context.Context, userID uuid.UUID, lineID int64, qty int) (*Snapshot, error)
	Remove(ctx context.Context, userID uuid.UUID, lineID int64) (*Snapshot, error)
	Read(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
	Aggregate(ctx context.Context, userID uuid.UUID) (Aggregation, error)
	Snapshot(ctx context.Context, userID uuid.UUID) (*Snapshot, error)
}

type service struct {
	repo     CartRepository
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

// AddOrIncrement adds qty of the product, merging with an existing line.
func (s *service) AddOrIncrement(ctx context.Context, userID uuid.UUID, productID int64, qty int) (*Snapshot, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	snap, err := s.products.FindSnapshot(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !snap.IsAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is currently unavailable")
	}

	line := &models.CartLine{
		UserID:          userID,
		ProductID:       snap.ProductID,
		ProductName:     snap.Name,
		ProductImageURL: snap.ImageURL,
		UnitPrice:       snap.Price,
		Quantity:        qty,
		VendorID:        snap.VendorID,
		VendorName:      snap.VendorName,
	}
	if err := s.repo.AddOrIncrement(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add to cart")
	}
	return s.Snapshot(ctx, userID)
}

// SetQuantity overwrites a line's quantity; qty <= 0 removes the line. Lines
// owned by someone else are left alone without error.
func (s *service) SetQuantity(ctx context.Context, userID uuid.UUID, lineID int64, qty int) (*Snapshot, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if lineID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart_id is required")
	}
	if qty <= 0 {
		return s.Remove(ctx, userID, lineID)
	}
	if _, err := s.repo.SetQuantity(ctx, userID, lineID, qty); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart quantity")
	}
	return s.Snapshot(ctx, userID)
}

// Remove deletes a line owned by userID. Unknown lines are a no-op.
func (s *service) Remove(ctx context.Context, userID uuid.UUID, lineID int64) (*Snapshot, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if lineID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart_id is required")
	}
	if _, err := s.repo.Delete(ctx, userID, lineID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart line")
	}
	return s.Snapshot(ctx, userID)
}

func (s *service) Read(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read cart")
	}
	return lines, nil
}

func (s *service) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	if err := requireUser(userID); err != nil {
		return 0, err
	}
	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count cart")
	}
	return count, nil
}

// Aggregate reads the cart and partitions it by vendor.
func (s *service) Aggregate(ctx context.Context, userID uuid.UUID) (Aggregation, error) {
	lines, err := s.Read(ctx, userID)
	if err != nil {
		return Aggregation{}, err
	}
	return Aggregate(lines), nil
}

func (s *service) Snapshot(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	agg, err := s.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Aggregation: agg, Count: agg.LineCount()}, nil
}

func requireUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	return nil
}
