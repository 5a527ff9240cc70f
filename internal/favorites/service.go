package favorites

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
	pkgerrors "github.com/jsamongk12147998-oss/foodhub-sub000/pkg/errors"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/outbox"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productChecker interface {
	Exists(ctx context.Context, productID int64) (bool, error)
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	FavoritesRepo *Repository
	ProductRepo   productChecker
	TxRunner      txRunner
	Outbox        outbox.Emitter
}

// Service exposes business rules for favorite management.
type Service interface {
	GetFavorites(ctx context.Context, userID uuid.UUID) (FavoritesDTO, error)
	GetFavoriteIDs(ctx context.Context, userID uuid.UUID) (FavoriteIDsDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, productID int64) error
	RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) error
	Toggle(ctx context.Context, userID uuid.UUID, productID int64) (bool, error)
}

type service struct {
	favoritesRepo *Repository
	productRepo   productChecker
	tx            txRunner
	outbox        outbox.Emitter
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.FavoritesRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorites repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbox emitter is required")
	}
	return &service{
		favoritesRepo: params.FavoritesRepo,
		productRepo:   params.ProductRepo,
		tx:            params.TxRunner,
		outbox:        params.Outbox,
	}, nil
}

// GetFavorites returns the user's favorites with their catalog data.
func (s *service) GetFavorites(ctx context.Context, userID uuid.UUID) (FavoritesDTO, error) {
	if userID == uuid.Nil {
		return FavoritesDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	list, err := s.favoritesRepo.ListItems(ctx, userID)
	if err != nil {
		return FavoritesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	return list, nil
}

// GetFavoriteIDs returns all liked product ids for the user.
func (s *service) GetFavoriteIDs(ctx context.Context, userID uuid.UUID) (FavoriteIDsDTO, error) {
	if userID == uuid.Nil {
		return FavoriteIDsDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	ids, err := s.favoritesRepo.ListItemIDs(ctx, userID)
	if err != nil {
		return FavoriteIDsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	return ids, nil
}

// AddItem ensures the product exists and favorites it. Adding twice is a
// no-op and emits nothing the second time.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, productID int64) error {
	if err := s.ensureProduct(ctx, userID, productID); err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		added, err := s.favoritesRepo.WithTx(tx).AddItem(ctx, userID, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
		}
		if !added {
			return nil
		}
		return s.emitToggled(ctx, tx, userID, productID, true)
	})
}

// RemoveItem drops the favorite regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	if productID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		removed, err := s.favoritesRepo.WithTx(tx).RemoveItem(ctx, userID, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
		}
		if !removed {
			return nil
		}
		return s.emitToggled(ctx, tx, userID, productID, false)
	})
}

// Toggle removes the favorite when present and adds it otherwise, returning
// the resulting state. Both writes rely on the primary key, so concurrent
// toggles never produce duplicates.
func (s *service) Toggle(ctx context.Context, userID uuid.UUID, productID int64) (bool, error) {
	if err := s.ensureProduct(ctx, userID, productID); err != nil {
		return false, err
	}

	var favorited bool
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.favoritesRepo.WithTx(tx)
		removed, err := repo.RemoveItem(ctx, userID, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
		}
		if !removed {
			if _, err := repo.AddItem(ctx, userID, productID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
			}
			favorited = true
		}
		return s.emitToggled(ctx, tx, userID, productID, favorited)
	})
	if err != nil {
		return false, err
	}
	return favorited, nil
}

func (s *service) ensureProduct(ctx context.Context, userID uuid.UUID, productID int64) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	if productID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	exists, err := s.productRepo.Exists(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) emitToggled(ctx context.Context, tx *gorm.DB, userID uuid.UUID, productID int64, favorited bool) error {
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventFavoriteToggled,
		AggregateType: enums.AggregateFavorite,
		AggregateID:   strconv.FormatInt(productID, 10),
		Actor:         &outbox.ActorRef{UserID: userID, Role: "customer"},
		Data:          payloads.FavoriteToggledEvent{ProductID: productID, Favorited: favorited},
	})
}
