package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/models"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
	pkgerrors "github.com/jsamongk12147998-oss/foodhub-sub000/pkg/errors"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/logger"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/outbox"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes owner-scoped order reads and internal status advancement.
type Service interface {
	ListByStatus(ctx context.Context, userID uuid.UUID, status enums.OrderStatus) ([]OrderDetail, error)
	CountsByStatus(ctx context.Context, userID uuid.UUID) (StatusCounts, error)
	GetDetail(ctx context.Context, orderID int64, userID uuid.UUID) (*OrderDetail, error)
	Advance(ctx context.Context, orderID int64, to enums.OrderStatus) (*models.Order, error)
	InvalidateCounts(ctx context.Context, userID uuid.UUID)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outbox.Emitter
	counts *CountsCache
	logg   *logger.Logger
}

// NewService builds the order service. counts may be nil to disable caching.
func NewService(repo Repository, tx txRunner, emitter outbox.Emitter, counts *CountsCache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:   repo,
		tx:     tx,
		outbox: emitter,
		counts: counts,
		logg:   logg,
	}, nil
}

// ListByStatus returns the user's orders in the given status, newest first.
// An empty status lists every order.
func (s *service) ListByStatus(ctx context.Context, userID uuid.UUID, status enums.OrderStatus) ([]OrderDetail, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	var filter *enums.OrderStatus
	if status != "" {
		if !status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
		}
		filter = &status
	}

	records, err := s.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	ids := make([]int64, len(records))
	for i, record := range records {
		ids[i] = record.ID
	}
	reviewed, err := s.repo.ReviewedProducts(ctx, userID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load review state")
	}

	details := make([]OrderDetail, 0, len(records))
	for _, record := range records {
		details = append(details, newOrderDetail(record, reviewed[record.ID]))
	}
	return details, nil
}

// CountsByStatus returns one count per status. Cache failures are logged and
// fall through to the database.
func (s *service) CountsByStatus(ctx context.Context, userID uuid.UUID) (StatusCounts, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	cached, gen, ok, err := s.counts.Get(ctx, userID)
	if err != nil {
		s.logg.Warn(ctx, "order counts cache read failed: "+err.Error())
	} else if ok {
		return fillCounts(cached), nil
	}

	raw, err := s.repo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders")
	}
	counts := fillCounts(raw)
	if err := s.counts.Put(ctx, userID, gen, counts); err != nil {
		s.logg.Warn(ctx, "order counts cache write failed: "+err.Error())
	}
	return counts, nil
}

// GetDetail loads an order owned by userID. Orders of other users are
// reported as not found.
func (s *service) GetDetail(ctx context.Context, orderID int64, userID uuid.UUID) (*OrderDetail, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}
	record, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	reviewed, err := s.repo.ReviewedProducts(ctx, userID, []int64{record.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load review state")
	}
	detail := newOrderDetail(*record, reviewed[record.ID])
	return &detail, nil
}

// Advance moves an order along the lifecycle on behalf of vendor staff. The
// write is conditional on the status that was read, so a concurrent change
// surfaces as a state conflict instead of being overwritten.
func (s *service) Advance(ctx context.Context, orderID int64, to enums.OrderStatus) (*models.Order, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		from := order.Status
		if _, err := enums.TransitionOrderStatus(from, to); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "order cannot move to "+to.String())
		}

		rows, err := repo.UpdateStatusFrom(ctx, orderID, from, to)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
		}

		if next, ok := paymentStatusAfter(order, to); ok {
			if _, err := repo.UpdatePaymentStatus(ctx, orderID, next); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment status")
			}
			if order.Payment != nil {
				order.Payment.Status = next
			}
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   strconv.FormatInt(orderID, 10),
			Data: payloads.OrderStatusChangedEvent{
				OrderID: orderID,
				From:    from,
				To:      to,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "emit order status event")
		}

		order.Status = to
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.InvalidateCounts(ctx, updated.UserID)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": orderID,
		"to":       to.String(),
	}), "order status advanced")
	return updated, nil
}

// InvalidateCounts drops the cached counts after a write that changes them.
func (s *service) InvalidateCounts(ctx context.Context, userID uuid.UUID) {
	if err := s.counts.Invalidate(ctx, userID); err != nil {
		s.logg.Warn(ctx, "order counts cache invalidation failed: "+err.Error())
	}
}

// paymentStatusAfter returns the payment status implied by an order entering
// status to. A pending cash payment settles when the order is completed.
func paymentStatusAfter(order *models.Order, to enums.OrderStatus) (enums.PaymentStatus, bool) {
	if next, ok := enums.PaymentStatusForOrder(to); ok {
		return next, true
	}
	if to == enums.OrderStatusCompleted && order.Payment != nil && order.Payment.Status == enums.PaymentStatusPending {
		return enums.PaymentStatusCompleted, true
	}
	return "", false
}

func fillCounts(raw map[enums.OrderStatus]int64) StatusCounts {
	counts := make(StatusCounts, len(enums.OrderStatuses()))
	for _, status := range enums.OrderStatuses() {
		counts[status] = raw[status]
	}
	return counts
}
