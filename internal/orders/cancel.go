package orders

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
	pkgerrors "github.com/jsamongk12147998-oss/foodhub-sub000/pkg/errors"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/logger"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/metrics"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/outbox"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/outbox/payloads"
)

// errCannotCancel covers both a missing order and one that is past preparing
// so the caller cannot probe other users' orders or their status.
const errCannotCancel = "order not found or cannot be cancelled"

// CancelService lets a customer cancel an order that is still preparing.
type CancelService struct {
	repo    Repository
	tx      txRunner
	outbox  outbox.Emitter
	counts  *CountsCache
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewCancelService builds the cancellation service.
func NewCancelService(repo Repository, tx txRunner, emitter outbox.Emitter, counts *CountsCache, m *metrics.OrderMetrics, logg *logger.Logger) (*CancelService, error) {
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
	return &CancelService{
		repo:    repo,
		tx:      tx,
		outbox:  emitter,
		counts:  counts,
		metrics: m,
		logg:    logg,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Cancel moves the order to cancelled and its payment to Cancelled in one
// transaction. The status guard is part of the UPDATE itself.
func (s *CancelService) Cancel(ctx context.Context, orderID int64, userID uuid.UUID, reason string) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		s.metrics.IncCancellation(metrics.OutcomeRejected)
		return pkgerrors.New(pkgerrors.CodeValidation, "cancellation reason is required")
	}
	if orderID <= 0 {
		s.metrics.IncCancellation(metrics.OutcomeRejected)
		return pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}

	at := s.now()
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		rows, err := repo.CancelPreparing(ctx, orderID, userID, reason, at)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel order")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, errCannotCancel)
		}
		if _, err := repo.UpdatePaymentStatus(ctx, orderID, enums.PaymentStatusCancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel payment")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCanceled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   strconv.FormatInt(orderID, 10),
			Actor:         &outbox.ActorRef{UserID: userID, Role: "customer"},
			Data: payloads.OrderCanceledEvent{
				OrderID:    orderID,
				CanceledAt: at,
				Reason:     reason,
			},
			OccurredAt: at,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "emit order canceled event")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			s.metrics.IncCancellation(metrics.OutcomeRejected)
		} else {
			s.metrics.IncCancellation(metrics.OutcomeFailure)
		}
		return err
	}

	s.metrics.IncCancellation(metrics.OutcomeSuccess)
	if err := s.counts.Invalidate(ctx, userID); err != nil {
		s.logg.Warn(ctx, "order counts cache invalidation failed: "+err.Error())
	}
	s.logg.Info(s.logg.WithOrderID(ctx, orderID), "order cancelled")
	return nil
}
