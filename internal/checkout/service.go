package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jsamongk12147998-oss/foodhub-sub000/internal/cart"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
	pkgerrors "github.com/jsamongk12147998-oss/foodhub-sub000/pkg/errors"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/logger"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/metrics"
)

type cartAggregator interface {
	Aggregate(ctx context.Context, userID uuid.UUID) (cart.Aggregation, error)
}

type committer interface {
	Commit(ctx context.Context, userID uuid.UUID, plans []CommitPlan) (*Result, error)
}

type countsInvalidator interface {
	InvalidateCounts(ctx context.Context, userID uuid.UUID)
}

// Service executes checkout orchestration.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, paymentMethod string) (*Result, error)
}

type service struct {
	cart    cartAggregator
	writer  committer
	opts    PlanOptions
	counts  countsInvalidator
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
}

// NewService builds the checkout service. counts and m may be nil.
func NewService(cartSvc cartAggregator, writer committer, opts PlanOptions, counts countsInvalidator, m *metrics.OrderMetrics, logg *logger.Logger) (Service, error) {
	if cartSvc == nil {
		return nil, fmt.Errorf("cart aggregator required")
	}
	if writer == nil {
		return nil, fmt.Errorf("order writer required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		cart:    cartSvc,
		writer:  writer,
		opts:    opts,
		counts:  counts,
		metrics: m,
		logg:    logg,
	}, nil
}

// PlaceOrder splits the user's cart into one order per vendor and commits
// them together with the cart clear.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, paymentMethod string) (*Result, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	started := time.Now()

	agg, err := s.cart.Aggregate(ctx, userID)
	if err != nil {
		s.metrics.ObserveCheckout(metrics.OutcomeFailure, time.Since(started))
		return nil, err
	}
	if agg.IsEmpty() {
		s.metrics.ObserveCheckout(metrics.OutcomeRejected, time.Since(started))
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to order")
	}

	method := enums.PaymentMethodFromInput(paymentMethod)
	plans := Plan(agg, method, s.opts)

	result, err := s.writer.Commit(ctx, userID, plans)
	if errors.Is(err, ErrCartChanged) {
		s.metrics.ObserveCheckout(metrics.OutcomeRejected, time.Since(started))
		s.logg.Warn(ctx, "checkout lost race on cart lines")
		return nil, ErrCartChanged
	}
	if err != nil {
		s.metrics.ObserveCheckout(metrics.OutcomeFailure, time.Since(started))
		s.logg.Error(ctx, "checkout failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order creation failed")
	}

	s.metrics.ObserveCheckout(metrics.OutcomeSuccess, time.Since(started))
	s.metrics.AddOrdersCreated(len(result.OrderIDs))
	if s.counts != nil {
		s.counts.InvalidateCounts(ctx, userID)
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_numbers":  result.OrderNumbers,
		"payment_method": method.String(),
		"grand_total":    result.GrandTotal.StringFixed(2),
	}), "checkout committed")
	return result, nil
}
