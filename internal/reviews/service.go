package reviews

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/models"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
	pkgerrors "github.com/jsamongk12147998-oss/foodhub-sub000/pkg/errors"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/logger"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/metrics"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/outbox"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/outbox/payloads"
)

const (
	MinRating     = 1
	MaxRating     = 5
	MinTextLength = 10
)

// Outcome tells whether a submission created a review or replaced one.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// SubmitInput carries a review submission.
type SubmitInput struct {
	OrderID   int64
	ProductID int64
	UserID    uuid.UUID
	Rating    int
	Text      string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderLoader interface {
	FindByIDForUser(ctx context.Context, orderID int64, userID uuid.UUID) (*models.Order, error)
}

// Service validates and stores product reviews.
type Service struct {
	repo    *Repository
	orders  orderLoader
	tx      txRunner
	outbox  outbox.Emitter
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the review service.
func NewService(repo *Repository, orders orderLoader, tx txRunner, emitter outbox.Emitter, m *metrics.OrderMetrics, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{
		repo:    repo,
		orders:  orders,
		tx:      tx,
		outbox:  emitter,
		metrics: m,
		logg:    logg,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Submit records the review. Checks run in a fixed order and the first
// failing one is reported. Submitting again for the same order and product
// replaces the earlier review.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (Outcome, error) {
	outcome, err := s.submit(ctx, input)
	switch {
	case err == nil:
		s.metrics.IncReview(string(outcome))
	case pkgerrors.IsCode(err, pkgerrors.CodeInternal):
		s.metrics.IncReview(metrics.OutcomeFailure)
	default:
		s.metrics.IncReview(metrics.OutcomeRejected)
	}
	return outcome, err
}

func (s *Service) submit(ctx context.Context, input SubmitInput) (Outcome, error) {
	if input.UserID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	if input.Rating < MinRating || input.Rating > MaxRating {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	text := strings.TrimSpace(input.Text)
	if utf8.RuneCountInString(text) < MinTextLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("review must be at least %d characters", MinTextLength))
	}

	// Completed is terminal and order items never change, so eligibility read
	// here cannot be invalidated before the write below.
	order, err := s.orders.FindByIDForUser(ctx, input.OrderID, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if !order.Status.Reviewable() {
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "reviews are only allowed for completed orders")
	}
	if !containsProduct(order.Items, input.ProductID) {
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "product is not part of this order")
	}

	review := models.Review{
		UserID:     input.UserID,
		ProductID:  input.ProductID,
		OrderID:    input.OrderID,
		Rating:     input.Rating,
		ReviewText: text,
	}
	at := s.now()
	var outcome Outcome
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.InsertIfAbsent(ctx, review, at)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert review")
		}
		outcome = OutcomeCreated
		if !created {
			if _, err := repo.Overwrite(ctx, review, at); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update review")
			}
			outcome = OutcomeUpdated
		}

		stored, err := repo.Find(ctx, review.UserID, review.ProductID, review.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload review")
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventReviewSubmitted,
			AggregateType: enums.AggregateReview,
			AggregateID:   strconv.FormatInt(stored.ID, 10),
			Actor:         &outbox.ActorRef{UserID: input.UserID, Role: "customer"},
			Data: payloads.ReviewSubmittedEvent{
				ReviewID:  stored.ID,
				OrderID:   stored.OrderID,
				ProductID: stored.ProductID,
				Rating:    stored.Rating,
				Created:   outcome == OutcomeCreated,
			},
			OccurredAt: at,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "emit review event")
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":   input.OrderID,
		"product_id": input.ProductID,
		"outcome":    string(outcome),
	}), "review submitted")
	return outcome, nil
}

func containsProduct(items []models.OrderItem, productID int64) bool {
	for _, item := range items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
