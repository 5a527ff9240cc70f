package checkout

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jsamongk12147998-oss/foodhub-sub000/internal/cart"
	"github.com/jsamongk12147998-oss/foodhub-sub000/internal/orders"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/models"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
	pkgerrors "github.com/jsamongk12147998-oss/foodhub-sub000/pkg/errors"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/logger"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/metrics"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/outbox"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/outbox/payloads"
)

const orderNumberConstraint = "order_number"

// ErrCartChanged is returned when a planned cart line was removed or changed
// before the checkout transaction claimed it.
var ErrCartChanged = pkgerrors.New(pkgerrors.CodeStateConflict, "cart changed, please review it and try again")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Result summarises a committed checkout.
type Result struct {
	OrderNumbers []string        `json:"order_numbers"`
	OrderIDs     []int64         `json:"order_ids"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
}

// WriterOptions configures retries and instrumentation of the Writer.
type WriterOptions struct {
	// Numbering is used to redraw order numbers after a collision.
	Numbering PlanOptions
	// Attempts bounds how often the transaction runs. Values below 1 mean 1.
	Attempts int
	Metrics  *metrics.OrderMetrics
	Logger   *logger.Logger
}

// Writer persists commit plans and clears the cart in a single transaction.
type Writer struct {
	tx       txRunner
	orders   orders.Repository
	cart     cart.CartRepository
	outbox   outbox.Emitter
	opts     WriterOptions
	attempts int
	logg     *logger.Logger
}

// NewWriter builds the transactional order writer.
func NewWriter(tx txRunner, ordersRepo orders.Repository, cartRepo cart.CartRepository, emitter outbox.Emitter, opts WriterOptions) (*Writer, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	attempts := opts.Attempts
	if attempts < 1 {
		attempts = 1
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Writer{
		tx:       tx,
		orders:   ordersRepo,
		cart:     cartRepo,
		outbox:   emitter,
		opts:     opts,
		attempts: attempts,
		logg:     logg,
	}, nil
}

// Commit writes every plan and deletes the cart lines the plans were built
// from. Nothing is persisted unless all of it is, and a line that no longer
// matches its plan aborts the whole commit with ErrCartChanged. An order number collision redraws the
// numbers and reruns the transaction; other errors are returned as is.
func (w *Writer) Commit(ctx context.Context, userID uuid.UUID, plans []CommitPlan) (*Result, error) {
	if len(plans) == 0 {
		return nil, fmt.Errorf("no commit plans")
	}
	for attempt := 1; ; attempt++ {
		result, err := w.commitOnce(ctx, userID, plans)
		if err == nil {
			return result, nil
		}
		if attempt >= w.attempts || !db.IsUniqueViolation(err, orderNumberConstraint) {
			return nil, err
		}
		w.opts.Metrics.IncOrderNumberConflict()
		w.logg.Warn(w.logg.WithField(ctx, "attempt", attempt), "order number collision, retrying checkout")
		plans = Renumber(plans, w.opts.Numbering)
	}
}

func (w *Writer) commitOnce(ctx context.Context, userID uuid.UUID, plans []CommitPlan) (*Result, error) {
	result := &Result{
		OrderNumbers: make([]string, 0, len(plans)),
		OrderIDs:     make([]int64, 0, len(plans)),
		GrandTotal:   GrandTotal(plans),
	}
	err := w.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := w.orders.WithTx(tx)
		cartRepo := w.cart.WithTx(tx)

		for _, plan := range plans {
			orderID, err := w.writePlan(ctx, tx, ordersRepo, userID, plan)
			if err != nil {
				return err
			}
			result.OrderNumbers = append(result.OrderNumbers, plan.OrderNumber)
			result.OrderIDs = append(result.OrderIDs, orderID)
		}

		return claimCartLines(ctx, cartRepo, userID, plans)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func claimCartLines(ctx context.Context, repo cart.CartRepository, userID uuid.UUID, plans []CommitPlan) error {
	for _, plan := range plans {
		for _, item := range plan.Items {
			affected, err := repo.DeleteOrdered(ctx, userID, item.CartLineID, item.Quantity)
			if err != nil {
				return fmt.Errorf("clear cart: %w", err)
			}
			if affected != 1 {
				return ErrCartChanged
			}
		}
	}
	return nil
}

func (w *Writer) writePlan(ctx context.Context, tx *gorm.DB, repo orders.Repository, userID uuid.UUID, plan CommitPlan) (int64, error) {
	order := &models.Order{
		OrderNumber: plan.OrderNumber,
		UserID:      userID,
		VendorID:    plan.VendorID,
		VendorName:  plan.VendorName,
		ServiceFee:  plan.ServiceFee,
		TotalAmount: plan.TotalAmount,
		Status:      enums.OrderStatusPreparing,
	}
	if err := repo.CreateOrder(ctx, order); err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	items := make([]models.OrderItem, 0, len(plan.Items))
	for _, item := range plan.Items {
		items = append(items, models.OrderItem{
			OrderID:      order.ID,
			ProductID:    item.ProductID,
			ItemName:     item.Name,
			ItemImageURL: item.ImageURL,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			TotalPrice:   item.TotalPrice,
		})
	}
	if err := repo.CreateOrderItems(ctx, items); err != nil {
		return 0, fmt.Errorf("insert order items: %w", err)
	}

	payment := &models.Payment{
		OrderID: order.ID,
		Amount:  plan.Payment.Amount,
		Method:  plan.Payment.Method,
		Status:  plan.Payment.Status,
	}
	if err := repo.CreatePayment(ctx, payment); err != nil {
		return 0, fmt.Errorf("insert payment: %w", err)
	}
	if err := repo.SetPaymentID(ctx, order.ID, payment.ID); err != nil {
		return 0, fmt.Errorf("link payment: %w", err)
	}

	event := outbox.DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   strconv.FormatInt(order.ID, 10),
		Actor:         &outbox.ActorRef{UserID: userID, Role: "customer"},
		Data: payloads.OrderCreatedEvent{
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			VendorID:      order.VendorID,
			TotalAmount:   order.TotalAmount,
			PaymentMethod: payment.Method,
			ItemCount:     len(items),
		},
	}
	if err := w.outbox.Emit(ctx, tx, event); err != nil {
		return 0, fmt.Errorf("emit order created: %w", err)
	}
	return order.ID, nil
}
