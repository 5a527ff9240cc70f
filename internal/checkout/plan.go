package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamongk12147998-oss/foodhub-sub000/internal/cart"
	pkgcheckout "github.com/jsamongk12147998-oss/foodhub-sub000/pkg/checkout"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
)

// maxDistinctDraws bounds how often a suffix is redrawn to keep the order
// numbers of one checkout distinct. The unique constraint still has the last
// word.
const maxDistinctDraws = 8

// PlanOptions carries the pricing and numbering inputs of Plan.
type PlanOptions struct {
	ServiceFee decimal.Decimal
	Prefix     string
	Clock      func() time.Time
	Random     func(n int) string
}

func (o PlanOptions) now() time.Time {
	if o.Clock == nil {
		return time.Now().UTC()
	}
	return o.Clock()
}

func (o PlanOptions) suffix() string {
	if o.Random == nil {
		return pkgcheckout.RandomSuffix(pkgcheckout.OrderNumberSuffixLen)
	}
	return o.Random(pkgcheckout.OrderNumberSuffixLen)
}

// PlannedItem is an order item copied from a cart line. CartLineID and
// Quantity identify the line the writer removes from the cart.
type PlannedItem struct {
	CartLineID int64
	ProductID  int64
	Name       string
	ImageURL   string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// PlannedPayment is the payment row written next to an order.
type PlannedPayment struct {
	Method enums.PaymentMethod
	Status enums.PaymentStatus
	Amount decimal.Decimal
}

// CommitPlan describes one vendor order to be written at checkout.
type CommitPlan struct {
	OrderNumber string
	VendorID    int64
	VendorName  string
	Items       []PlannedItem
	Subtotal    decimal.Decimal
	ServiceFee  decimal.Decimal
	TotalAmount decimal.Decimal
	Payment     PlannedPayment
}

// Plan turns a vendor-grouped cart into one CommitPlan per vendor. Each plan
// carries its own service fee and payment. Plan performs no I/O.
func Plan(agg cart.Aggregation, method enums.PaymentMethod, opts PlanOptions) []CommitPlan {
	plans := make([]CommitPlan, 0, len(agg.Groups))
	at := opts.now()
	used := make(map[string]struct{}, len(agg.Groups))

	for _, group := range agg.Groups {
		items := make([]PlannedItem, 0, len(group.Lines))
		subtotal := decimal.Zero
		for _, line := range group.Lines {
			total := line.LineTotal()
			subtotal = subtotal.Add(total)
			items = append(items, PlannedItem{
				CartLineID: line.ID,
				ProductID:  line.ProductID,
				Name:       line.ProductName,
				ImageURL:   line.ProductImageURL,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				TotalPrice: total,
			})
		}
		total := subtotal.Add(opts.ServiceFee).Round(2)
		plans = append(plans, CommitPlan{
			OrderNumber: nextOrderNumber(opts, at, used),
			VendorID:    group.VendorID,
			VendorName:  group.VendorName,
			Items:       items,
			Subtotal:    subtotal,
			ServiceFee:  opts.ServiceFee,
			TotalAmount: total,
			Payment: PlannedPayment{
				Method: method,
				Status: method.InitialStatus(),
				Amount: total,
			},
		})
	}
	return plans
}

// Renumber returns a copy of plans with freshly drawn order numbers.
func Renumber(plans []CommitPlan, opts PlanOptions) []CommitPlan {
	out := make([]CommitPlan, len(plans))
	at := opts.now()
	used := make(map[string]struct{}, len(plans))
	for i, plan := range plans {
		plan.OrderNumber = nextOrderNumber(opts, at, used)
		out[i] = plan
	}
	return out
}

// GrandTotal sums the totals of plans.
func GrandTotal(plans []CommitPlan) decimal.Decimal {
	total := decimal.Zero
	for _, plan := range plans {
		total = total.Add(plan.TotalAmount)
	}
	return total
}

func nextOrderNumber(opts PlanOptions, at time.Time, used map[string]struct{}) string {
	var number string
	for i := 0; i < maxDistinctDraws; i++ {
		number = pkgcheckout.FormatOrderNumber(opts.Prefix, at, opts.suffix())
		if _, dup := used[number]; !dup {
			break
		}
	}
	used[number] = struct{}{}
	return number
}
