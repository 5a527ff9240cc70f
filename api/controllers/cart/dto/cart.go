package cartdto

import (
	"github.com/shopspring/decimal"

	cartsvc "github.com/jsamongk12147998-oss/foodhub-sub000/internal/cart"
)

// DefaultAddQuantity is used when an add request omits the quantity.
const DefaultAddQuantity = 1

// AddItemRequest is the body of POST /api/v1/cart/items.
type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  *int  `json:"quantity" validate:"omitempty,min=1"`
}

// Qty returns the requested quantity or DefaultAddQuantity.
func (r AddItemRequest) Qty() int {
	if r.Quantity == nil {
		return DefaultAddQuantity
	}
	return *r.Quantity
}

// UpdateItemRequest is the body of PATCH /api/v1/cart/items/{cartId}. A
// quantity of zero removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

type CartLine struct {
	ID        int64           `json:"cart_id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"product_name"`
	ImageURL  string          `json:"product_image_url"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type VendorGroup struct {
	VendorID   int64           `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Lines      []CartLine      `json:"items"`
}

// Cart is the client view of the cart after every read or mutation.
type Cart struct {
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Vendors  []VendorGroup   `json:"vendors"`
}

// FromSnapshot renders a cart snapshot. Monetary values are rounded to
// centavos for display only.
func FromSnapshot(snapshot *cartsvc.Snapshot) Cart {
	out := Cart{Subtotal: decimal.Zero, Vendors: []VendorGroup{}}
	if snapshot == nil {
		return out
	}
	out.Count = snapshot.Count
	out.Subtotal = snapshot.GrandSubtotal.Round(2)
	for _, group := range snapshot.Groups {
		view := VendorGroup{
			VendorID:   group.VendorID,
			VendorName: group.VendorName,
			Subtotal:   group.Subtotal.Round(2),
			Lines:      make([]CartLine, 0, len(group.Lines)),
		}
		for _, line := range group.Lines {
			view.Lines = append(view.Lines, CartLine{
				ID:        line.ID,
				ProductID: line.ProductID,
				Name:      line.ProductName,
				ImageURL:  line.ProductImageURL,
				UnitPrice: line.UnitPrice,
				Quantity:  line.Quantity,
				LineTotal: line.LineTotal().Round(2),
			})
		}
		out.Vendors = append(out.Vendors, view)
	}
	return out
}
