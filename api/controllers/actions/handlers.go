package actions

import (
	"context"
	"strings"

	"github.com/jsamongk12147998-oss/foodhub-sub000/api/controllers"
	cartdto "github.com/jsamongk12147998-oss/foodhub-sub000/api/controllers/cart/dto"
	ordercontrollers "github.com/jsamongk12147998-oss/foodhub-sub000/api/controllers/orders"
	"github.com/jsamongk12147998-oss/foodhub-sub000/api/validators"
	cartsvc "github.com/jsamongk12147998-oss/foodhub-sub000/internal/cart"
	checkoutsvc "github.com/jsamongk12147998-oss/foodhub-sub000/internal/checkout"
	"github.com/jsamongk12147998-oss/foodhub-sub000/internal/favorites"
	internalorders "github.com/jsamongk12147998-oss/foodhub-sub000/internal/orders"
	"github.com/jsamongk12147998-oss/foodhub-sub000/internal/reviews"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
	pkgerrors "github.com/jsamongk12147998-oss/foodhub-sub000/pkg/errors"
)

// Services are the collaborators the action handlers call into.
type Services struct {
	Cart      cartsvc.Service
	Checkout  checkoutsvc.Service
	Orders    internalorders.Service
	Cancel    ordercontrollers.Canceller
	Reviews   ordercontrollers.ReviewSubmitter
	Favorites favorites.Service
}

// NewRegistry binds every action to the matching service call.
func NewRegistry(svc Services) Registry {
	return Registry{
		enums.ActionAddToCart:          addToCart(svc.Cart),
		enums.ActionUpdateCartQuantity: updateCartQuantity(svc.Cart),
		enums.ActionRemoveFromCart:     removeFromCart(svc.Cart),
		enums.ActionPlaceOrder:         placeOrder(svc.Checkout),
		enums.ActionGetOrdersByStatus:  ordersByStatus(svc.Orders),
		enums.ActionGetOrderCounts:     orderCounts(svc.Orders),
		enums.ActionGetOrderDetails:    orderDetails(svc.Orders),
		enums.ActionCancelOrder:        cancelOrder(svc.Cancel),
		enums.ActionSubmitReview:       submitReview(svc.Reviews),
		enums.ActionToggleFavorite:     toggleFavorite(svc.Favorites),
	}
}

func addToCart(cart cartsvc.Service) HandlerFunc {
	return func(ctx context.Context, req Request) (Result, error) {
		productID, err := req.Params.ID("product_id")
		if err != nil {
			return Result{}, err
		}
		qty, err := req.Params.Int("quantity", cartdto.DefaultAddQuantity)
		if err != nil {
			return Result{}, err
		}
		snapshot, err := cart.AddOrIncrement(ctx, req.UserID, productID, qty)
		if err != nil {
			return Result{}, err
		}
		return Result{Message: "Added to cart", Data: cartdto.FromSnapshot(snapshot)}, nil
	}
}

func updateCartQuantity(cart cartsvc.Service) HandlerFunc {
	return func(ctx context.Context, req Request) (Result, error) {
		lineID, err := req.Params.ID("cart_id")
		if err != nil {
			return Result{}, err
		}
		qty, err := req.Params.Int("quantity", 0)
		if err != nil {
			return Result{}, err
		}
		snapshot, err := cart.SetQuantity(ctx, req.UserID, lineID, qty)
		if err != nil {
			return Result{}, err
		}
		return Result{Message: "Cart updated", Data: cartdto.FromSnapshot(snapshot)}, nil
	}
}

func removeFromCart(cart cartsvc.Service) HandlerFunc {
	return func(ctx context.Context, req Request) (Result, error) {
		lineID, err := req.Params.ID("cart_id")
		if err != nil {
			return Result{}, err
		}
		snapshot, err := cart.Remove(ctx, req.UserID, lineID)
		if err != nil {
			return Result{}, err
		}
		return Result{Message: "Item removed", Data: cartdto.FromSnapshot(snapshot)}, nil
	}
}

func placeOrder(checkout checkoutsvc.Service) HandlerFunc {
	return func(ctx context.Context, req Request) (Result, error) {
		method := req.Params.String("payment_method")
		if method == "" {
			return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "payment_method is required")
		}
		result, err := checkout.PlaceOrder(ctx, req.UserID, method)
		if err != nil {
			return Result{}, err
		}
		return Result{Message: "Order placed successfully", Data: result}, nil
	}
}

func ordersByStatus(orders internalorders.Service) HandlerFunc {
	return func(ctx context.Context, req Request) (Result, error) {
		status := enums.OrderStatus(strings.ToLower(req.Params.String("status")))
		list, err := orders.ListByStatus(ctx, req.UserID, status)
		if err != nil {
			return Result{}, err
		}
		return Result{Data: map[string]any{"orders": list}}, nil
	}
}

func orderCounts(orders internalorders.Service) HandlerFunc {
	return func(ctx context.Context, req Request) (Result, error) {
		counts, err := orders.CountsByStatus(ctx, req.UserID)
		if err != nil {
			return Result{}, err
		}
		return Result{Data: map[string]any{"counts": counts}}, nil
	}
}

func orderDetails(orders internalorders.Service) HandlerFunc {
	return func(ctx context.Context, req Request) (Result, error) {
		orderID, err := req.Params.ID("order_id")
		if err != nil {
			return Result{}, err
		}
		detail, err := orders.GetDetail(ctx, orderID, req.UserID)
		if err != nil {
			return Result{}, err
		}
		return Result{Data: map[string]any{"order": detail}}, nil
	}
}

func cancelOrder(cancel ordercontrollers.Canceller) HandlerFunc {
	return func(ctx context.Context, req Request) (Result, error) {
		orderID, err := req.Params.ID("order_id")
		if err != nil {
			return Result{}, err
		}
		if err := cancel.Cancel(ctx, orderID, req.UserID, validators.SanitizeString(req.Params["cancellation_reason"], validators.MaxReasonLen)); err != nil {
			return Result{}, err
		}
		return Result{Message: "Order cancelled successfully"}, nil
	}
}

func submitReview(reviewSvc ordercontrollers.ReviewSubmitter) HandlerFunc {
	return func(ctx context.Context, req Request) (Result, error) {
		orderID, err := req.Params.ID("order_id")
		if err != nil {
			return Result{}, err
		}
		productID, err := req.Params.ID("product_id")
		if err != nil {
			return Result{}, err
		}
		rating, err := req.Params.Int("rating", 0)
		if err != nil {
			return Result{}, err
		}
		outcome, err := reviewSvc.Submit(ctx, reviews.SubmitInput{
			OrderID:   orderID,
			ProductID: productID,
			UserID:    req.UserID,
			Rating:    rating,
			Text:      req.Params["review_text"],
		})
		if err != nil {
			return Result{}, err
		}
		return Result{Message: ordercontrollers.ReviewMessage(outcome), Data: map[string]any{"outcome": outcome}}, nil
	}
}

func toggleFavorite(favs favorites.Service) HandlerFunc {
	return func(ctx context.Context, req Request) (Result, error) {
		productID, err := req.Params.ID("product_id")
		if err != nil {
			return Result{}, err
		}
		favorited, err := favs.Toggle(ctx, req.UserID, productID)
		if err != nil {
			return Result{}, err
		}
		return Result{Message: controllers.FavoriteMessage(favorited), Data: map[string]any{"favorited": favorited}}, nil
	}
}
