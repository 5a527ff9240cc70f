package actions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamongk12147998-oss/foodhub-sub000/api/middleware"
	cartsvc "github.com/jsamongk12147998-oss/foodhub-sub000/internal/cart"
	internalorders "github.com/jsamongk12147998-oss/foodhub-sub000/internal/orders"
	"github.com/jsamongk12147998-oss/foodhub-sub000/internal/reviews"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
	pkgerrors "github.com/jsamongk12147998-oss/foodhub-sub000/pkg/errors"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func echoRegistry(calls *[]Request) Registry {
	reg := Registry{}
	for _, action := range enums.Actions() {
		reg[action] = func(_ context.Context, req Request) (Result, error) {
			*calls = append(*calls, req)
			return Result{Message: "ok " + req.Action.String(), Data: req.Params}, nil
		}
	}
	return reg
}

func post(t *testing.T, d http.Handler, contentType, body string, withUser bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/actions", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	if withUser {
		req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	}
	resp := httptest.NewRecorder()
	d.ServeHTTP(resp, req)

	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	return resp, env
}

func TestNewDispatcherPanicsOnMissingHandler(t *testing.T) {
	var calls []Request
	reg := echoRegistry(&calls)
	delete(reg, enums.ActionSubmitReview)

	assert.PanicsWithValue(t, `actions: no handler registered for "submit_review"`, func() {
		NewDispatcher(reg, nil)
	})
}

func TestNewDispatcherPanicsOnUnknownAction(t *testing.T) {
	var calls []Request
	reg := echoRegistry(&calls)
	reg["get_user_info"] = reg[enums.ActionGetOrderCounts]

	assert.Panics(t, func() { NewDispatcher(reg, nil) })
}

func TestDispatchFormBody(t *testing.T) {
	var calls []Request
	d := NewDispatcher(echoRegistry(&calls), nil)

	form := url.Values{"action": {"add_to_cart"}, "product_id": {"12"}, "quantity": {"2"}}
	resp, env := post(t, d, "application/x-www-form-urlencoded", form.Encode(), true)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "ok add_to_cart", env.Message)
	require.Len(t, calls, 1)
	assert.Equal(t, enums.ActionAddToCart, calls[0].Action)
	assert.Equal(t, "12", calls[0].Params["product_id"])
	assert.NotEqual(t, uuid.Nil, calls[0].UserID)
}

func TestDispatchJSONBody(t *testing.T) {
	var calls []Request
	d := NewDispatcher(echoRegistry(&calls), nil)

	resp, _ := post(t, d, "application/json; charset=utf-8", `{"action":"submit_review","order_id":7,"rating":5,"review_text":"Sulit at masarap"}`, true)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, calls, 1)
	assert.Equal(t, "7", calls[0].Params["order_id"])
	assert.Equal(t, "5", calls[0].Params["rating"])
}

func TestDispatchUnknownAction(t *testing.T) {
	var calls []Request
	d := NewDispatcher(echoRegistry(&calls), nil)

	resp, env := post(t, d, "application/x-www-form-urlencoded", "action=drop_tables", true)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid action", env.Message)
	assert.Empty(t, calls)
}

func TestDispatchRequiresUser(t *testing.T) {
	var calls []Request
	d := NewDispatcher(echoRegistry(&calls), nil)

	resp, env := post(t, d, "application/x-www-form-urlencoded", "action=get_order_counts", false)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.False(t, env.Success)
	assert.Empty(t, calls)
}

type stubCart struct {
	cartsvc.Service
	productID int64
	qty       int
}

func (s *stubCart) AddOrIncrement(_ context.Context, _ uuid.UUID, productID int64, qty int) (*cartsvc.Snapshot, error) {
	s.productID, s.qty = productID, qty
	return &cartsvc.Snapshot{Count: qty}, nil
}

type stubOrders struct {
	internalorders.Service
}

func (stubOrders) GetDetail(context.Context, int64, uuid.UUID) (*internalorders.OrderDetail, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

type stubCancel struct{ reason string }

func (s *stubCancel) Cancel(_ context.Context, _ int64, _ uuid.UUID, reason string) error {
	s.reason = reason
	if strings.TrimSpace(reason) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cancellation reason is required")
	}
	return nil
}

type stubReviews struct{}

func (stubReviews) Submit(context.Context, reviews.SubmitInput) (reviews.Outcome, error) {
	return reviews.OutcomeCreated, nil
}

func registryDispatcher(cart *stubCart, cancel *stubCancel) *Dispatcher {
	return NewDispatcher(NewRegistry(Services{
		Cart:    cart,
		Orders:  stubOrders{},
		Cancel:  cancel,
		Reviews: stubReviews{},
	}), nil)
}

func TestAddToCartDefaultsQuantity(t *testing.T) {
	cart := &stubCart{}
	d := registryDispatcher(cart, &stubCancel{})

	resp, env := post(t, d, "application/x-www-form-urlencoded", "action=add_to_cart&product_id=4", true)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Added to cart", env.Message)
	assert.EqualValues(t, 4, cart.productID)
	assert.Equal(t, 1, cart.qty)
}

func TestAddToCartRejectsBadProductID(t *testing.T) {
	cart := &stubCart{}
	d := registryDispatcher(cart, &stubCancel{})

	resp, env := post(t, d, "application/x-www-form-urlencoded", "action=add_to_cart&product_id=abc", true)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "product_id must be a positive integer", env.Message)
	assert.Zero(t, cart.productID)
}

func TestOrderDetailsNotFound(t *testing.T) {
	d := registryDispatcher(&stubCart{}, &stubCancel{})

	resp, env := post(t, d, "application/json", `{"action":"get_order_details","order_id":"99"}`, true)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "order not found", env.Message)
}

func TestCancelOrderPassesReason(t *testing.T) {
	cancel := &stubCancel{}
	d := registryDispatcher(&stubCart{}, cancel)

	resp, env := post(t, d, "application/x-www-form-urlencoded", "action=cancel_order&order_id=3&cancellation_reason=wrong+order", true)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Order cancelled successfully", env.Message)
	assert.Equal(t, "wrong order", cancel.reason)
}

func TestSubmitReviewMessage(t *testing.T) {
	d := registryDispatcher(&stubCart{}, &stubCancel{})

	_, env := post(t, d, "application/x-www-form-urlencoded", "action=submit_review&order_id=3&product_id=2&rating=5&review_text=Ang+sarap+ng+sisig", true)

	assert.True(t, env.Success)
	assert.Equal(t, "Review submitted successfully", env.Message)
}
