package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamongk12147998-oss/foodhub-sub000/api/middleware"
	checkoutsvc "github.com/jsamongk12147998-oss/foodhub-sub000/internal/checkout"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/config"
	pkgerrors "github.com/jsamongk12147998-oss/foodhub-sub000/pkg/errors"
)

type stubCheckoutService struct {
	method string
	result *checkoutsvc.Result
	err    error
}

func (s *stubCheckoutService) PlaceOrder(_ context.Context, _ uuid.UUID, paymentMethod string) (*checkoutsvc.Result, error) {
	s.method = paymentMethod
	return s.result, s.err
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	return env
}

func TestCheckoutCreatesOrders(t *testing.T) {
	svc := &stubCheckoutService{result: &checkoutsvc.Result{
		OrderNumbers: []string{"ORD20260301120000ABC123", "ORD20260301120000XYZ789"},
		OrderIDs:     []int64{1, 2},
		GrandTotal:   decimal.RequireFromString("200.00"),
	}}

	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout", `{"payment_method":"cash"}`))

	require.Equal(t, http.StatusCreated, resp.Code)
	env := decodeEnvelope(t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, "Order placed successfully", env.Message)
	assert.Equal(t, "cash", svc.method)

	var result checkoutsvc.Result
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, []int64{1, 2}, result.OrderIDs)
	assert.True(t, result.GrandTotal.Equal(decimal.NewFromInt(200)))
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeValidation, "nothing to order")}

	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout", `{"payment_method":"gcash"}`))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "nothing to order", env.Message)
}

func TestCheckoutWriterFailureIsGeneric(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("duplicate key"), "order creation failed")}

	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout", `{"payment_method":"cash"}`))

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, "order creation failed", decodeEnvelope(t, resp).Message)
}

func TestHealthReadyReportsDownDependency(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	handler := HealthReady(cfg, nil,
		Dependency{Name: "db", Pinger: stubPinger{}},
		Dependency{Name: "redis", Pinger: stubPinger{err: errors.New("dial tcp: refused")}},
	)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, "redis unavailable", decodeEnvelope(t, resp).Message)
}

func TestHealthReadyOK(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	handler := HealthReady(cfg, nil, Dependency{Name: "db", Pinger: stubPinger{}}, Dependency{Name: "redis"})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "test", resp.Header().Get("X-FoodHub-Env"))
}
