package routes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamongk12147998-oss/foodhub-sub000/api/controllers"
	"github.com/jsamongk12147998-oss/foodhub-sub000/api/controllers/actions"
	cartsvc "github.com/jsamongk12147998-oss/foodhub-sub000/internal/cart"
	internalorders "github.com/jsamongk12147998-oss/foodhub-sub000/internal/orders"
	pkgAuth "github.com/jsamongk12147998-oss/foodhub-sub000/pkg/auth"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/config"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/models"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/logger"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubStore struct {
	allow bool
}

func (stubStore) Get(context.Context, string) (string, error) {
	return "", errors.New("not stored")
}

func (stubStore) SetNX(context.Context, string, any, time.Duration) (bool, error) {
	return true, nil
}

func (stubStore) IdempotencyKey(scope, id string) string {
	return scope + ":" + id
}

func (s stubStore) FixedWindowAllow(context.Context, string, int64, time.Duration) (bool, int64, error) {
	if s.allow {
		return true, 1, nil
	}
	return false, 121, nil
}

type stubCartService struct {
	cartsvc.Service
}

func (stubCartService) Snapshot(context.Context, uuid.UUID) (*cartsvc.Snapshot, error) {
	return &cartsvc.Snapshot{}, nil
}

type stubOrdersService struct {
	internalorders.Service
}

func (stubOrdersService) Advance(_ context.Context, orderID int64, to enums.OrderStatus) (*models.Order, error) {
	return &models.Order{ID: orderID, Status: to}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
		RateLimit: config.RateLimitConfig{ActionsWindow: time.Minute, ActionsLimit: 120},
	}
}

func newTestRouter(cfg *config.Config, opts Options) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(cfg, logg, actions.Services{
		Cart:   stubCartService{},
		Orders: stubOrdersService{},
	}, opts)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAPIRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), Options{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAPISucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, Options{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestStaffGroupRequiresStaffRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, Options{})

	customer := httptest.NewRequest(http.MethodPatch, "/api/v1/staff/orders/4/status", strings.NewReader(`{"status":"ready"}`))
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	staff := httptest.NewRequest(http.MethodPatch, "/api/v1/staff/orders/4/status", strings.NewReader(`{"status":"ready"}`))
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"status":"ready"`) {
		t.Fatalf("expected advanced status in body got %s", resp.Body.String())
	}
}

func TestCheckoutRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, Options{Store: stubStore{allow: true}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"payment_method":"cash"}`))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}
}

func TestActionsAreRateLimited(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, Options{Store: stubStore{allow: false}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/actions", strings.NewReader("action=get_order_counts"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 when limiter denies got %d", resp.Code)
	}
}

func TestHealthReadyReportsDependencyFailure(t *testing.T) {
	router := newTestRouter(testConfig(), Options{Ready: []controllers.Dependency{
		{Name: "db", Pinger: stubPinger{}},
		{Name: "redis", Pinger: stubPinger{err: errors.New("connection refused")}},
	}})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "redis unavailable") {
		t.Fatalf("expected failing dependency in body got %s", resp.Body.String())
	}
}

func TestHealthLiveAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "router_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	router := newTestRouter(testConfig(), Options{Gatherer: reg})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from live got %d", resp.Code)
	}
	if resp.Header().Get("X-FoodHub-Env") != "test" {
		t.Fatalf("expected env header, got %q", resp.Header().Get("X-FoodHub-Env"))
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "router_test_total 1") {
		t.Fatalf("expected metrics exposition got %d: %s", resp.Code, resp.Body.String())
	}
}
