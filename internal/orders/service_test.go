package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/dbtest"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/models"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
	pkgerrors "github.com/jsamongk12147998-oss/foodhub-sub000/pkg/errors"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/outbox"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/redis"
)

var testUser = uuid.MustParse("5b0c1f0e-8a40-4d1c-9f3e-2f8f0e6c1a11")

type stubTxRunner struct {
	calls int
}

func (s *stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	return fn(nil)
}

type stubEmitter struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubEmitter) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

// stubRepo embeds Repository so tests only override what they use.
type stubRepo struct {
	Repository
	countFn     func(uuid.UUID) (map[enums.OrderStatus]int64, error)
	findFn      func(int64) (*models.Order, error)
	updateFrom  func(int64, enums.OrderStatus, enums.OrderStatus) (int64, error)
	paymentSets []enums.PaymentStatus
	countCalls  int
}

func (s *stubRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubRepo) CountByStatus(_ context.Context, userID uuid.UUID) (map[enums.OrderStatus]int64, error) {
	s.countCalls++
	return s.countFn(userID)
}

func (s *stubRepo) FindByID(_ context.Context, orderID int64) (*models.Order, error) {
	return s.findFn(orderID)
}

func (s *stubRepo) UpdateStatusFrom(_ context.Context, orderID int64, from, to enums.OrderStatus) (int64, error) {
	return s.updateFrom(orderID, from, to)
}

func (s *stubRepo) UpdatePaymentStatus(_ context.Context, _ int64, status enums.PaymentStatus) (int64, error) {
	s.paymentSets = append(s.paymentSets, status)
	return 1, nil
}

type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	case string:
		m.values[key] = v
	default:
		return errors.New("unsupported value")
	}
	return nil
}

func (m *memoryCache) CacheKey(parts ...string) string {
	key := "test"
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

func TestCountsByStatusIncludesEveryStatus(t *testing.T) {
	repo := &stubRepo{countFn: func(uuid.UUID) (map[enums.OrderStatus]int64, error) {
		return map[enums.OrderStatus]int64{enums.OrderStatusPreparing: 2}, nil
	}}
	svc, err := NewService(repo, &stubTxRunner{}, &stubEmitter{}, nil, nil)
	require.NoError(t, err)

	counts, err := svc.CountsByStatus(context.Background(), testUser)
	require.NoError(t, err)
	assert.Len(t, counts, 6)
	assert.EqualValues(t, 2, counts[enums.OrderStatusPreparing])
	assert.EqualValues(t, 0, counts[enums.OrderStatusRefunded])
}

func TestCountsByStatusUsesCache(t *testing.T) {
	repo := &stubRepo{countFn: func(uuid.UUID) (map[enums.OrderStatus]int64, error) {
		return map[enums.OrderStatus]int64{enums.OrderStatusReady: 1}, nil
	}}
	cache := newMemoryCache()
	svc, err := NewService(repo, &stubTxRunner{}, &stubEmitter{}, NewCountsCache(cache, 5*time.Second), nil)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := svc.CountsByStatus(ctx, testUser)
	require.NoError(t, err)
	second, err := svc.CountsByStatus(ctx, testUser)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.countCalls)

	svc.InvalidateCounts(ctx, testUser)
	_, err = svc.CountsByStatus(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.countCalls)
}

func TestCountsReadRacingAWriteCannotCacheStaleCounts(t *testing.T) {
	cache := newMemoryCache()
	counts := NewCountsCache(cache, 5*time.Second)
	ctx := context.Background()

	var svc Service
	calls := 0
	repo := &stubRepo{countFn: func(uuid.UUID) (map[enums.OrderStatus]int64, error) {
		calls++
		if calls == 1 {
			// a cancel commits and invalidates while this read is in flight
			svc.InvalidateCounts(ctx, testUser)
			return map[enums.OrderStatus]int64{enums.OrderStatusPreparing: 1}, nil
		}
		return map[enums.OrderStatus]int64{enums.OrderStatusCancelled: 1}, nil
	}}
	var err error
	svc, err = NewService(repo, &stubTxRunner{}, &stubEmitter{}, counts, nil)
	require.NoError(t, err)

	stale, err := svc.CountsByStatus(ctx, testUser)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stale[enums.OrderStatusPreparing])

	fresh, err := svc.CountsByStatus(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "stale counts must not be served from cache")
	assert.EqualValues(t, 0, fresh[enums.OrderStatusPreparing])
	assert.EqualValues(t, 1, fresh[enums.OrderStatusCancelled])

	_, err = svc.CountsByStatus(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestNewCountsCacheDisabled(t *testing.T) {
	assert.Nil(t, NewCountsCache(nil, time.Second))
	assert.Nil(t, NewCountsCache(newMemoryCache(), 0))
}

func TestAdvanceRejectsIllegalTransition(t *testing.T) {
	repo := &stubRepo{
		findFn: func(id int64) (*models.Order, error) {
			return &models.Order{ID: id, UserID: testUser, Status: enums.OrderStatusCompleted}, nil
		},
		updateFrom: func(int64, enums.OrderStatus, enums.OrderStatus) (int64, error) {
			t.Fatal("terminal order must not be updated")
			return 0, nil
		},
	}
	emitter := &stubEmitter{}
	svc, err := NewService(repo, &stubTxRunner{}, emitter, nil, nil)
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), 5, enums.OrderStatusReady)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	assert.Empty(t, emitter.events)
}

func TestAdvanceDetectsConcurrentChange(t *testing.T) {
	repo := &stubRepo{
		findFn: func(id int64) (*models.Order, error) {
			return &models.Order{ID: id, UserID: testUser, Status: enums.OrderStatusPreparing}, nil
		},
		updateFrom: func(int64, enums.OrderStatus, enums.OrderStatus) (int64, error) {
			return 0, nil
		},
	}
	svc, err := NewService(repo, &stubTxRunner{}, &stubEmitter{}, nil, nil)
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), 5, enums.OrderStatusReady)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestAdvanceSettlesCashOnCompletion(t *testing.T) {
	repo := &stubRepo{
		findFn: func(id int64) (*models.Order, error) {
			return &models.Order{
				ID:      id,
				UserID:  testUser,
				Status:  enums.OrderStatusReady,
				Payment: &models.Payment{Method: enums.PaymentMethodCash, Status: enums.PaymentStatusPending},
			}, nil
		},
		updateFrom: func(_ int64, from, to enums.OrderStatus) (int64, error) {
			assert.Equal(t, enums.OrderStatusReady, from)
			assert.Equal(t, enums.OrderStatusCompleted, to)
			return 1, nil
		},
	}
	emitter := &stubEmitter{}
	svc, err := NewService(repo, &stubTxRunner{}, emitter, nil, nil)
	require.NoError(t, err)

	order, err := svc.Advance(context.Background(), 5, enums.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, order.Status)
	assert.Equal(t, []enums.PaymentStatus{enums.PaymentStatusCompleted}, repo.paymentSets)
	require.Len(t, emitter.events, 1)
	assert.Equal(t, enums.EventOrderStatusChanged, emitter.events[0].EventType)
	assert.Equal(t, "5", emitter.events[0].AggregateID)
}

func TestGetDetailScopesToOwner(t *testing.T) {
	client, conn := dbtest.Client(t)
	vendor := dbtest.SeedVendor(t, conn, "Pasta Point")
	carbonara := dbtest.SeedProduct(t, conn, vendor, "carbonara", "120.00")
	garlicBread := dbtest.SeedProduct(t, conn, vendor, "garlic-bread", "30.00")
	owner := dbtest.SeedUser(t, conn)
	other := dbtest.SeedUser(t, conn)
	order := dbtest.SeedOrder(t, conn, owner, vendor, enums.OrderStatusCompleted, enums.PaymentMethodOnline, carbonara, garlicBread)

	require.NoError(t, conn.Create(&models.Review{
		UserID:     owner,
		ProductID:  carbonara.ID,
		OrderID:    order.ID,
		Rating:     5,
		ReviewText: "creamy and generous",
	}).Error)

	svc, err := NewService(NewRepository(conn), client, outbox.NewService(outbox.NewRepository(conn), nil), nil, nil)
	require.NoError(t, err)

	detail, err := svc.GetDetail(context.Background(), order.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, detail.OrderNumber)
	assert.True(t, detail.CanReview)
	assert.False(t, detail.CanCancel)
	assert.Equal(t, "150", detail.Subtotal.String())
	assert.Equal(t, "160", detail.TotalAmount.String())
	require.Len(t, detail.Items, 2)
	assert.True(t, detail.Items[0].Reviewed)
	assert.False(t, detail.Items[1].Reviewed)
	require.NotNil(t, detail.Payment)
	assert.Equal(t, enums.PaymentStatusCompleted, detail.Payment.Status)

	_, err = svc.GetDetail(context.Background(), order.ID, other)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListByStatusFilters(t *testing.T) {
	client, conn := dbtest.Client(t)
	vendor := dbtest.SeedVendor(t, conn, "Pasta Point")
	product := dbtest.SeedProduct(t, conn, vendor, "carbonara", "120.00")
	userID := dbtest.SeedUser(t, conn)
	dbtest.SeedOrder(t, conn, userID, vendor, enums.OrderStatusPreparing, enums.PaymentMethodCash, product)
	dbtest.SeedOrder(t, conn, userID, vendor, enums.OrderStatusPreparing, enums.PaymentMethodCash, product)
	dbtest.SeedOrder(t, conn, userID, vendor, enums.OrderStatusReady, enums.PaymentMethodCash, product)

	svc, err := NewService(NewRepository(conn), client, outbox.NewService(outbox.NewRepository(conn), nil), nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	preparing, err := svc.ListByStatus(ctx, userID, enums.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Len(t, preparing, 2)
	for _, detail := range preparing {
		assert.True(t, detail.CanCancel)
	}

	all, err := svc.ListByStatus(ctx, userID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.ListByStatus(ctx, userID, enums.OrderStatus("shipped"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	counts, err := svc.CountsByStatus(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[enums.OrderStatusPreparing])
	assert.EqualValues(t, 1, counts[enums.OrderStatusReady])
	assert.EqualValues(t, 0, counts[enums.OrderStatusCompleted])
}

func TestAdvanceAgainstDatabase(t *testing.T) {
	client, conn := dbtest.Client(t)
	vendor := dbtest.SeedVendor(t, conn, "Pasta Point")
	product := dbtest.SeedProduct(t, conn, vendor, "carbonara", "120.00")
	userID := dbtest.SeedUser(t, conn)
	order := dbtest.SeedOrder(t, conn, userID, vendor, enums.OrderStatusPreparing, enums.PaymentMethodOnline, product)

	svc, err := NewService(NewRepository(conn), client, outbox.NewService(outbox.NewRepository(conn), nil), nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Advance(ctx, order.ID, enums.OrderStatusReady)
	require.NoError(t, err)
	_, err = svc.Advance(ctx, order.ID, enums.OrderStatusRefunded)
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusRefunded, dbtest.OrderStatus(t, conn, order.ID))
	assert.Equal(t, enums.PaymentStatusRefunded, dbtest.PaymentStatus(t, conn, order.ID))
	assert.EqualValues(t, 2, dbtest.CountRows(t, conn, "outbox_events"))
}
