// Package dbtest opens isolated sqlite databases carrying the application
// schema for repository and service tests.
package dbtest

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/models"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
)

// Open returns a fresh in-memory database. The pool is pinned to a single
// connection so transactions and plain reads observe the same data.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:foodhub_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger: gormlogger.New(
			log.New(io.Discard, "", log.LstdFlags),
			gormlogger.Config{LogLevel: gormlogger.Silent},
		),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.ApplySQLiteSchema(context.Background(), conn); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return conn
}

// Client wraps Open in a db.Client for code that needs WithTx.
func Client(t testing.TB) (*db.Client, *gorm.DB) {
	t.Helper()
	conn := Open(t)
	return db.NewFromConn(conn), conn
}

// SeedVendor inserts a vendor.
func SeedVendor(t testing.TB, conn *gorm.DB, name string) models.Vendor {
	t.Helper()
	vendor := models.Vendor{Name: name, CreatedAt: time.Now()}
	if err := conn.Create(&vendor).Error; err != nil {
		t.Fatalf("seed vendor: %v", err)
	}
	return vendor
}

// SeedProduct inserts an available product for vendor.
func SeedProduct(t testing.TB, conn *gorm.DB, vendor models.Vendor, name, price string) models.Product {
	t.Helper()
	product := models.Product{
		VendorID:    vendor.ID,
		Name:        name,
		ImageURL:    "/img/" + name + ".jpg",
		Price:       decimal.RequireFromString(price),
		IsAvailable: true,
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

// SeedUser inserts a user and returns its id.
func SeedUser(t testing.TB, conn *gorm.DB) uuid.UUID {
	t.Helper()
	id := uuid.New()
	user := models.User{ID: id, Email: id.String() + "@campus.test", DisplayName: "student"}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

// CountRows returns the number of rows in table.
func CountRows(t testing.TB, conn *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := conn.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// SeedOrder inserts an order for userID with one unit of each product, a
// service fee of 10.00 and a payment for method.
func SeedOrder(t testing.TB, conn *gorm.DB, userID uuid.UUID, vendor models.Vendor, status enums.OrderStatus, method enums.PaymentMethod, products ...models.Product) models.Order {
	t.Helper()
	fee := decimal.RequireFromString("10.00")
	total := fee
	for _, p := range products {
		total = total.Add(p.Price)
	}
	order := models.Order{
		OrderNumber: "SEED" + uuid.NewString()[:8],
		UserID:      userID,
		VendorID:    vendor.ID,
		VendorName:  vendor.Name,
		ServiceFee:  fee,
		TotalAmount: total,
		Status:      status,
	}
	if err := conn.Omit("Items", "Payment").Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	for _, p := range products {
		item := models.OrderItem{
			OrderID:      order.ID,
			ProductID:    p.ID,
			ItemName:     p.Name,
			ItemImageURL: p.ImageURL,
			Quantity:     1,
			UnitPrice:    p.Price,
			TotalPrice:   p.Price,
		}
		if err := conn.Create(&item).Error; err != nil {
			t.Fatalf("seed order item: %v", err)
		}
		order.Items = append(order.Items, item)
	}
	payment := models.Payment{
		OrderID: order.ID,
		Amount:  total,
		Method:  method,
		Status:  method.InitialStatus(),
	}
	if err := conn.Create(&payment).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	if err := conn.Model(&models.Order{}).Where("id = ?", order.ID).Update("payment_id", payment.ID).Error; err != nil {
		t.Fatalf("seed payment id: %v", err)
	}
	order.PaymentID = &payment.ID
	order.Payment = &payment
	return order
}

// OrderStatus reads the stored status of an order.
func OrderStatus(t testing.TB, conn *gorm.DB, orderID int64) enums.OrderStatus {
	t.Helper()
	var order models.Order
	if err := conn.Select("status").Where("id = ?", orderID).First(&order).Error; err != nil {
		t.Fatalf("load order %d: %v", orderID, err)
	}
	return order.Status
}

// PaymentStatus reads the stored status of an order's payment.
func PaymentStatus(t testing.TB, conn *gorm.DB, orderID int64) enums.PaymentStatus {
	t.Helper()
	var payment models.Payment
	if err := conn.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		t.Fatalf("load payment for order %d: %v", orderID, err)
	}
	return payment.Status
}
