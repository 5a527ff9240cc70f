package products

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/dbtest"
)

func TestFindSnapshotJoinsVendor(t *testing.T) {
	conn := dbtest.Open(t)
	vendor := dbtest.SeedVendor(t, conn, "Kusina ni Aling Nena")
	product := dbtest.SeedProduct(t, conn, vendor, "adobo", "75.50")

	repo := NewRepository(conn)
	snap, err := repo.FindSnapshot(context.Background(), product.ID)
	require.NoError(t, err)

	assert.Equal(t, product.ID, snap.ProductID)
	assert.Equal(t, "adobo", snap.Name)
	assert.Equal(t, "/img/adobo.jpg", snap.ImageURL)
	assert.Equal(t, "75.5", snap.Price.String())
	assert.Equal(t, vendor.ID, snap.VendorID)
	assert.Equal(t, "Kusina ni Aling Nena", snap.VendorName)
	assert.True(t, snap.IsAvailable)
}

func TestFindSnapshotMissingProduct(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	_, err := repo.FindSnapshot(context.Background(), 999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	ok, err := repo.Exists(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, ok)
}
