package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/models"
)

func cartLine(vendorID int64, vendorName, price string, qty int) models.CartLine {
	return models.CartLine{
		VendorID:   vendorID,
		VendorName: vendorName,
		UnitPrice:  decimal.RequireFromString(price),
		Quantity:   qty,
	}
}

func TestAggregateGroupsByVendor(t *testing.T) {
	t.Parallel()

	agg := Aggregate([]models.CartLine{
		cartLine(1, "Noodle Bar", "50.00", 2),
		cartLine(2, "Juice Stand", "45.00", 2),
		cartLine(1, "Noodle Bar", "0.25", 3),
	})

	require.Len(t, agg.Groups, 2)
	assert.Equal(t, int64(1), agg.Groups[0].VendorID)
	assert.Len(t, agg.Groups[0].Lines, 2)
	assert.Equal(t, "100.75", agg.Groups[0].Subtotal.StringFixed(2))
	assert.Equal(t, "Juice Stand", agg.Groups[1].VendorName)
	assert.Equal(t, "90.00", agg.Groups[1].Subtotal.StringFixed(2))
	assert.Equal(t, "190.75", agg.GrandSubtotal.StringFixed(2))
	assert.Equal(t, 3, agg.LineCount())
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	agg := Aggregate(nil)
	assert.True(t, agg.IsEmpty())
	assert.True(t, agg.GrandSubtotal.IsZero())
}
