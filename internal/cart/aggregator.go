package cart

import (
	"github.com/shopspring/decimal"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/models"
)

// VendorGroup holds the lines of one vendor and their unrounded subtotal.
type VendorGroup struct {
	VendorID   int64
	VendorName string
	Lines      []models.CartLine
	Subtotal   decimal.Decimal
}

// Aggregation is a cart partitioned by vendor.
type Aggregation struct {
	Groups        []VendorGroup
	GrandSubtotal decimal.Decimal
}

// IsEmpty reports whether there is nothing to order.
func (a Aggregation) IsEmpty() bool {
	return len(a.Groups) == 0
}

// LineCount returns the number of lines across all groups.
func (a Aggregation) LineCount() int {
	n := 0
	for _, g := range a.Groups {
		n += len(g.Lines)
	}
	return n
}

// Aggregate partitions lines by their snapshotted vendor, keeping groups in
// first-seen order.
func Aggregate(lines []models.CartLine) Aggregation {
	agg := Aggregation{GrandSubtotal: decimal.Zero}
	index := make(map[int64]int, len(lines))

	for _, line := range lines {
		pos, ok := index[line.VendorID]
		if !ok {
			pos = len(agg.Groups)
			index[line.VendorID] = pos
			agg.Groups = append(agg.Groups, VendorGroup{
				VendorID:   line.VendorID,
				VendorName: line.VendorName,
				Subtotal:   decimal.Zero,
			})
		}
		group := &agg.Groups[pos]
		group.Lines = append(group.Lines, line)
		total := line.LineTotal()
		group.Subtotal = group.Subtotal.Add(total)
		agg.GrandSubtotal = agg.GrandSubtotal.Add(total)
	}
	return agg
}
