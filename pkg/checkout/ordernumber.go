package checkout

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	// OrderNumberTimeLayout is the timestamp segment of an order number.
	OrderNumberTimeLayout = "20060102150405"
	// OrderNumberSuffixLen is the length of the random segment.
	OrderNumberSuffixLen = 6

	orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// FormatOrderNumber joins prefix, the UTC timestamp and suffix.
func FormatOrderNumber(prefix string, at time.Time, suffix string) string {
	return prefix + at.UTC().Format(OrderNumberTimeLayout) + suffix
}

// RandomSuffix returns n characters drawn from upper-case letters and digits.
func RandomSuffix(n int) string {
	limit := big.NewInt(int64(len(orderNumberAlphabet)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic(fmt.Sprintf("order number entropy unavailable: %v", err))
		}
		b.WriteByte(orderNumberAlphabet[idx.Int64()])
	}
	return b.String()
}
