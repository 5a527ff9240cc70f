package favorites

import (
	"time"

	"github.com/shopspring/decimal"
)

// FavoriteProduct is the catalog view of a favorited product.
type FavoriteProduct struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	ImageURL    string          `json:"image_url"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
	VendorID    int64           `json:"vendor_id"`
	VendorName  string          `json:"vendor_name"`
}

// FavoriteItemDTO wraps the product included in a favorites row.
type FavoriteItemDTO struct {
	Product   FavoriteProduct `json:"product"`
	CreatedAt time.Time       `json:"created_at"`
}

// FavoritesDTO lists a user's favorites, newest first.
type FavoritesDTO struct {
	Items []FavoriteItemDTO `json:"items"`
	Total int               `json:"total"`
}

// FavoriteIDsDTO is a lightweight projection used to flag liked products in
// menu listings.
type FavoriteIDsDTO struct {
	ProductIDs []int64 `json:"product_ids"`
	Total      int     `json:"total"`
}
