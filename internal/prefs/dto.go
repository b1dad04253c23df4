package prefs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExcludedBrandDTO is one brand a user has filtered out, joined with its
// reference name for display.
type ExcludedBrandDTO struct {
	BrandID   int64     `json:"brand_id"`
	BrandName string    `json:"brand_name"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupDTO is one favorite group header.
type GroupDTO struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroupItemDTO is one group membership row. AddProductToGroup returns the
// existing row when the pair is already present, so the ID is stable across
// repeated adds.
type GroupItemDTO struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	ProductID int64     `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupProductDTO is the product summary shown inside a group listing,
// ordered by when the product was added.
type GroupProductDTO struct {
	ProductID int64            `json:"product_id"`
	ASIN      string           `json:"asin"`
	Title     *string          `json:"title"`
	Price     *decimal.Decimal `json:"price"`
	Rating    *decimal.Decimal `json:"rating"`
	BSR       *int             `json:"bsr"`
	AddedAt   time.Time        `json:"added_at"`
}

// SavedProductDTO is one flat bookmark joined with its product summary.
type SavedProductDTO struct {
	ProductID int64            `json:"product_id"`
	ASIN      string           `json:"asin"`
	Title     *string          `json:"title"`
	Price     *decimal.Decimal `json:"price"`
	Rating    *decimal.Decimal `json:"rating"`
	BSR       *int             `json:"bsr"`
	SavedAt   time.Time        `json:"saved_at"`
}

// PreferencesDTO is the composed read over all three preference stores.
// A nil PreferencesDTO from the service means the user has no preferences
// at all.
type PreferencesDTO struct {
	UserID           uuid.UUID          `json:"user_id"`
	ExcludedBrands   []ExcludedBrandDTO `json:"excluded_brands"`
	ExcludedKeywords []string           `json:"excluded_keywords"`
	FavoriteGroups   []GroupDTO         `json:"favorite_groups"`
}
