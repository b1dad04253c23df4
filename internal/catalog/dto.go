package catalog

import (
	"encoding/json"
	"time"

	"github.com/asinwatch/asinwatch-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Field carries tri-state JSON semantics for partial updates: a field can be
// absent (leave untouched), null (clear), or carry a value.
type Field[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		f.Valid = false
		var zero T
		f.Value = zero
		return nil
	}
	f.Valid = true
	return json.Unmarshal(b, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// CreateProductInput is the ingestion-facing create payload. Only ASIN and
// marketplace are required; everything else arrives with later enrichment.
type CreateProductInput struct {
	ASIN            string           `json:"asin" validate:"required"`
	MarketplaceID   int64            `json:"marketplace_id" validate:"required"`
	ProductTypeID   *int64           `json:"product_type_id"`
	BrandID         *int64           `json:"brand_id"`
	Title           *string          `json:"title"`
	DescriptionText *string          `json:"description_text"`
	Price           *decimal.Decimal `json:"price"`
	CurrencyCode    string           `json:"currency_code"`
	Rating          *decimal.Decimal `json:"rating"`
	ReviewsCount    *int             `json:"reviews_count"`
	BSR             *int             `json:"bsr"`
	BSR30DaysAvg    *int             `json:"bsr_30_days_avg"`
	BulletPoints    []string         `json:"bullet_points"`
	Images          []string         `json:"images"`
	ProductURL      *string          `json:"product_url"`
	PublishedAt     *time.Time       `json:"published_at"`
	DiscoveryQuery  *string          `json:"discovery_query"`
	SourceType      string           `json:"source_type"`
	RawData         json.RawMessage  `json:"raw_data"`
	Keywords        []string         `json:"keywords"`
}

// UpdateProductInput applies partial-update semantics: unset fields are left
// untouched, explicit nulls clear nullable columns.
type UpdateProductInput struct {
	ProductTypeID   Field[int64]           `json:"product_type_id"`
	BrandID         Field[int64]           `json:"brand_id"`
	Title           Field[string]          `json:"title"`
	DescriptionText Field[string]          `json:"description_text"`
	Price           Field[decimal.Decimal] `json:"price"`
	CurrencyCode    *string                `json:"currency_code"`
	Rating          Field[decimal.Decimal] `json:"rating"`
	ReviewsCount    Field[int]             `json:"reviews_count"`
	BSR             Field[int]             `json:"bsr"`
	BSR30DaysAvg    Field[int]             `json:"bsr_30_days_avg"`
	BulletPoints    Field[[]string]        `json:"bullet_points"`
	Images          Field[[]string]        `json:"images"`
	ProductURL      Field[string]          `json:"product_url"`
	PublishedAt     Field[time.Time]       `json:"published_at"`
	Status          *string                `json:"status"`
	DiscoveryQuery  Field[string]          `json:"discovery_query"`
	SourceType      *string                `json:"source_type"`
	RawData         Field[json.RawMessage] `json:"raw_data"`
	LastScrapedAt   *time.Time             `json:"last_scraped_at"`
	Keywords        *[]string              `json:"keywords"`
}

// ListFilter is the full filter specification for catalog queries. Every
// field is optional; populated fields are ANDed together.
type ListFilter struct {
	MarketplaceID    *int64
	ProductTypeID    *int64
	BrandID          *int64
	MinPrice         *decimal.Decimal
	MaxPrice         *decimal.Decimal
	MinBSR           *int
	MaxBSR           *int
	MinRating        *decimal.Decimal
	MaxRating        *decimal.Decimal
	MinReviewCount   *int
	MaxReviewCount   *int
	PublishedAfter   *time.Time
	PublishedBefore  *time.Time
	SearchQuery      string
	ExcludedBrandIDs []int64
	ExcludedKeywords []string

	// UserID scopes the query to a user: that user's excluded brands and
	// keywords are subtracted inside the same predicate conjunction.
	UserID *uuid.UUID

	IncludeDeleted bool
	Pagination     pagination.Params
}

// ListResult is one page of catalog rows plus the filtered total.
type ListResult struct {
	Products []ProductDTO `json:"products"`
	Total    int64        `json:"total"`
	Limit    int          `json:"limit"`
	Offset   int          `json:"offset"`
}
