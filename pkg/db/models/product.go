package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product lifecycle status values. Status is a persisted tag, not a state
// machine: enrichment is driven by an external collaborator.
const (
	ProductStatusPendingEnrichment = "pending_enrichment"
	ProductStatusEnriched          = "enriched"
)

const (
	DefaultCurrencyCode = "USD"
	DefaultSourceType   = "scraper"
)

// Product represents one listing in one marketplace. The (asin,
// marketplace_id) pair is unique: one Product per listing per marketplace.
type Product struct {
	ID              int64            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ASIN            string           `gorm:"column:asin;not null;uniqueIndex:uq_products_asin_marketplace,priority:1" json:"asin"`
	MarketplaceID   int64            `gorm:"column:marketplace_id;type:smallint;not null;uniqueIndex:uq_products_asin_marketplace,priority:2" json:"marketplace_id"`
	ProductTypeID   *int64           `gorm:"column:product_type_id;type:smallint" json:"product_type_id"`
	BrandID         *int64           `gorm:"column:brand_id" json:"brand_id"`
	Title           *string          `gorm:"column:title" json:"title"`
	DescriptionText *string          `gorm:"column:description_text" json:"description_text"`
	Price           *decimal.Decimal `gorm:"column:price;type:numeric(10,2)" json:"price"`
	CurrencyCode    string           `gorm:"column:currency_code;default:USD" json:"currency_code"`
	Rating          *decimal.Decimal `gorm:"column:rating;type:numeric(3,2)" json:"rating"`
	ReviewsCount    *int             `gorm:"column:reviews_count" json:"reviews_count"`
	BSR             *int             `gorm:"column:bsr" json:"bsr"`
	BSR30DaysAvg    *int             `gorm:"column:bsr_30_days_avg" json:"bsr_30_days_avg"`
	BulletPoints    pq.StringArray   `gorm:"column:bullet_points;type:text[]" json:"bullet_points"`
	Images          pq.StringArray   `gorm:"column:images;type:text[]" json:"images"`
	ProductURL      *string          `gorm:"column:product_url" json:"product_url"`
	PublishedAt     *time.Time       `gorm:"column:published_at;type:date" json:"published_at"`
	Deleted         bool             `gorm:"column:deleted;default:false" json:"deleted"`
	Status          string           `gorm:"column:status;not null;default:pending_enrichment" json:"status"`
	DiscoveryQuery  *string          `gorm:"column:discovery_query" json:"discovery_query"`
	SourceType      string           `gorm:"column:source_type;default:scraper" json:"source_type"`
	FirstSeenAt     time.Time        `gorm:"column:first_seen_at" json:"first_seen_at"`
	LastScrapedAt   *time.Time       `gorm:"column:last_scraped_at" json:"last_scraped_at"`
	RawData         json.RawMessage  `gorm:"column:raw_data;type:jsonb" json:"raw_data"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string { return "products" }
