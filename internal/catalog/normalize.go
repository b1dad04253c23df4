package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/asinwatch/asinwatch-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ProductDTO is the read-side projection of a catalog row. Nullable columns
// stay pointers so callers can tell "absent" from zero.
type ProductDTO struct {
	ID              int64            `json:"id"`
	ASIN            string           `json:"asin"`
	MarketplaceID   int64            `json:"marketplace_id"`
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
	Status          string           `json:"status"`
	DiscoveryQuery  *string          `json:"discovery_query"`
	SourceType      string           `json:"source_type"`
	RawData         json.RawMessage  `json:"raw_data,omitempty"`
	FirstSeenAt     time.Time        `json:"first_seen_at"`
	LastScrapedAt   *time.Time       `json:"last_scraped_at"`
	Deleted         bool             `json:"deleted"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func toDTO(p *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:              p.ID,
		ASIN:            p.ASIN,
		MarketplaceID:   p.MarketplaceID,
		ProductTypeID:   p.ProductTypeID,
		BrandID:         p.BrandID,
		Title:           p.Title,
		DescriptionText: p.DescriptionText,
		Price:           p.Price,
		CurrencyCode:    p.CurrencyCode,
		Rating:          p.Rating,
		ReviewsCount:    p.ReviewsCount,
		BSR:             p.BSR,
		BSR30DaysAvg:    p.BSR30DaysAvg,
		BulletPoints:    p.BulletPoints,
		Images:          p.Images,
		ProductURL:      p.ProductURL,
		PublishedAt:     p.PublishedAt,
		Status:          p.Status,
		DiscoveryQuery:  p.DiscoveryQuery,
		SourceType:      p.SourceType,
		RawData:         p.RawData,
		FirstSeenAt:     p.FirstSeenAt,
		LastScrapedAt:   p.LastScrapedAt,
		Deleted:         p.Deleted,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if dto.CurrencyCode == "" {
		dto.CurrencyCode = models.DefaultCurrencyCode
	}
	if dto.SourceType == "" {
		dto.SourceType = models.DefaultSourceType
	}
	if dto.Status == "" {
		dto.Status = models.ProductStatusPendingEnrichment
	}
	if dto.BulletPoints == nil {
		dto.BulletPoints = []string{}
	}
	if dto.Images == nil {
		dto.Images = []string{}
	}
	return dto
}

func toDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out
}

// NormalizeASIN trims and uppercases an ASIN so lookups and uniqueness checks
// behave the same regardless of how the scraper cased its input.
func NormalizeASIN(asin string) string {
	return strings.ToUpper(strings.TrimSpace(asin))
}
