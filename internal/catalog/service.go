package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asinwatch/asinwatch-backend/pkg/db"
	dbmodels "github.com/asinwatch/asinwatch-backend/pkg/db/models"
	pkgerrors "github.com/asinwatch/asinwatch-backend/pkg/errors"
	"github.com/asinwatch/asinwatch-backend/pkg/pagination"
	"gorm.io/gorm"
)

type catalogRepository interface {
	Create(ctx context.Context, product *dbmodels.Product) (*dbmodels.Product, error)
	FindByID(ctx context.Context, id int64) (*dbmodels.Product, error)
	FindByASIN(ctx context.Context, asin string, marketplaceID int64) (*dbmodels.Product, error)
	Update(ctx context.Context, id int64, updates map[string]any) (*dbmodels.Product, error)
	SoftDelete(ctx context.Context, id int64, now time.Time) (bool, error)
	ReplaceKeywords(ctx context.Context, productID int64, keywords []string) error
	AddKeyword(ctx context.Context, productID int64, keyword string) error
	ListKeywords(ctx context.Context, productID int64) ([]string, error)
	List(ctx context.Context, filter ListFilter) ([]dbmodels.Product, int64, error)
}

// Service exposes catalog operations: product identity, partial updates,
// soft deletion, and the filtered listing query.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	GetByID(ctx context.Context, id int64) (*ProductDTO, error)
	GetByASIN(ctx context.Context, asin string, marketplaceID int64) (*ProductDTO, error)
	Update(ctx context.Context, id int64, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	AddKeyword(ctx context.Context, productID int64, keyword string) error
	ListKeywords(ctx context.Context, productID int64) ([]string, error)
}

type service struct {
	repo catalogRepository
	now  func() time.Time
}

// NewService builds the catalog service.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	asin := NormalizeASIN(input.ASIN)
	if asin == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asin is required")
	}
	if input.MarketplaceID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "marketplace_id is required")
	}
	if input.Rating != nil && (input.Rating.IsNegative() || input.Rating.GreaterThan(maxRating)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 0 and 5")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	now := s.now().UTC()
	product := &dbmodels.Product{
		ASIN:            asin,
		MarketplaceID:   input.MarketplaceID,
		ProductTypeID:   input.ProductTypeID,
		BrandID:         input.BrandID,
		Title:           trimPtr(input.Title),
		DescriptionText: input.DescriptionText,
		Price:           input.Price,
		CurrencyCode:    orDefault(input.CurrencyCode, dbmodels.DefaultCurrencyCode),
		Rating:          input.Rating,
		ReviewsCount:    input.ReviewsCount,
		BSR:             input.BSR,
		BSR30DaysAvg:    input.BSR30DaysAvg,
		BulletPoints:    input.BulletPoints,
		Images:          input.Images,
		ProductURL:      input.ProductURL,
		PublishedAt:     input.PublishedAt,
		Status:          dbmodels.ProductStatusPendingEnrichment,
		DiscoveryQuery:  input.DiscoveryQuery,
		SourceType:      orDefault(input.SourceType, dbmodels.DefaultSourceType),
		FirstSeenAt:     now,
		RawData:         input.RawData,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already exists for this marketplace")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	if len(input.Keywords) > 0 {
		if err := s.repo.ReplaceKeywords(ctx, created.ID, input.Keywords); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach product keywords")
		}
	}

	dto := toDTO(created)
	return &dto, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := toDTO(product)
	return &dto, nil
}

func (s *service) GetByASIN(ctx context.Context, asin string, marketplaceID int64) (*ProductDTO, error) {
	if NormalizeASIN(asin) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asin is required")
	}
	product, err := s.repo.FindByASIN(ctx, asin, marketplaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := toDTO(product)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateProductInput) (*ProductDTO, error) {
	updates, err := buildUpdates(input)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 && input.Keywords == nil {
		return s.GetByID(ctx, id)
	}

	var updated *dbmodels.Product
	if len(updates) > 0 {
		updates["updated_at"] = s.now().UTC()
		updated, err = s.repo.Update(ctx, id, updates)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}
	} else {
		updated, err = s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
	}

	if input.Keywords != nil {
		if err := s.repo.ReplaceKeywords(ctx, id, *input.Keywords); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace product keywords")
		}
	}

	dto := toDTO(updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.SoftDelete(ctx, id, s.now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_price must not exceed max_price")
	}
	if filter.MinBSR != nil && filter.MaxBSR != nil && *filter.MinBSR > *filter.MaxBSR {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_bsr must not exceed max_bsr")
	}
	if filter.MinRating != nil && filter.MaxRating != nil && filter.MinRating.GreaterThan(*filter.MaxRating) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_rating must not exceed max_rating")
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	page := pagination.Normalize(filter.Pagination)
	return &ListResult{
		Products: toDTOs(rows),
		Total:    total,
		Limit:    page.Limit,
		Offset:   page.Offset,
	}, nil
}

func (s *service) AddKeyword(ctx context.Context, productID int64, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "keyword is required")
	}
	if err := s.repo.AddKeyword(ctx, productID, keyword); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add product keyword")
	}
	return nil
}

func (s *service) ListKeywords(ctx context.Context, productID int64) ([]string, error) {
	keywords, err := s.repo.ListKeywords(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product keywords")
	}
	if keywords == nil {
		keywords = []string{}
	}
	return keywords, nil
}

// buildUpdates turns the tri-state input into a column map. Unset fields are
// skipped, explicit nulls clear the column.
func buildUpdates(input UpdateProductInput) (map[string]any, error) {
	updates := map[string]any{}

	if input.ProductTypeID.Set {
		updates["product_type_id"] = nullable(input.ProductTypeID)
	}
	if input.BrandID.Set {
		updates["brand_id"] = nullable(input.BrandID)
	}
	if input.Title.Set {
		updates["title"] = nullable(input.Title)
	}
	if input.DescriptionText.Set {
		updates["description_text"] = nullable(input.DescriptionText)
	}
	if input.Price.Set {
		if input.Price.Valid && input.Price.Value.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price"] = nullable(input.Price)
	}
	if input.CurrencyCode != nil {
		updates["currency_code"] = *input.CurrencyCode
	}
	if input.Rating.Set {
		if input.Rating.Valid && (input.Rating.Value.IsNegative() || input.Rating.Value.GreaterThan(maxRating)) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 0 and 5")
		}
		updates["rating"] = nullable(input.Rating)
	}
	if input.ReviewsCount.Set {
		updates["reviews_count"] = nullable(input.ReviewsCount)
	}
	if input.BSR.Set {
		updates["bsr"] = nullable(input.BSR)
	}
	if input.BSR30DaysAvg.Set {
		updates["bsr_30_days_avg"] = nullable(input.BSR30DaysAvg)
	}
	if input.BulletPoints.Set {
		if input.BulletPoints.Valid {
			updates["bullet_points"] = pqArray(input.BulletPoints.Value)
		} else {
			updates["bullet_points"] = nil
		}
	}
	if input.Images.Set {
		if input.Images.Valid {
			updates["images"] = pqArray(input.Images.Value)
		} else {
			updates["images"] = nil
		}
	}
	if input.ProductURL.Set {
		updates["product_url"] = nullable(input.ProductURL)
	}
	if input.PublishedAt.Set {
		updates["published_at"] = nullable(input.PublishedAt)
	}
	if input.Status != nil {
		// Status is an operator-set label; any non-empty value is
		// persisted, transition rules are not enforced here.
		status := strings.TrimSpace(*input.Status)
		if status == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must not be empty")
		}
		updates["status"] = status
	}
	if input.DiscoveryQuery.Set {
		updates["discovery_query"] = nullable(input.DiscoveryQuery)
	}
	if input.SourceType != nil {
		updates["source_type"] = *input.SourceType
	}
	if input.RawData.Set {
		updates["raw_data"] = nullable(input.RawData)
	}
	if input.LastScrapedAt != nil {
		updates["last_scraped_at"] = *input.LastScrapedAt
	}

	return updates, nil
}
