package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/asinwatch/asinwatch-backend/pkg/db/models"
	"github.com/asinwatch/asinwatch-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository owns catalog persistence: product rows, keyword rows, and the
// filtered listing query.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a product row. Uniqueness on (asin, marketplace_id) is
// enforced by the database; callers translate the violation.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a product by primary key. Soft-deleted rows are still
// returned; the deleted_at column tells the caller.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByASIN resolves product identity: ASIN plus marketplace, case-folded.
func (r *Repository) FindByASIN(ctx context.Context, asin string, marketplaceID int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		First(&product, "asin = ? AND marketplace_id = ?", NormalizeASIN(asin), marketplaceID).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Update applies a column map to one product and returns the fresh row.
// Soft-deleted rows stay updatable; corrections land on them too.
func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) (*models.Product, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

// SoftDelete flips the deleted flag. Idempotent: deleting an already-deleted
// row still reports true; only a missing id returns false.
func (r *Repository) SoftDelete(ctx context.Context, id int64, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{"deleted": true, "updated_at": now})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReplaceKeywords swaps the keyword set attached to a product.
func (r *Repository) ReplaceKeywords(ctx context.Context, productID int64, keywords []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductKeyword{}).Error; err != nil {
			return err
		}
		if len(keywords) == 0 {
			return nil
		}
		rows := make([]models.ProductKeyword, 0, len(keywords))
		for _, kw := range keywords {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			rows = append(rows, models.ProductKeyword{ProductID: productID, Keyword: kw})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// AddKeyword appends one keyword to a product. Returns
// gorm.ErrRecordNotFound when the product is missing or deleted.
func (r *Repository) AddKeyword(ctx context.Context, productID int64, keyword string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Product{}).
			Where("id = ? AND deleted = ?", productID, false).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&models.ProductKeyword{ProductID: productID, Keyword: keyword}).Error
	})
}

// ListKeywords returns the keyword strings attached to a product.
func (r *Repository) ListKeywords(ctx context.Context, productID int64) ([]string, error) {
	var keywords []string
	err := r.db.WithContext(ctx).
		Model(&models.ProductKeyword{}).
		Where("product_id = ?", productID).
		Order("id ASC").
		Pluck("keyword", &keywords).Error
	if err != nil {
		return nil, err
	}
	return keywords, nil
}

// List runs the filtered catalog query: one count over the full conjunction,
// then one page of rows ordered by id for a stable offset walk.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Product, int64, error) {
	var total int64
	countQuery := r.applyFilter(r.db.WithContext(ctx).Model(&models.Product{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := pagination.Normalize(filter.Pagination)
	var rows []models.Product
	listQuery := r.applyFilter(r.db.WithContext(ctx).Model(&models.Product{}), filter)
	err := listQuery.
		Order("products.id ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// applyFilter appends every populated predicate as an AND clause. Exclusions
// run as subqueries inside the same conjunction so count and page agree.
func (r *Repository) applyFilter(qb *gorm.DB, filter ListFilter) *gorm.DB {
	if !filter.IncludeDeleted {
		qb = qb.Where("products.deleted = ?", false)
	}
	if filter.MarketplaceID != nil {
		qb = qb.Where("products.marketplace_id = ?", *filter.MarketplaceID)
	}
	if filter.ProductTypeID != nil {
		qb = qb.Where("products.product_type_id = ?", *filter.ProductTypeID)
	}
	if filter.BrandID != nil {
		qb = qb.Where("products.brand_id = ?", *filter.BrandID)
	}
	if filter.MinPrice != nil {
		qb = qb.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		qb = qb.Where("products.price <= ?", *filter.MaxPrice)
	}
	if filter.MinBSR != nil {
		qb = qb.Where("products.bsr >= ?", *filter.MinBSR)
	}
	if filter.MaxBSR != nil {
		qb = qb.Where("products.bsr <= ?", *filter.MaxBSR)
	}
	if filter.MinRating != nil {
		qb = qb.Where("products.rating >= ?", *filter.MinRating)
	}
	if filter.MaxRating != nil {
		qb = qb.Where("products.rating <= ?", *filter.MaxRating)
	}
	if filter.MinReviewCount != nil {
		qb = qb.Where("products.reviews_count >= ?", *filter.MinReviewCount)
	}
	if filter.MaxReviewCount != nil {
		qb = qb.Where("products.reviews_count <= ?", *filter.MaxReviewCount)
	}
	if filter.PublishedAfter != nil {
		qb = qb.Where("products.published_at >= ?", *filter.PublishedAfter)
	}
	if filter.PublishedBefore != nil {
		qb = qb.Where("products.published_at <= ?", *filter.PublishedBefore)
	}

	if search := strings.TrimSpace(filter.SearchQuery); search != "" {
		needle := "%" + strings.ToLower(search) + "%"
		qb = qb.Where(
			"(LOWER(COALESCE(products.title, '')) LIKE ? OR LOWER(COALESCE(products.description_text, '')) LIKE ? OR "+
				"EXISTS (SELECT 1 FROM product_keywords pk WHERE pk.product_id = products.id AND LOWER(pk.keyword) LIKE ?))",
			needle, needle, needle,
		)
	}

	if len(filter.ExcludedBrandIDs) > 0 {
		qb = qb.Where("(products.brand_id IS NULL OR products.brand_id NOT IN ?)", filter.ExcludedBrandIDs)
	}
	for _, kw := range filter.ExcludedKeywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		needle := "%" + strings.ToLower(kw) + "%"
		qb = qb.Where(
			"(LOWER(COALESCE(products.title, '')) NOT LIKE ? AND NOT EXISTS "+
				"(SELECT 1 FROM product_keywords pk WHERE pk.product_id = products.id AND LOWER(pk.keyword) LIKE ?))",
			needle, needle,
		)
	}

	if filter.UserID != nil {
		qb = qb.Where(
			"(products.brand_id IS NULL OR products.brand_id NOT IN "+
				"(SELECT eb.brand_id FROM excluded_brands eb WHERE eb.user_id = ?))",
			*filter.UserID,
		)
		qb = qb.Where(
			"NOT EXISTS (SELECT 1 FROM excluded_keywords ek WHERE ek.user_id = ? AND ("+
				"LOWER(COALESCE(products.title, '')) LIKE '%' || LOWER(ek.keyword) || '%' OR EXISTS ("+
				"SELECT 1 FROM product_keywords pk WHERE pk.product_id = products.id AND "+
				"LOWER(pk.keyword) LIKE '%' || LOWER(ek.keyword) || '%')))",
			*filter.UserID,
		)
	}

	return qb
}
