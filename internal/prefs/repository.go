package prefs

import (
	"context"
	"errors"

	"github.com/asinwatch/asinwatch-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository owns the preference tables: excluded brands, excluded keywords,
// favorite groups with their items, and saved products.
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

// UserExists reports whether a profile row exists for the user.
func (r *Repository) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

// BrandExists reports whether the reference brand row exists.
func (r *Repository) BrandExists(ctx context.Context, brandID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Brand{}).
		Where("id = ?", brandID).
		Count(&count).Error
	return count > 0, err
}

// ProductExists reports whether a live product row exists.
func (r *Repository) ProductExists(ctx context.Context, productID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND deleted = ?", productID, false).
		Count(&count).Error
	return count > 0, err
}

// CreateExcludedBrand inserts one (user, brand) pair. The unique index
// surfaces duplicates to the caller.
func (r *Repository) CreateExcludedBrand(ctx context.Context, row *models.ExcludedBrand) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// DeleteExcludedBrand removes the pair. Returns false when nothing matched.
func (r *Repository) DeleteExcludedBrand(ctx context.Context, userID uuid.UUID, brandID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND brand_id = ?", userID, brandID).
		Delete(&models.ExcludedBrand{})
	return result.RowsAffected > 0, result.Error
}

// ListExcludedBrands returns the user's excluded brands joined with the
// brand name, oldest exclusion first.
func (r *Repository) ListExcludedBrands(ctx context.Context, userID uuid.UUID) ([]ExcludedBrandDTO, error) {
	var rows []ExcludedBrandDTO
	err := r.db.WithContext(ctx).
		Table("excluded_brands eb").
		Select("eb.brand_id, b.name AS brand_name, eb.created_at").
		Joins("JOIN brands b ON b.id = eb.brand_id").
		Where("eb.user_id = ?", userID).
		Order("eb.created_at ASC, eb.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateExcludedKeyword appends one keyword row. Duplicate keywords for the
// same user are tolerated by schema.
func (r *Repository) CreateExcludedKeyword(ctx context.Context, row *models.ExcludedKeyword) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// DeleteExcludedKeyword removes every row matching the keyword,
// case-insensitively. Returns false when nothing matched.
func (r *Repository) DeleteExcludedKeyword(ctx context.Context, userID uuid.UUID, keyword string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(keyword) = LOWER(?)", userID, keyword).
		Delete(&models.ExcludedKeyword{})
	return result.RowsAffected > 0, result.Error
}

// ListExcludedKeywords returns the user's keywords, oldest first.
func (r *Repository) ListExcludedKeywords(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var keywords []string
	err := r.db.WithContext(ctx).
		Model(&models.ExcludedKeyword{}).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Pluck("keyword", &keywords).Error
	if err != nil {
		return nil, err
	}
	return keywords, nil
}

// ReplaceExcludedBrands swaps the user's excluded brand set in one
// transaction, so readers never observe a half-applied replacement.
func (r *Repository) ReplaceExcludedBrands(ctx context.Context, userID uuid.UUID, brandIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.ExcludedBrand{}).Error; err != nil {
			return err
		}
		if len(brandIDs) == 0 {
			return nil
		}
		rows := make([]models.ExcludedBrand, 0, len(brandIDs))
		for _, brandID := range brandIDs {
			rows = append(rows, models.ExcludedBrand{UserID: userID, BrandID: brandID})
		}
		return tx.Create(&rows).Error
	})
}

// ReplaceExcludedKeywords swaps the user's keyword set in one transaction.
func (r *Repository) ReplaceExcludedKeywords(ctx context.Context, userID uuid.UUID, keywords []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.ExcludedKeyword{}).Error; err != nil {
			return err
		}
		if len(keywords) == 0 {
			return nil
		}
		rows := make([]models.ExcludedKeyword, 0, len(keywords))
		for _, keyword := range keywords {
			rows = append(rows, models.ExcludedKeyword{UserID: userID, Keyword: keyword})
		}
		return tx.Create(&rows).Error
	})
}

// CreateGroup inserts a favorite group.
func (r *Repository) CreateGroup(ctx context.Context, group *models.FavoriteGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// FindGroup loads one group by id.
func (r *Repository) FindGroup(ctx context.Context, groupID int64) (*models.FavoriteGroup, error) {
	var group models.FavoriteGroup
	if err := r.db.WithContext(ctx).First(&group, "id = ?", groupID).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// ListGroups returns the user's groups, newest first.
func (r *Repository) ListGroups(ctx context.Context, userID uuid.UUID) ([]models.FavoriteGroup, error) {
	var groups []models.FavoriteGroup
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// AddGroupItem inserts a membership row, returning the existing row when the
// (group, product) pair is already present. The second return reports
// whether a new row was created.
func (r *Repository) AddGroupItem(ctx context.Context, item *models.FavoriteGroupItem) (*models.FavoriteGroupItem, bool, error) {
	var existing models.FavoriteGroupItem
	err := r.db.WithContext(ctx).
		First(&existing, "group_id = ? AND product_id = ?", item.GroupID, item.ProductID).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, false, err
	}
	return item, true, nil
}

// DeleteGroupItem removes a membership row. Returns false when absent.
func (r *Repository) DeleteGroupItem(ctx context.Context, groupID, productID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND product_id = ?", groupID, productID).
		Delete(&models.FavoriteGroupItem{})
	return result.RowsAffected > 0, result.Error
}

// ListGroupProducts returns the group's products, most recently added first.
func (r *Repository) ListGroupProducts(ctx context.Context, groupID int64) ([]GroupProductDTO, error) {
	var rows []GroupProductDTO
	err := r.db.WithContext(ctx).
		Table("favorite_group_items fgi").
		Select("p.id AS product_id, p.asin, p.title, p.price, p.rating, p.bsr, fgi.created_at AS added_at").
		Joins("JOIN products p ON p.id = fgi.product_id").
		Where("fgi.group_id = ?", groupID).
		Order("fgi.created_at DESC, fgi.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SaveProduct inserts a flat bookmark, returning the existing row when the
// (user, product) pair is already present.
func (r *Repository) SaveProduct(ctx context.Context, row *models.SavedProduct) (*models.SavedProduct, bool, error) {
	var existing models.SavedProduct
	err := r.db.WithContext(ctx).
		First(&existing, "user_id = ? AND product_id = ?", row.UserID, row.ProductID).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, false, err
	}
	return row, true, nil
}

// DeleteSavedProduct removes a bookmark. Returns false when absent.
func (r *Repository) DeleteSavedProduct(ctx context.Context, userID uuid.UUID, productID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.SavedProduct{})
	return result.RowsAffected > 0, result.Error
}

// ListSavedProducts returns the user's bookmarks, most recently saved first.
func (r *Repository) ListSavedProducts(ctx context.Context, userID uuid.UUID) ([]SavedProductDTO, error) {
	var rows []SavedProductDTO
	err := r.db.WithContext(ctx).
		Table("saved_products sp").
		Select("p.id AS product_id, p.asin, p.title, p.price, p.rating, p.bsr, sp.created_at AS saved_at").
		Joins("JOIN products p ON p.id = sp.product_id").
		Where("sp.user_id = ?", userID).
		Order("sp.created_at DESC, sp.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
