package reference

import (
	"context"

	"github.com/asinwatch/asinwatch-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads the reference tables. The rows are owned by external
// admin tooling; this service never writes them.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListMarketplaces returns every marketplace row ordered by id.
func (r *Repository) ListMarketplaces(ctx context.Context) ([]models.Marketplace, error) {
	var rows []models.Marketplace
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListProductTypes returns every product type row ordered by name.
func (r *Repository) ListProductTypes(ctx context.Context) ([]models.ProductType, error) {
	var rows []models.ProductType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListBrands returns every brand row ordered by name.
func (r *Repository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var rows []models.Brand
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetBrand loads one brand by id.
func (r *Repository) GetBrand(ctx context.Context, id int64) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}
