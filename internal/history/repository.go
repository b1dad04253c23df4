package history

import (
	"context"
	"time"

	"github.com/asinwatch/asinwatch-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository owns the three append-only history tables. Writes verify the
// product inside the same transaction as the insert so a concurrent delete
// cannot orphan an observation.
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

func productExists(tx *gorm.DB, productID int64) (bool, error) {
	var count int64
	err := tx.Model(&models.Product{}).
		Where("id = ? AND deleted = ?", productID, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RecordBSR appends one rank observation. Same-day duplicates are retained.
// Returns gorm.ErrRecordNotFound when the product is missing or deleted.
func (r *Repository) RecordBSR(ctx context.Context, row *models.BSRHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := productExists(tx, row.ProductID)
		if err != nil {
			return err
		}
		if !exists {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(row).Error
	})
}

// RecordPrice appends one price observation.
func (r *Repository) RecordPrice(ctx context.Context, row *models.PriceHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := productExists(tx, row.ProductID)
		if err != nil {
			return err
		}
		if !exists {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(row).Error
	})
}

// RecordReview appends one rating and review-count observation.
func (r *Repository) RecordReview(ctx context.Context, row *models.ReviewHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := productExists(tx, row.ProductID)
		if err != nil {
			return err
		}
		if !exists {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(row).Error
	})
}

// ListBSR returns rank history newest first, optionally bounded by a start day.
func (r *Repository) ListBSR(ctx context.Context, productID int64, since *time.Time) ([]models.BSRHistory, error) {
	var rows []models.BSRHistory
	qb := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("date DESC, id DESC")
	if since != nil {
		qb = qb.Where("date >= ?", *since)
	}
	if err := qb.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPrice returns price history newest first.
func (r *Repository) ListPrice(ctx context.Context, productID int64, since *time.Time) ([]models.PriceHistory, error) {
	var rows []models.PriceHistory
	qb := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("date DESC, id DESC")
	if since != nil {
		qb = qb.Where("date >= ?", *since)
	}
	if err := qb.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListReview returns rating history newest first.
func (r *Repository) ListReview(ctx context.Context, productID int64, since *time.Time) ([]models.ReviewHistory, error) {
	var rows []models.ReviewHistory
	qb := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("date DESC, id DESC")
	if since != nil {
		qb = qb.Where("date >= ?", *since)
	}
	if err := qb.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
