package rollup

import (
	"context"
	"time"

	"github.com/asinwatch/asinwatch-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository reads rank history and persists derived daily stats.
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

// ProductExists reports whether a live product row exists.
func (r *Repository) ProductExists(ctx context.Context, productID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND deleted = ?", productID, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// LoadSamples returns the rank observations for one product inside the
// inclusive [start, end] day range.
func (r *Repository) LoadSamples(ctx context.Context, productID int64, start, end time.Time) ([]Sample, error) {
	var rows []models.BSRHistory
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND date >= ? AND date <= ?", productID, start, end).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	samples := make([]Sample, 0, len(rows))
	for _, row := range rows {
		samples = append(samples, Sample{Date: row.Date, BSR: row.BSR})
	}
	return samples, nil
}

// UpsertStat writes one rollup row, replacing any prior value for the same
// (product_id, date).
func (r *Repository) UpsertStat(ctx context.Context, stat Stat) error {
	row := models.DailyProductStat{
		ProductID: stat.ProductID,
		Date:      stat.Date,
		AvgBSR7:   stat.AvgBSR7,
		AvgBSR30:  stat.AvgBSR30,
		AvgBSR90:  stat.AvgBSR90,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"avg_bsr_7", "avg_bsr_30", "avg_bsr_90"}),
		}).
		Create(&row).Error
}

// ListStats returns rollup rows for one product, newest day first.
func (r *Repository) ListStats(ctx context.Context, productID int64) ([]models.DailyProductStat, error) {
	var rows []models.DailyProductStat
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
