package models

import (
	"time"

	"github.com/google/uuid"
)

// ExcludedBrand is a (user, brand) pair the catalog query overlay subtracts.
type ExcludedBrand struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_excluded_brands_user_brand,priority:1" json:"user_id"`
	BrandID   int64     `gorm:"column:brand_id;not null;uniqueIndex:uq_excluded_brands_user_brand,priority:2" json:"brand_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ExcludedBrand) TableName() string { return "excluded_brands" }
