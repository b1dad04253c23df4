package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReviewHistory is one append-only rating and review-count observation.
type ReviewHistory struct {
	ID           int64            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID    int64            `gorm:"column:product_id;not null;index:idx_review_history_product_date,priority:1" json:"product_id"`
	Date         time.Time        `gorm:"column:date;type:date;not null;index:idx_review_history_product_date,priority:2" json:"date"`
	ReviewsCount *int             `gorm:"column:reviews_count" json:"reviews_count"`
	Rating       *decimal.Decimal `gorm:"column:rating;type:numeric(3,2)" json:"rating"`
}

func (ReviewHistory) TableName() string { return "review_history" }
