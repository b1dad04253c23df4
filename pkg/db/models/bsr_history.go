package models

import "time"

// BSRHistory is one append-only best-seller-rank observation. Multiple
// observations per calendar day are permitted and all retained.
type BSRHistory struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"column:product_id;not null;index:idx_bsr_history_product_date,priority:1" json:"product_id"`
	Date      time.Time `gorm:"column:date;type:date;not null;index:idx_bsr_history_product_date,priority:2" json:"date"`
	BSR       *int      `gorm:"column:bsr" json:"bsr"`
}

func (BSRHistory) TableName() string { return "bsr_history" }
