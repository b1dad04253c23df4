package models

import "time"

// DailyProductStat is the derived rollup row: trailing BSR averages for one
// product and day. Exactly one row per (product_id, date); recomputation
// replaces the prior value.
type DailyProductStat struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:uq_daily_product_stats_product_date,priority:1" json:"product_id"`
	Date      time.Time `gorm:"column:date;type:date;not null;uniqueIndex:uq_daily_product_stats_product_date,priority:2" json:"date"`
	AvgBSR7   *int      `gorm:"column:avg_bsr_7" json:"avg_bsr_7"`
	AvgBSR30  *int      `gorm:"column:avg_bsr_30" json:"avg_bsr_30"`
	AvgBSR90  *int      `gorm:"column:avg_bsr_90" json:"avg_bsr_90"`
}

func (DailyProductStat) TableName() string { return "daily_product_stats" }
