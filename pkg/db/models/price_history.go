package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceHistory is one append-only price observation.
type PriceHistory struct {
	ID           int64            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID    int64            `gorm:"column:product_id;not null;index:idx_price_history_product_date,priority:1" json:"product_id"`
	Date         time.Time        `gorm:"column:date;type:date;not null;index:idx_price_history_product_date,priority:2" json:"date"`
	Price        *decimal.Decimal `gorm:"column:price;type:numeric(10,2)" json:"price"`
	CurrencyCode string           `gorm:"column:currency_code;not null" json:"currency_code"`
}

func (PriceHistory) TableName() string { return "price_history" }
