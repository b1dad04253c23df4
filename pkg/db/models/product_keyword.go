package models

// ProductKeyword associates a search keyword with a product. Keywords feed
// both free-text search and the per-user excluded-keyword overlay.
type ProductKeyword struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"column:product_id;not null;index" json:"product_id"`
	Keyword   string `gorm:"column:keyword;not null;index" json:"keyword"`
}

func (ProductKeyword) TableName() string { return "product_keywords" }
