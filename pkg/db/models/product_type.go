package models

// ProductType is a reference row for a product category. Read-only here.
type ProductType struct {
	ID   int64  `gorm:"column:id;type:smallint;primaryKey" json:"id"`
	Name string `gorm:"column:name;not null;uniqueIndex" json:"name"`
}

func (ProductType) TableName() string { return "product_types" }
