package models

// Brand is a reference row for a product brand. Read-only here.
type Brand struct {
	ID             int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name           string `gorm:"column:name;not null;uniqueIndex" json:"name"`
	NormalizedName string `gorm:"column:normalized_name;not null" json:"normalized_name"`
}

func (Brand) TableName() string { return "brands" }
