package models

// Marketplace is a reference row for one Amazon marketplace (e.g. "US").
// Owned by the external admin tooling; read-only here.
type Marketplace struct {
	ID   int64  `gorm:"column:id;type:smallint;primaryKey" json:"id"`
	Code string `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Name string `gorm:"column:name;not null" json:"name"`
}

func (Marketplace) TableName() string { return "marketplaces" }
