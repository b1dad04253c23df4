package models

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteGroupItem is a membership row between a group and a product.
// Adding the same (group, product) pair twice returns the existing row.
type FavoriteGroupItem struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	GroupID   int64     `gorm:"column:group_id;not null;uniqueIndex:uq_favorite_group_items_group_product,priority:1" json:"group_id"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:uq_favorite_group_items_group_product,priority:2" json:"product_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (FavoriteGroupItem) TableName() string { return "favorite_group_items" }
