package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedProduct is a user's flat bookmark of a product, independent of
// favorite groups.
type SavedProduct struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_saved_products_user_product,priority:1" json:"user_id"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:uq_saved_products_user_product,priority:2" json:"product_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SavedProduct) TableName() string { return "saved_products" }
