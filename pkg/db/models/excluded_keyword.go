package models

import (
	"time"

	"github.com/google/uuid"
)

// ExcludedKeyword stores a user's disliked keyword. Stored case-sensitive,
// matched case-insensitive. Duplicate rows for the same user are tolerated.
type ExcludedKeyword struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Keyword   string    `gorm:"column:keyword;not null" json:"keyword"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ExcludedKeyword) TableName() string { return "excluded_keywords" }
