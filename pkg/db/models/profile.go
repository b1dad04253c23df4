package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the minimal identity surface preference rows hang off.
// Authentication lives outside this service; only existence matters here.
type Profile struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Email     *string   `gorm:"column:email" json:"email"`
	FullName  *string   `gorm:"column:full_name" json:"full_name"`
	AvatarURL *string   `gorm:"column:avatar_url" json:"avatar_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
