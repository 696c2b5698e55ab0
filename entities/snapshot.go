package entities

import (
	"time"

	"gorm.io/datatypes"
)

// UserLocalStorage is the per-user snapshot document. One row per user.
type UserLocalStorage struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    string            `gorm:"uniqueIndex;not null" json:"user_id"`
	Data      datatypes.JSONMap `gorm:"not null" json:"data"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserLocalStorage) TableName() string { return "user_local_storage" }
