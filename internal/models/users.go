package models

import (
	"time"

	"gorm.io/gorm"
)

// Control panel roles. Viewers can read everything public; admins own
// the catalog, the schedule and live playback.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Users are control panel logins, not radio listeners. Listeners are
// anonymous websocket connections and never touch this table.
type Users struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"` // Hidden from JSON
	Role         string         `gorm:"type:varchar(20);default:'viewer'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
