package models

import "gorm.io/gorm"

// Song is one playlist entry. Playout order is CreatedAt ascending,
// so the gorm.Model timestamp doubles as the playlist position.
type Song struct {
	gorm.Model
	Title    string `gorm:"index;not null" json:"title"`
	Artist   string `gorm:"index" json:"artist"`
	Genre    string `json:"genre"`
	FileURL  string `gorm:"not null" json:"file_url"`
	Duration int    `gorm:"not null" json:"duration"` // seconds
	IsActive bool   `gorm:"default:true" json:"is_active"`
}
