package models

import "gorm.io/gorm"

// Ad is an advertisement spot. Ads never occupy playlist slots; they
// interrupt the running song and the playlist resumes at the same index.
type Ad struct {
	gorm.Model
	Title    string `gorm:"index;not null" json:"title"`
	FileURL  string `gorm:"not null" json:"file_url"`
	Duration int    `gorm:"not null" json:"duration"` // seconds
	IsActive bool   `gorm:"default:true" json:"is_active"`
}
