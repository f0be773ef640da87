package models

import "time"

// RadioState is the durable snapshot of the playout engine.
// There is ONE row in this table (ID=1), upserted on every transition,
// so a restarted process can see where the previous one left off.
type RadioState struct {
	ID            uint       `gorm:"primaryKey" json:"-"`
	CurrentSongID *uint      `json:"current_song_id"`
	CurrentAdID   *uint      `json:"current_ad_id"`
	IsPlayingAd   bool       `json:"is_playing_ad"`
	StartedAt     *time.Time `json:"started_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName overrides the default pluralization
func (RadioState) TableName() string {
	return "radio_state"
}
