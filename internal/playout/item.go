package playout

import "time"

// Role distinguishes playlist songs from ad spots. Both share the same
// playable shape; only songs occupy playlist slots.
type Role string

const (
	RoleSong Role = "song"
	RoleAd   Role = "ad"
)

// Item is anything the station can put on air.
type Item struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist,omitempty"`
	Genre    string `json:"genre,omitempty"`
	URL      string `json:"file_url"`
	Duration int    `json:"duration"` // seconds
	Role     Role   `json:"role"`
}

// PlayTime is the on-air length of the item.
func (i Item) PlayTime() time.Duration {
	return time.Duration(i.Duration) * time.Second
}

// AdSlot is one entry of the ad schedule, with the referenced ad joined in.
type AdSlot struct {
	ID   uint
	Ad   Item
	At   string // "HH:MM" (24h)
	Days []int  // ISO weekdays, Mon=1..Sun=7
}

// Matches reports whether the slot should fire at the given instant.
// Resolution is one minute; the caller ticks once per wall-clock minute.
func (s AdSlot) Matches(now time.Time) bool {
	if s.At != now.Format("15:04") {
		return false
	}
	day := ISOWeekday(now)
	for _, d := range s.Days {
		if d == day {
			return true
		}
	}
	return false
}
