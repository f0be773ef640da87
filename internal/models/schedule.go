package models

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// AdSchedule fires its ad at a fixed time of day on the listed weekdays.
type AdSchedule struct {
	gorm.Model
	AdID          uint   `gorm:"index;not null" json:"ad_id"`
	Ad            Ad     `json:"ad"`
	ScheduledTime string `gorm:"size:5;not null" json:"scheduled_time"` // "HH:MM" (24h)
	Days          string `gorm:"not null" json:"days_of_week"`          // Comma-separated ISO weekdays: "1,3,5"
	IsActive      bool   `gorm:"default:true" json:"is_active"`
}

// DaysList parses the Days column into ISO weekday numbers (Mon=1..Sun=7).
// A 0 coming from clients that count Sunday as 0 is normalized to 7.
func (s *AdSchedule) DaysList() []int {
	var days []int
	for _, part := range strings.Split(s.Days, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if d == 0 {
			d = 7
		}
		if d >= 1 && d <= 7 {
			days = append(days, d)
		}
	}
	return days
}

// JoinDays renders a weekday list back into the stored form.
func JoinDays(days []int) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		if d == 0 {
			d = 7
		}
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}
