package playout

import (
	"testing"
	"time"
)

func TestISOWeekday(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), 1}, // Monday
		{time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), 3}, // Wednesday
		{time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC), 6}, // Saturday
		{time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), 7}, // Sunday maps to 7, not 0
	}
	for _, tt := range tests {
		if got := ISOWeekday(tt.date); got != tt.want {
			t.Errorf("ISOWeekday(%s) = %d, want %d", tt.date.Weekday(), got, tt.want)
		}
	}
}

func TestAdSlotMatches(t *testing.T) {
	wed1030 := time.Date(2025, 6, 4, 10, 30, 0, 0, time.UTC)
	sun0900 := time.Date(2025, 6, 8, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		slot AdSlot
		now  time.Time
		want bool
	}{
		{"exact match", AdSlot{At: "10:30", Days: []int{3}}, wed1030, true},
		{"right time wrong day", AdSlot{At: "10:30", Days: []int{1, 2}}, wed1030, false},
		{"right day wrong time", AdSlot{At: "10:31", Days: []int{3}}, wed1030, false},
		{"multiple days", AdSlot{At: "10:30", Days: []int{1, 3, 5}}, wed1030, true},
		{"sunday as 7", AdSlot{At: "09:00", Days: []int{7}}, sun0900, true},
		{"no days", AdSlot{At: "10:30", Days: nil}, wed1030, false},
		{"seconds ignored", AdSlot{At: "10:30", Days: []int{3}}, wed1030.Add(45 * time.Second), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.slot.Matches(tt.now); got != tt.want {
				t.Errorf("Matches(%s) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}
