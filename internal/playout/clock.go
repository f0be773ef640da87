package playout

import (
	"sync"
	"time"
)

// Clock defines an interface for getting the current time.
// This allows us to inject a fake time during unit tests.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the actual server system time.
type RealClock struct{}

func (c RealClock) Now() time.Time {
	return time.Now()
}

// MockClock implements Clock for testing specific scenarios.
// e.g., "Pretend it is Wednesday at 10:00"
type MockClock struct {
	mu      sync.Mutex
	Current time.Time
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Current
}

func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.Current = m.Current.Add(d)
	m.mu.Unlock()
}

// ISOWeekday maps Go's Sunday=0 convention onto ISO-8601 (Mon=1..Sun=7),
// matching how schedule entries store their weekday sets.
func ISOWeekday(t time.Time) int {
	d := int(t.Weekday())
	if d == 0 {
		return 7
	}
	return d
}
