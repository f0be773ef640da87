package playout

import "time"

// State is the single authoritative picture of what is on air.
// Only the Engine mutates it, always under its lock, always leaving it
// consistent: IsPlayingAd is true exactly when CurrentAd is set, and
// CurrentTrackIndex stays inside the playlist whenever one exists.
type State struct {
	CurrentTrack      *Item
	CurrentAd         *Item
	IsPlayingAd       bool
	Playlist          []Item
	CurrentTrackIndex int
	StartedAt         time.Time
	IsPlaying         bool
}

// Empty reports whether the engine is parked with nothing to play.
func (s *State) Empty() bool {
	return len(s.Playlist) == 0
}

// Snapshot is an immutable copy of State handed to observers.
// Timestamp is stamped at emission; Listeners is filled in by the
// broadcast hub just before fan-out.
type Snapshot struct {
	CurrentTrack      *Item     `json:"current_track"`
	CurrentAd         *Item     `json:"current_ad"`
	IsPlayingAd       bool      `json:"is_playing_ad"`
	Playlist          []Item    `json:"playlist"`
	CurrentTrackIndex int       `json:"current_track_index"`
	StartedAt         time.Time `json:"started_at"`
	IsPlaying         bool      `json:"is_playing"`
	Timestamp         time.Time `json:"timestamp"`
	Listeners         int       `json:"listeners"`
}

func (s *State) snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		IsPlayingAd:       s.IsPlayingAd,
		CurrentTrackIndex: s.CurrentTrackIndex,
		StartedAt:         s.StartedAt,
		IsPlaying:         s.IsPlaying,
		Timestamp:         now,
	}
	if s.CurrentTrack != nil {
		t := *s.CurrentTrack
		snap.CurrentTrack = &t
	}
	if s.CurrentAd != nil {
		a := *s.CurrentAd
		snap.CurrentAd = &a
	}
	snap.Playlist = make([]Item, len(s.Playlist))
	copy(snap.Playlist, s.Playlist)
	return snap
}
