package playout

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics
var (
	tracksPlayed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "radio_playout_tracks_total", Help: "Songs put on air"},
	)
	adsPlayed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "radio_playout_ads_total", Help: "Ad interrupts started"},
	)
	scheduleMatches = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "radio_playout_schedule_matches_total", Help: "Scheduled ads fired"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(tracksPlayed, adsPlayed, scheduleMatches)
}

// Library is the catalog the engine mirrors in memory.
type Library interface {
	ActiveSongs() ([]Item, error)
	ActiveAdSlots() ([]AdSlot, error)
	AdByID(id uint) (Item, error)
}

// Broadcaster fans a snapshot out to connected listeners. Delivery is
// best-effort and must not block.
type Broadcaster interface {
	Publish(Snapshot)
}

// StateWriter persists the durable snapshot. Called off the engine
// goroutine; failures are logged, never reverted.
type StateWriter interface {
	Persist(Snapshot) error
}

// Engine owns the playout state machine. Every mutation (timer expiry,
// the minute tick, manual skip/play-ad, catalog reloads) runs under one
// mutex, so no observer ever sees a half-applied transition.
type Engine struct {
	library Library
	sink    Broadcaster
	store   StateWriter
	clock   Clock
	timers  TimerFactory

	mu             sync.Mutex
	state          State
	slots          []AdSlot
	scheduleLoaded bool
	expiry         TimerHandle
	timerGen       uint64
}

func New(library Library, sink Broadcaster, store StateWriter) *Engine {
	return &Engine{
		library: library,
		sink:    sink,
		store:   store,
		clock:   RealClock{},
		timers:  realTimers{},
		state:   State{IsPlaying: true},
	}
}

// Start performs the initial catalog load and begins playback.
// Load failures are non-fatal: the engine parks until the next reload.
func (e *Engine) Start() {
	if err := e.ReloadSchedule(); err != nil {
		log.Printf("⚠️ Initial ad schedule load failed: %v", err)
	}
	if err := e.ReloadPlaylist(); err != nil {
		log.Printf("⚠️ Initial playlist load failed: %v", err)
	}
	log.Println("📻 Radio engine started")
}

// ReloadPlaylist swaps the in-memory playlist for the store's current
// active songs. On fetch failure the previous playlist stays untouched.
func (e *Engine) ReloadPlaylist() error {
	songs, err := e.library.ActiveSongs()
	if err != nil {
		log.Printf("⚠️ Playlist reload failed, keeping previous: %v", err)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Playlist = songs
	log.Printf("🎵 Loaded %d songs", len(songs))

	if e.state.Empty() {
		e.parkLocked()
		return nil
	}

	if e.state.CurrentTrackIndex >= len(e.state.Playlist) {
		e.state.CurrentTrackIndex = 0
	}

	// First successful load (or recovery from Empty) starts playback.
	if e.state.CurrentTrack == nil && !e.state.IsPlayingAd {
		e.state.CurrentTrackIndex = 0
		e.startCurrentLocked()
		tracksPlayed.Inc()
		e.emitLocked()
	}
	return nil
}

// ReloadSchedule swaps the in-memory ad schedule. A failed first load
// leaves the schedule empty; a failed refresh keeps the previous set.
func (e *Engine) ReloadSchedule() error {
	slots, err := e.library.ActiveAdSlots()
	if err != nil {
		if !e.scheduleLoaded {
			log.Printf("⚠️ Ad schedule load failed, starting with none: %v", err)
		} else {
			log.Printf("⚠️ Ad schedule reload failed, keeping previous: %v", err)
		}
		return err
	}

	e.mu.Lock()
	e.slots = slots
	e.scheduleLoaded = true
	e.mu.Unlock()

	log.Printf("📢 Loaded %d ad schedules", len(slots))
	return nil
}

// Skip advances as if the current item's expiry timer had fired.
func (e *Engine) Skip() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.CurrentTrack == nil && !e.state.IsPlayingAd {
		log.Println("⏭️ Skip ignored: nothing playing")
		return
	}
	log.Println("⏭️ Manual skip")
	e.advanceLocked()
}

// PlayAd interrupts playback with the given ad immediately. If an ad is
// already on air it is replaced and the expiry timer re-armed.
func (e *Engine) PlayAd(ad Item) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playAdLocked(ad)
}

// PlayAdByID resolves the ad through the catalog; an unknown id is an
// error to the caller and causes no transition.
func (e *Engine) PlayAdByID(id uint) error {
	ad, err := e.library.AdByID(id)
	if err != nil {
		log.Printf("⚠️ play-ad request for unknown ad %d: %v", id, err)
		return err
	}
	e.PlayAd(ad)
	return nil
}

// EvaluateSchedules runs the once-per-minute ad match. At most one ad
// fires per tick; iteration order decides ties (there is no priority
// field, so "first in schedule order" is a choice, not a guarantee).
func (e *Engine) EvaluateSchedules(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.IsPlayingAd || e.state.CurrentTrack == nil {
		return
	}

	for _, slot := range e.slots {
		if slot.Matches(now) {
			log.Printf("📢 Schedule %d matched %s (weekday %d)", slot.ID, slot.At, ISOWeekday(now))
			scheduleMatches.Inc()
			e.playAdLocked(slot.Ad)
			break
		}
	}
}

// RunAdTicker evaluates the ad schedule once per wall-clock minute,
// aligned to minute boundaries, until the context is cancelled.
func (e *Engine) RunAdTicker(ctx context.Context) {
	log.Println("⏰ Ad scheduler active (minute resolution)")
	for {
		now := e.clock.Now()
		next := now.Truncate(time.Minute).Add(time.Minute)
		select {
		case <-ctx.Done():
			return
		case <-time.After(next.Sub(now)):
			e.EvaluateSchedules(e.clock.Now())
		}
	}
}

// Snapshot returns a consistent copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.snapshot(e.clock.Now())
}

// --- transitions (lock held) ---

func (e *Engine) playAdLocked(ad Item) {
	ad.Role = RoleAd
	e.state.CurrentAd = &ad
	e.state.IsPlayingAd = true
	e.state.StartedAt = e.clock.Now()
	e.armTimerLocked(ad.PlayTime())
	adsPlayed.Inc()
	log.Printf("📢 Playing ad: %s (%ds)", ad.Title, ad.Duration)
	e.emitLocked()
}

// advanceLocked is the expiry transition for whichever item is active.
func (e *Engine) advanceLocked() {
	if e.state.Empty() {
		e.parkLocked()
		return
	}

	if e.state.IsPlayingAd {
		// Ad finished. The playlist index did not move; the interrupted
		// song restarts with its full duration (no mid-song resume).
		e.state.IsPlayingAd = false
		e.state.CurrentAd = nil
		if e.state.CurrentTrackIndex >= len(e.state.Playlist) {
			e.state.CurrentTrackIndex = 0
		}
		e.startCurrentLocked()
	} else {
		e.state.CurrentTrackIndex = (e.state.CurrentTrackIndex + 1) % len(e.state.Playlist)
		e.startCurrentLocked()
		tracksPlayed.Inc()
	}
	e.emitLocked()
}

// startCurrentLocked puts playlist[index] on air and arms its expiry.
func (e *Engine) startCurrentLocked() {
	track := e.state.Playlist[e.state.CurrentTrackIndex]
	e.state.CurrentTrack = &track
	e.state.StartedAt = e.clock.Now()
	e.armTimerLocked(track.PlayTime())
	log.Printf("🎵 Now playing [%d/%d]: %s - %s (%ds)",
		e.state.CurrentTrackIndex+1, len(e.state.Playlist), track.Artist, track.Title, track.Duration)
}

// parkLocked drops into the Empty state: nothing on air, no timer armed.
// The engine stays here until a reload delivers a non-empty playlist.
func (e *Engine) parkLocked() {
	e.stopTimerLocked()
	e.state.CurrentTrack = nil
	e.state.CurrentAd = nil
	e.state.IsPlayingAd = false
	e.state.CurrentTrackIndex = 0
	log.Println("📭 Playlist empty, parking until next load")
	e.emitLocked()
}

// armTimerLocked replaces the pending expiry. The generation counter
// makes a stale callback that already fired a no-op.
func (e *Engine) armTimerLocked(d time.Duration) {
	e.stopTimerLocked()
	if !e.state.IsPlaying {
		return
	}
	gen := e.timerGen
	e.expiry = e.timers.AfterFunc(d, func() { e.onExpiry(gen) })
}

func (e *Engine) stopTimerLocked() {
	if e.expiry != nil {
		e.expiry.Stop()
		e.expiry = nil
	}
	e.timerGen++
}

func (e *Engine) onExpiry(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.timerGen {
		return // cancelled while in flight
	}
	e.advanceLocked()
}

// emitLocked publishes the snapshot to listeners and kicks off the
// durable write. Persistence never blocks or reverts the transition.
func (e *Engine) emitLocked() {
	snap := e.state.snapshot(e.clock.Now())
	e.sink.Publish(snap)
	go func() {
		if err := e.store.Persist(snap); err != nil {
			log.Printf("⚠️ Failed to persist radio state: %v", err)
		}
	}()
}
