package playout

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// manualTimers lets tests fire expiries by hand. Every armed timer is
// kept so a test can also fire a stale one and prove it is ignored.
type manualTimers struct {
	mu    sync.Mutex
	armed []*manualTimer
}

type manualTimer struct {
	mu      sync.Mutex
	d       time.Duration
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// fire invokes the callback unconditionally, like a real timer whose
// callback was already in flight when Stop was called.
func (t *manualTimer) fire() {
	t.mu.Lock()
	fn := t.fn
	t.mu.Unlock()
	fn()
}

func (m *manualTimers) AfterFunc(d time.Duration, fn func()) TimerHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{d: d, fn: fn}
	m.armed = append(m.armed, t)
	return t
}

func (m *manualTimers) latest() *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.armed) == 0 {
		return nil
	}
	return m.armed[len(m.armed)-1]
}

func (m *manualTimers) fireLatest(t *testing.T) {
	t.Helper()
	tm := m.latest()
	if tm == nil {
		t.Fatal("no timer armed")
	}
	tm.fire()
}

type fakeLibrary struct {
	mu       sync.Mutex
	songs    []Item
	slots    []AdSlot
	ads      map[uint]Item
	songsErr error
	slotsErr error
}

func (l *fakeLibrary) ActiveSongs() ([]Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.songsErr != nil {
		return nil, l.songsErr
	}
	out := make([]Item, len(l.songs))
	copy(out, l.songs)
	return out, nil
}

func (l *fakeLibrary) ActiveAdSlots() ([]AdSlot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.slotsErr != nil {
		return nil, l.slotsErr
	}
	out := make([]AdSlot, len(l.slots))
	copy(out, l.slots)
	return out, nil
}

func (l *fakeLibrary) AdByID(id uint) (Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ad, ok := l.ads[id]
	if !ok {
		return Item{}, errors.New("ad not found")
	}
	return ad, nil
}

func (l *fakeLibrary) setSongs(songs []Item) {
	l.mu.Lock()
	l.songs = songs
	l.mu.Unlock()
}

type recordSink struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (s *recordSink) Publish(snap Snapshot) {
	s.mu.Lock()
	s.snaps = append(s.snaps, snap)
	s.mu.Unlock()
}

func (s *recordSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snaps)
}

func (s *recordSink) all() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Snapshot, len(s.snaps))
	copy(out, s.snaps)
	return out
}

type recordStore struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (s *recordStore) Persist(snap Snapshot) error {
	s.mu.Lock()
	s.snaps = append(s.snaps, snap)
	s.mu.Unlock()
	return nil
}

func song(id uint, title string, secs int) Item {
	return Item{ID: id, Title: title, Artist: "Tester", Duration: secs, Role: RoleSong}
}

func ad(id uint, title string, secs int) Item {
	return Item{ID: id, Title: title, Duration: secs, Role: RoleAd}
}

// Wednesday 10:00 UTC.
var testStart = time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)

func newTestEngine(lib *fakeLibrary) (*Engine, *recordSink, *manualTimers, *MockClock) {
	sink := &recordSink{}
	timers := &manualTimers{}
	clk := &MockClock{Current: testStart}
	e := New(lib, sink, &recordStore{})
	e.clock = clk
	e.timers = timers
	return e, sink, timers, clk
}

func TestStartPlaysFirstSong(t *testing.T) {
	lib := &fakeLibrary{songs: []Item{song(1, "Alpha", 30), song(2, "Beta", 45)}}
	e, _, timers, _ := newTestEngine(lib)

	e.Start()

	snap := e.Snapshot()
	if snap.CurrentTrack == nil || snap.CurrentTrack.Title != "Alpha" {
		t.Fatalf("expected Alpha on air, got %+v", snap.CurrentTrack)
	}
	if snap.CurrentTrackIndex != 0 {
		t.Fatalf("expected index 0, got %d", snap.CurrentTrackIndex)
	}
	if got := timers.latest().d; got != 30*time.Second {
		t.Fatalf("expected 30s expiry, got %v", got)
	}
}

func TestAdvanceWrapsAround(t *testing.T) {
	lib := &fakeLibrary{songs: []Item{song(1, "Alpha", 30), song(2, "Beta", 45)}}
	e, _, timers, clk := newTestEngine(lib)

	e.Start()

	clk.Advance(30 * time.Second)
	timers.fireLatest(t)
	snap := e.Snapshot()
	if snap.CurrentTrack.Title != "Beta" || snap.CurrentTrackIndex != 1 {
		t.Fatalf("expected Beta at index 1, got %s at %d", snap.CurrentTrack.Title, snap.CurrentTrackIndex)
	}
	if got := timers.latest().d; got != 45*time.Second {
		t.Fatalf("expected 45s expiry, got %v", got)
	}

	clk.Advance(45 * time.Second)
	timers.fireLatest(t)
	snap = e.Snapshot()
	if snap.CurrentTrack.Title != "Alpha" || snap.CurrentTrackIndex != 0 {
		t.Fatalf("expected wrap back to Alpha at index 0, got %s at %d", snap.CurrentTrack.Title, snap.CurrentTrackIndex)
	}
}

func TestSkipAdvancesImmediately(t *testing.T) {
	lib := &fakeLibrary{songs: []Item{song(1, "Alpha", 30), song(2, "Beta", 45)}}
	e, _, _, _ := newTestEngine(lib)

	e.Start()
	e.Skip()

	snap := e.Snapshot()
	if snap.CurrentTrack.Title != "Beta" {
		t.Fatalf("expected Beta after skip, got %s", snap.CurrentTrack.Title)
	}
}

func TestSkipIgnoredWhenParked(t *testing.T) {
	lib := &fakeLibrary{}
	e, sink, _, _ := newTestEngine(lib)

	e.Start()
	before := sink.count()
	e.Skip()

	if sink.count() != before {
		t.Fatal("skip while parked should not emit a snapshot")
	}
	snap := e.Snapshot()
	if snap.CurrentTrack != nil || snap.IsPlayingAd {
		t.Fatalf("expected parked state, got %+v", snap)
	}
}

func TestManualAdInterruptsAndSongRestartsFull(t *testing.T) {
	lib := &fakeLibrary{songs: []Item{song(1, "Alpha", 30), song(2, "Beta", 45)}}
	e, _, timers, clk := newTestEngine(lib)

	e.Start()

	// 12 seconds into Alpha an ad takes over.
	clk.Advance(12 * time.Second)
	e.PlayAd(ad(9, "Spot", 10))

	snap := e.Snapshot()
	if !snap.IsPlayingAd || snap.CurrentAd == nil || snap.CurrentAd.Title != "Spot" {
		t.Fatalf("expected Spot on air, got %+v", snap)
	}
	if snap.CurrentTrack == nil || snap.CurrentTrack.Title != "Alpha" {
		t.Fatal("interrupted song should stay referenced during the ad")
	}
	if snap.CurrentTrackIndex != 0 {
		t.Fatalf("ad must not move the playlist index, got %d", snap.CurrentTrackIndex)
	}
	if got := timers.latest().d; got != 10*time.Second {
		t.Fatalf("expected 10s ad expiry, got %v", got)
	}

	// Ad ends: Alpha restarts from the top with its full duration, not
	// the remaining 18 seconds.
	clk.Advance(10 * time.Second)
	timers.fireLatest(t)

	snap = e.Snapshot()
	if snap.IsPlayingAd || snap.CurrentAd != nil {
		t.Fatalf("expected ad cleared, got %+v", snap)
	}
	if snap.CurrentTrack.Title != "Alpha" || snap.CurrentTrackIndex != 0 {
		t.Fatalf("expected Alpha resumed at index 0, got %s at %d", snap.CurrentTrack.Title, snap.CurrentTrackIndex)
	}
	if got := timers.latest().d; got != 30*time.Second {
		t.Fatalf("expected full 30s restart, got %v", got)
	}
	if !snap.StartedAt.Equal(clk.Now()) {
		t.Fatalf("expected started_at reset to now, got %v", snap.StartedAt)
	}
}

func TestAdReplacesRunningAd(t *testing.T) {
	lib := &fakeLibrary{songs: []Item{song(1, "Alpha", 30)}}
	e, _, timers, _ := newTestEngine(lib)

	e.Start()
	e.PlayAd(ad(9, "First", 20))
	first := timers.latest()
	e.PlayAd(ad(10, "Second", 5))

	snap := e.Snapshot()
	if snap.CurrentAd.Title != "Second" {
		t.Fatalf("expected Second on air, got %s", snap.CurrentAd.Title)
	}
	if got := timers.latest().d; got != 5*time.Second {
		t.Fatalf("expected 5s expiry, got %v", got)
	}
	if first.Stop() {
		t.Fatal("first ad timer should already be stopped")
	}
}

func TestPlayAdByIDUnknown(t *testing.T) {
	lib := &fakeLibrary{songs: []Item{song(1, "Alpha", 30)}}
	e, _, _, _ := newTestEngine(lib)

	e.Start()
	if err := e.PlayAdByID(42); err == nil {
		t.Fatal("expected error for unknown ad id")
	}

	snap := e.Snapshot()
	if snap.IsPlayingAd || snap.CurrentAd != nil {
		t.Fatal("unknown ad must cause no transition")
	}
	if snap.CurrentTrack.Title != "Alpha" {
		t.Fatalf("song should be untouched, got %+v", snap.CurrentTrack)
	}
}

func TestScheduleFiresMatchingSlot(t *testing.T) {
	spot := ad(7, "Morning Spot", 15)
	lib := &fakeLibrary{
		songs: []Item{song(1, "Alpha", 300)},
		slots: []AdSlot{{ID: 1, Ad: spot, At: "10:01", Days: []int{3}}},
	}
	e, _, timers, clk := newTestEngine(lib)

	e.Start()

	// 10:00 Wednesday: no match yet.
	e.EvaluateSchedules(clk.Now())
	if snap := e.Snapshot(); snap.IsPlayingAd {
		t.Fatal("slot fired a minute early")
	}

	clk.Advance(time.Minute)
	e.EvaluateSchedules(clk.Now())

	snap := e.Snapshot()
	if !snap.IsPlayingAd || snap.CurrentAd.Title != "Morning Spot" {
		t.Fatalf("expected Morning Spot at 10:01, got %+v", snap)
	}
	if got := timers.latest().d; got != 15*time.Second {
		t.Fatalf("expected 15s ad expiry, got %v", got)
	}
}

func TestScheduleFirstMatchWins(t *testing.T) {
	lib := &fakeLibrary{
		songs: []Item{song(1, "Alpha", 300)},
		slots: []AdSlot{
			{ID: 1, Ad: ad(7, "First", 10), At: "10:00", Days: []int{3}},
			{ID: 2, Ad: ad(8, "Second", 10), At: "10:00", Days: []int{3}},
		},
	}
	e, _, _, clk := newTestEngine(lib)

	e.Start()
	e.EvaluateSchedules(clk.Now())

	snap := e.Snapshot()
	if snap.CurrentAd == nil || snap.CurrentAd.Title != "First" {
		t.Fatalf("expected first slot to win, got %+v", snap.CurrentAd)
	}
}

func TestScheduleSkippedWhileAdPlaying(t *testing.T) {
	lib := &fakeLibrary{
		songs: []Item{song(1, "Alpha", 300)},
		slots: []AdSlot{{ID: 1, Ad: ad(7, "Spot", 10), At: "10:00", Days: []int{3}}},
	}
	e, _, _, clk := newTestEngine(lib)

	e.Start()
	e.PlayAd(ad(9, "Manual", 120))
	e.EvaluateSchedules(clk.Now())

	snap := e.Snapshot()
	if snap.CurrentAd.Title != "Manual" {
		t.Fatalf("schedule must not preempt a running ad, got %s", snap.CurrentAd.Title)
	}
}

func TestScheduleSkippedWhenParked(t *testing.T) {
	lib := &fakeLibrary{
		slots: []AdSlot{{ID: 1, Ad: ad(7, "Spot", 10), At: "10:00", Days: []int{3}}},
	}
	e, _, _, clk := newTestEngine(lib)

	e.Start()
	e.EvaluateSchedules(clk.Now())

	if snap := e.Snapshot(); snap.IsPlayingAd {
		t.Fatal("scheduled ads require a song on air")
	}
}

func TestEmptyReloadParksThenRecovers(t *testing.T) {
	lib := &fakeLibrary{songs: []Item{song(1, "Alpha", 30)}}
	e, _, timers, _ := newTestEngine(lib)

	e.Start()
	stale := timers.latest()

	lib.setSongs(nil)
	if err := e.ReloadPlaylist(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	snap := e.Snapshot()
	if snap.CurrentTrack != nil || snap.CurrentTrackIndex != 0 {
		t.Fatalf("expected parked state, got %+v", snap)
	}

	// The old expiry firing late must not resurrect playback.
	stale.fire()
	if snap := e.Snapshot(); snap.CurrentTrack != nil {
		t.Fatal("stale timer advanced a parked engine")
	}

	lib.setSongs([]Item{song(2, "Beta", 20), song(3, "Gamma", 25)})
	if err := e.ReloadPlaylist(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	snap = e.Snapshot()
	if snap.CurrentTrack == nil || snap.CurrentTrack.Title != "Beta" || snap.CurrentTrackIndex != 0 {
		t.Fatalf("expected Beta at index 0 after recovery, got %+v", snap)
	}
}

func TestReloadFailureKeepsPlaylist(t *testing.T) {
	lib := &fakeLibrary{songs: []Item{song(1, "Alpha", 30)}}
	e, _, _, _ := newTestEngine(lib)

	e.Start()

	lib.mu.Lock()
	lib.songsErr = errors.New("db down")
	lib.mu.Unlock()

	if err := e.ReloadPlaylist(); err == nil {
		t.Fatal("expected reload error")
	}
	snap := e.Snapshot()
	if snap.CurrentTrack == nil || snap.CurrentTrack.Title != "Alpha" {
		t.Fatal("failed reload must keep the previous playlist")
	}
}

func TestReloadClampsIndex(t *testing.T) {
	lib := &fakeLibrary{songs: []Item{song(1, "A", 10), song(2, "B", 10), song(3, "C", 10)}}
	e, _, timers, _ := newTestEngine(lib)

	e.Start()
	timers.fireLatest(t)
	timers.fireLatest(t) // index 2

	lib.setSongs([]Item{song(1, "A", 10)})
	if err := e.ReloadPlaylist(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	snap := e.Snapshot()
	if snap.CurrentTrackIndex != 0 {
		t.Fatalf("expected index clamped to 0, got %d", snap.CurrentTrackIndex)
	}
}

func TestStaleTimerIgnoredAfterSkip(t *testing.T) {
	lib := &fakeLibrary{songs: []Item{song(1, "A", 10), song(2, "B", 10), song(3, "C", 10)}}
	e, _, timers, _ := newTestEngine(lib)

	e.Start()
	stale := timers.latest()
	e.Skip() // index 1, new timer armed

	stale.fire()

	snap := e.Snapshot()
	if snap.CurrentTrackIndex != 1 || snap.CurrentTrack.Title != "B" {
		t.Fatalf("stale expiry double-advanced: %s at %d", snap.CurrentTrack.Title, snap.CurrentTrackIndex)
	}
}

func TestSnapshotsStayConsistent(t *testing.T) {
	lib := &fakeLibrary{
		songs: []Item{song(1, "A", 10), song(2, "B", 20)},
		slots: []AdSlot{{ID: 1, Ad: ad(7, "Spot", 5), At: "10:00", Days: []int{3}}},
		ads:   map[uint]Item{9: ad(9, "Manual", 8)},
	}
	e, sink, timers, clk := newTestEngine(lib)

	e.Start()
	timers.fireLatest(t)
	e.EvaluateSchedules(clk.Now())
	timers.fireLatest(t)
	e.Skip()
	if err := e.PlayAdByID(9); err != nil {
		t.Fatalf("play ad: %v", err)
	}
	timers.fireLatest(t)
	lib.setSongs(nil)
	e.ReloadPlaylist()

	for i, snap := range sink.all() {
		if snap.IsPlayingAd != (snap.CurrentAd != nil) {
			t.Fatalf("snapshot %d: is_playing_ad=%v but current_ad=%v", i, snap.IsPlayingAd, snap.CurrentAd)
		}
		if len(snap.Playlist) > 0 && (snap.CurrentTrackIndex < 0 || snap.CurrentTrackIndex >= len(snap.Playlist)) {
			t.Fatalf("snapshot %d: index %d outside playlist of %d", i, snap.CurrentTrackIndex, len(snap.Playlist))
		}
	}
}
