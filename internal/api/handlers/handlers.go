package handlers

import "github.com/NewTime-Creator/radio-app/internal/playout"

// Engine is the slice of the playout engine the API drives. Handlers
// never touch playout state directly; they trigger reloads and manual
// transitions and read snapshots.
type Engine interface {
	Snapshot() playout.Snapshot
	Skip()
	PlayAdByID(id uint) error
	ReloadPlaylist() error
	ReloadSchedule() error
}

// ListenerCounter reports how many websocket listeners are connected.
type ListenerCounter interface {
	ListenerCount() int
}
