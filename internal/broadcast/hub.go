package broadcast

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/NewTime-Creator/radio-app/internal/playout"
)

// Metrics
var (
	listenersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "radio_ws_listeners", Help: "Connected websocket listeners"},
	)
	broadcastsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "radio_ws_broadcasts_total", Help: "State snapshots fanned out"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(listenersGauge, broadcastsTotal)
}

// Controller is the slice of the engine the hub drives with inbound
// admin messages.
type Controller interface {
	Skip()
	PlayAdByID(id uint) error
	Snapshot() playout.Snapshot
}

// envelope is the wire format in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

const (
	eventState  = "radio-state"
	eventSkip   = "admin-skip-track"
	eventPlayAd = "admin-play-ad"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The player is served from anywhere; state is public.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans playout snapshots out to every connected listener.
// Delivery is best-effort: no retry, no replay, late joiners get the
// on-connect snapshot and then whatever comes next.
type Hub struct {
	controller Controller

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Bind attaches the engine. The hub is constructed before the engine
// because the engine publishes through it, so the controller arrives
// after both exist. Must be called before serving connections.
func (h *Hub) Bind(controller Controller) {
	h.controller = controller
}

// Handle upgrades an HTTP request into a listener connection and pushes
// the current state immediately.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("⚠️ WS upgrade failed: %v", err)
		return
	}

	cl := &client{hub: h, conn: conn, send: make(chan []byte, 16)}
	h.register(cl)

	// Immediate full-state push so the player can sync right away.
	snap := h.controller.Snapshot()
	snap.Listeners = h.ListenerCount()
	if msg, err := stateMessage(snap); err == nil {
		cl.send <- msg
	}

	go cl.writePump()
	go cl.readPump()
}

// Publish stamps the live listener count onto the snapshot and fans it
// out. Clients that can't keep up are dropped.
func (h *Hub) Publish(snap playout.Snapshot) {
	snap.Listeners = h.ListenerCount()
	msg, err := stateMessage(snap)
	if err != nil {
		log.Printf("⚠️ Failed to encode snapshot: %v", err)
		return
	}

	h.mu.RLock()
	stale := []*client{}
	for cl := range h.clients {
		select {
		case cl.send <- msg:
		default:
			stale = append(stale, cl)
		}
	}
	h.mu.RUnlock()

	for _, cl := range stale {
		log.Println("🔌 Dropping slow listener")
		h.unregister(cl)
	}
	broadcastsTotal.Inc()
}

func (h *Hub) ListenerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	listenersGauge.Set(float64(n))
	log.Printf("🔌 Listener connected. Total: %d", n)
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	_, ok := h.clients[cl]
	if ok {
		delete(h.clients, cl)
		close(cl.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		listenersGauge.Set(float64(n))
		log.Printf("🔌 Listener disconnected. Total: %d", n)
	}
}

// dispatch routes an inbound admin message onto the engine.
func (h *Hub) dispatch(env envelope) {
	switch env.Event {
	case eventSkip:
		h.controller.Skip()

	case eventPlayAd:
		id, ok := parseAdID(env.Data)
		if !ok {
			log.Println("⚠️ admin-play-ad without a usable ad id")
			return
		}
		if err := h.controller.PlayAdByID(id); err != nil {
			log.Printf("⚠️ admin-play-ad %d rejected: %v", id, err)
		}

	default:
		log.Printf("⚠️ Unknown WS event %q", env.Event)
	}
}

// parseAdID accepts either a bare number or {"ad_id": N}.
func parseAdID(data json.RawMessage) (uint, bool) {
	var id uint
	if err := json.Unmarshal(data, &id); err == nil && id > 0 {
		return id, true
	}
	var obj struct {
		AdID uint `json:"ad_id"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.AdID > 0 {
		return obj.AdID, true
	}
	return 0, false
}

func stateMessage(snap playout.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Event: eventState, Data: data})
}
