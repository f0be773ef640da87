package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StateHandler exposes the live playout snapshot over plain HTTP for
// clients that don't hold a websocket open.
type StateHandler struct {
	engine    Engine
	listeners ListenerCounter
}

func NewStateHandler(engine Engine, listeners ListenerCounter) *StateHandler {
	return &StateHandler{engine: engine, listeners: listeners}
}

// GetState returns the current snapshot with the live listener count.
func (h *StateHandler) GetState(c *gin.Context) {
	snap := h.engine.Snapshot()
	snap.Listeners = h.listeners.ListenerCount()
	c.JSON(http.StatusOK, snap)
}

// Skip advances playback as if the current item had expired.
func (h *StateHandler) Skip(c *gin.Context) {
	h.engine.Skip()
	c.JSON(http.StatusOK, gin.H{"message": "Skipped"})
}
