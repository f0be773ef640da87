package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NewTime-Creator/radio-app/internal/models"
)

// SongHandler manages the song catalog. Every mutation triggers a
// playlist reload so the engine's in-memory mirror stays read-after-write
// consistent with the store.
type SongHandler struct {
	db     *gorm.DB
	engine Engine
}

func NewSongHandler(db *gorm.DB, engine Engine) *SongHandler {
	return &SongHandler{db: db, engine: engine}
}

// GetSongs lists all songs, newest first.
func (h *SongHandler) GetSongs(c *gin.Context) {
	var songs []models.Song
	if err := h.db.Order("created_at desc").Find(&songs).Error; err != nil {
		slog.Error("Failed to fetch songs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, songs)
}

// CreateSong registers a song whose media is already hosted somewhere.
func (h *SongHandler) CreateSong(c *gin.Context) {
	var input struct {
		Title    string `json:"title" binding:"required"`
		Artist   string `json:"artist"`
		Genre    string `json:"genre"`
		FileURL  string `json:"file_url" binding:"required"`
		Duration int    `json:"duration" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	song := models.Song{
		Title:    input.Title,
		Artist:   input.Artist,
		Genre:    input.Genre,
		FileURL:  input.FileURL,
		Duration: input.Duration,
		IsActive: true,
	}
	if err := h.db.Create(&song).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create song"})
		return
	}

	h.engine.ReloadPlaylist()
	c.JSON(http.StatusCreated, song)
}

// DeleteSong removes a song from the catalog and the rotation.
func (h *SongHandler) DeleteSong(c *gin.Context) {
	result := h.db.Delete(&models.Song{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete song"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
		return
	}

	h.engine.ReloadPlaylist()
	c.JSON(http.StatusOK, gin.H{"success": true})
}
