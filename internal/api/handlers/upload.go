package handlers

import (
	"bytes"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NewTime-Creator/radio-app/internal/audio"
	"github.com/NewTime-Creator/radio-app/internal/config"
	"github.com/NewTime-Creator/radio-app/internal/models"
	"github.com/NewTime-Creator/radio-app/internal/utils"
)

// AssetStore hosts uploaded media and returns its public URL.
type AssetStore interface {
	UploadAsset(originalName, folder string, data []byte) (string, error)
}

// UploadHandler takes multipart audio uploads, hosts the file, probes
// its duration and registers the catalog row.
type UploadHandler struct {
	db     *gorm.DB
	store  AssetStore
	engine Engine
	cfg    *config.Config
}

func NewUploadHandler(db *gorm.DB, store AssetStore, engine Engine, cfg *config.Config) *UploadHandler {
	return &UploadHandler{db: db, store: store, engine: engine, cfg: cfg}
}

// UploadSong accepts a song file plus title/artist/genre form fields.
// Missing fields are filled from the file's tags, then the filename.
func (h *UploadHandler) UploadSong(c *gin.Context) {
	data, filename, ok := h.readUpload(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	artist := c.PostForm("artist")
	genre := c.PostForm("genre")

	if title == "" || artist == "" {
		if meta, err := tag.ReadFrom(bytes.NewReader(data)); err == nil {
			if title == "" {
				title = meta.Title()
			}
			if artist == "" {
				artist = meta.Artist()
			}
			if genre == "" {
				genre = meta.Genre()
			}
		}
	}
	if title == "" {
		title = utils.CleanFilename(filename)
	}
	if artist == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: artist"})
		return
	}
	if genre == "" {
		genre = "Unknown"
	}

	log.Printf("📤 Song upload: %s - %s", title, artist)

	data = h.stamped(data, filename, map[string]string{
		"TITLE":  title,
		"ARTIST": artist,
		"GENRE":  genre,
	})

	duration := h.resolveDuration(c, data, filename, h.cfg.Radio.SongFallbackSeconds)

	fileURL, err := h.store.UploadAsset(filename, "songs", data)
	if err != nil {
		slog.Error("Song upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	song := models.Song{
		Title:    title,
		Artist:   artist,
		Genre:    genre,
		FileURL:  fileURL,
		Duration: duration,
		IsActive: true,
	}
	if err := h.db.Create(&song).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save song"})
		return
	}

	h.engine.ReloadPlaylist()
	c.JSON(http.StatusOK, gin.H{"success": true, "song": song})
}

// UploadAd accepts an ad file plus a title form field.
func (h *UploadHandler) UploadAd(c *gin.Context) {
	data, filename, ok := h.readUpload(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: title"})
		return
	}

	log.Printf("📤 Ad upload: %s", title)

	data = h.stamped(data, filename, map[string]string{"TITLE": title})
	duration := h.resolveDuration(c, data, filename, h.cfg.Radio.AdFallbackSeconds)

	fileURL, err := h.store.UploadAsset(filename, "ads", data)
	if err != nil {
		slog.Error("Ad upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ad := models.Ad{
		Title:    title,
		FileURL:  fileURL,
		Duration: duration,
		IsActive: true,
	}
	if err := h.db.Create(&ad).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save ad"})
		return
	}

	h.engine.ReloadSchedule()
	c.JSON(http.StatusOK, gin.H{"success": true, "ad": ad})
}

// readUpload pulls the multipart file into memory, enforcing the size cap.
func (h *UploadHandler) readUpload(c *gin.Context) ([]byte, string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, "", false
	}

	maxBytes := h.cfg.Radio.MaxUploadMB * 1024 * 1024
	if fileHeader.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return nil, "", false
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to open file"})
		return nil, "", false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read file"})
		return nil, "", false
	}
	return data, fileHeader.Filename, true
}

// stamped writes the submitted metadata into MP3 uploads. Tagging is
// best-effort: on any failure the original bytes are stored.
func (h *UploadHandler) stamped(data []byte, filename string, meta map[string]string) []byte {
	if strings.ToLower(filepath.Ext(filename)) != ".mp3" {
		return data
	}

	tmp, err := os.CreateTemp("", "radio-upload-*.mp3")
	if err != nil {
		return data
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return data
	}
	tmp.Close()

	if err := audio.StampMP3(tmp.Name(), meta); err != nil {
		slog.Error("failed to tag mp3", "error", err)
		return data
	}

	tagged, err := os.ReadFile(tmp.Name())
	if err != nil {
		return data
	}
	return tagged
}

// resolveDuration probes the file with ffprobe, falling back to the
// submitted duration field and then the configured default.
func (h *UploadHandler) resolveDuration(c *gin.Context, data []byte, filename string, fallback int) int {
	tmp, err := os.CreateTemp("", "radio-probe-*"+strings.ToLower(filepath.Ext(filename)))
	if err == nil {
		defer os.Remove(tmp.Name())
		if _, err := tmp.Write(data); err == nil {
			tmp.Close()
			if secs, err := audio.ProbeDuration(tmp.Name()); err == nil {
				return secs
			}
		} else {
			tmp.Close()
		}
	}

	if submitted, err := strconv.Atoi(c.PostForm("duration")); err == nil && submitted > 0 {
		return submitted
	}
	log.Printf("⚠️ Could not probe %s, using %ds fallback", filename, fallback)
	return fallback
}
