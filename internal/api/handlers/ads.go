package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NewTime-Creator/radio-app/internal/models"
)

// AdHandler manages the ad catalog. Mutations reload the ad schedule
// because schedule entries join against these rows.
type AdHandler struct {
	db     *gorm.DB
	engine Engine
}

func NewAdHandler(db *gorm.DB, engine Engine) *AdHandler {
	return &AdHandler{db: db, engine: engine}
}

// GetAds lists all ads, newest first.
func (h *AdHandler) GetAds(c *gin.Context) {
	var ads []models.Ad
	if err := h.db.Order("created_at desc").Find(&ads).Error; err != nil {
		slog.Error("Failed to fetch ads", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, ads)
}

// CreateAd registers an ad whose media is already hosted somewhere.
func (h *AdHandler) CreateAd(c *gin.Context) {
	var input struct {
		Title    string `json:"title" binding:"required"`
		FileURL  string `json:"file_url" binding:"required"`
		Duration int    `json:"duration" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ad := models.Ad{
		Title:    input.Title,
		FileURL:  input.FileURL,
		Duration: input.Duration,
		IsActive: true,
	}
	if err := h.db.Create(&ad).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ad"})
		return
	}

	h.engine.ReloadSchedule()
	c.JSON(http.StatusCreated, ad)
}

// DeleteAd removes an ad; schedule entries referencing it stop firing
// after the reload.
func (h *AdHandler) DeleteAd(c *gin.Context) {
	result := h.db.Delete(&models.Ad{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ad"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found"})
		return
	}

	h.engine.ReloadSchedule()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PlayAd puts the ad on air right now, interrupting the current song.
func (h *AdHandler) PlayAd(c *gin.Context) {
	var ad models.Ad
	if err := h.db.First(&ad, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found"})
		return
	}

	if err := h.engine.PlayAdByID(ad.ID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Ad started"})
}
