package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NewTime-Creator/radio-app/internal/models"
)

// ScheduleHandler manages when ads fire. Mutations reload the engine's
// schedule mirror.
type ScheduleHandler struct {
	db     *gorm.DB
	engine Engine
}

func NewScheduleHandler(db *gorm.DB, engine Engine) *ScheduleHandler {
	return &ScheduleHandler{db: db, engine: engine}
}

// GetSchedule lists all entries with their ads joined, ordered by
// time of day.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	var schedules []models.AdSchedule
	if err := h.db.Preload("Ad").Order("scheduled_time").Find(&schedules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// CreateSchedule adds a trigger: one HH:MM time of day plus a non-empty
// set of ISO weekdays (Mon=1..Sun=7; 0 is accepted as Sunday).
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var input struct {
		AdID          uint   `json:"ad_id" binding:"required"`
		ScheduledTime string `json:"scheduled_time" binding:"required"`
		DaysOfWeek    []int  `json:"days_of_week" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := time.Parse("15:04", input.ScheduledTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_time must be HH:MM (24h)"})
		return
	}
	for _, d := range input.DaysOfWeek {
		if d < 0 || d > 7 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days_of_week entries must be 0-7"})
			return
		}
	}

	var ad models.Ad
	if err := h.db.First(&ad, input.AdID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found"})
		return
	}

	sched := models.AdSchedule{
		AdID:          input.AdID,
		ScheduledTime: input.ScheduledTime,
		Days:          models.JoinDays(input.DaysOfWeek),
		IsActive:      true,
	}
	if err := h.db.Create(&sched).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule"})
		return
	}
	sched.Ad = ad

	h.engine.ReloadSchedule()
	c.JSON(http.StatusCreated, sched)
}

// DeleteSchedule removes a trigger.
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	result := h.db.Delete(&models.AdSchedule{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete schedule"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}

	h.engine.ReloadSchedule()
	c.JSON(http.StatusOK, gin.H{"success": true})
}
