package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fieldline/salesdesk/internal/middleware"
	"github.com/fieldline/salesdesk/internal/models"
)

type BusinessHoursHandler struct {
	db *gorm.DB
}

func NewBusinessHoursHandler(db *gorm.DB) *BusinessHoursHandler {
	return &BusinessHoursHandler{db: db}
}

type BusinessDayConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Active    bool   `json:"active"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type BusinessHoursUpdateRequest struct {
	Days []BusinessDayConfig `json:"days" binding:"required"`
}

func (h *BusinessHoursHandler) Get(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)

	var hours []models.BusinessHours
	if err := h.db.
		Where("staff_id = ?", staffID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_business_hours"})
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *BusinessHoursHandler) Update(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)

	var req BusinessHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	for _, d := range req.Days {
		if !d.Active {
			continue
		}
		if !validHM(d.OpenTime) || !validHM(d.CloseTime) || d.CloseTime <= d.OpenTime {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_window",
				"weekday": d.Weekday,
			})
			return
		}
	}

	if err := h.db.Where("staff_id = ?", staffID).Delete(&models.BusinessHours{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_clear_existing_hours"})
		return
	}

	var toCreate []models.BusinessHours
	for _, d := range req.Days {
		toCreate = append(toCreate, models.BusinessHours{
			StaffID:   staffID,
			Weekday:   d.Weekday,
			Active:    d.Active,
			OpenTime:  d.OpenTime,
			CloseTime: d.CloseTime,
		})
	}

	if len(toCreate) > 0 {
		if err := h.db.Create(&toCreate).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_business_hours"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func validHM(hm string) bool {
	_, err := time.Parse("15:04", hm)
	return err == nil
}
