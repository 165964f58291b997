package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fieldline/salesdesk/internal/config"
	"github.com/fieldline/salesdesk/internal/httperr"
	"github.com/fieldline/salesdesk/internal/httpresp"
	"github.com/fieldline/salesdesk/internal/middleware"
	"github.com/fieldline/salesdesk/internal/models"
	ucScheduling "github.com/fieldline/salesdesk/internal/usecase/scheduling"
)

// ======================================================
// HANDLER
// ======================================================

type SchedulingHandler struct {
	engine *ucScheduling.Engine
	db     *gorm.DB
	cfg    *config.Config
}

func NewSchedulingHandler(
	engine *ucScheduling.Engine,
	db *gorm.DB,
	cfg *config.Config,
) *SchedulingHandler {
	return &SchedulingHandler{
		engine: engine,
		db:     db,
		cfg:    cfg,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookAppointmentRequest struct {
	SubjectType string `json:"subject_type" binding:"required,oneof=lead customer project"`
	SubjectID   string `json:"subject_id" binding:"required"`

	StaffID uint `json:"staff_id" binding:"required"`

	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
	BufferMinutes   *int   `json:"buffer_minutes"`

	AppointmentType string `json:"appointment_type"`
	Notes           string `json:"notes"`

	RemindersEnabled bool  `json:"reminders_enabled"`
	ReminderOffsets  []int `json:"reminder_offsets"`
}

type RescheduleRequest struct {
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type CompleteRequest struct {
	OutcomeNotes string `json:"outcome_notes"`
}

// ======================================================
// BOOK
// ======================================================

func (h *SchedulingHandler) Book(c *gin.Context) {
	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid booking payload.")
		return
	}

	var staff models.StaffUser
	if err := h.db.First(&staff, req.StaffID).Error; err != nil {
		httperr.BadRequest(c, "staff_not_found", "Staff member not found.")
		return
	}

	start, err := parseDateTime(h.cfg, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	ap, err := h.engine.Book(c.Request.Context(), ucScheduling.BookInput{
		SubjectType:      req.SubjectType,
		SubjectID:        req.SubjectID,
		StaffID:          req.StaffID,
		Start:            start,
		DurationMinutes:  req.DurationMinutes,
		BufferMinutes:    h.resolveBuffer(req.BufferMinutes, &staff),
		AppointmentType:  req.AppointmentType,
		Notes:            req.Notes,
		RemindersEnabled: req.RemindersEnabled,
		ReminderOffsets:  req.ReminderOffsets,
	})
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *SchedulingHandler) Reschedule(c *gin.Context) {
	id := c.Param("id")

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid reschedule payload.")
		return
	}

	newStart, err := parseDateTime(h.cfg, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	successor, err := h.engine.Reschedule(c.Request.Context(), ucScheduling.RescheduleInput{
		AppointmentID:      id,
		NewStart:           newStart,
		NewDurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, successor)
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *SchedulingHandler) Confirm(c *gin.Context) {
	ap, err := h.engine.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

func (h *SchedulingHandler) Start(c *gin.Context) {
	ap, err := h.engine.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

func (h *SchedulingHandler) Complete(c *gin.Context) {
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	ap, err := h.engine.Complete(c.Request.Context(), c.Param("id"), req.OutcomeNotes)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

func (h *SchedulingHandler) Cancel(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	ap, err := h.engine.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

func (h *SchedulingHandler) MarkNoShow(c *gin.Context) {
	ap, err := h.engine.MarkNoShow(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

// ======================================================
// FREE SLOTS
// ======================================================

func (h *SchedulingHandler) FreeSlots(c *gin.Context) {
	staffID, err := strconv.ParseUint(c.Query("staff_id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_staff_id", "Invalid staff id.")
		return
	}

	date, err := parseDate(h.cfg, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	duration, err := strconv.Atoi(c.Query("duration_minutes"))
	if err != nil {
		httperr.BadRequest(c, "invalid_duration", "Invalid duration.")
		return
	}

	var staff models.StaffUser
	if err := h.db.First(&staff, uint(staffID)).Error; err != nil {
		httperr.BadRequest(c, "staff_not_found", "Staff member not found.")
		return
	}

	var bufferOverride *int
	if raw := c.Query("buffer_minutes"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_buffer", "Invalid buffer.")
			return
		}
		bufferOverride = &n
	}

	slots, err := h.engine.FreeSlots(c.Request.Context(), ucScheduling.FreeSlotsInput{
		StaffID:         uint(staffID),
		Date:            date,
		DurationMinutes: duration,
		BufferMinutes:   h.resolveBuffer(bufferOverride, &staff),
	})
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date.Format("2006-01-02"),
		"slots": slots,
	})
}

// ======================================================
// LIST
// ======================================================

func (h *SchedulingHandler) ListByDate(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)

	date, err := parseDate(h.cfg, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24 * time.Hour)

	var aps []models.Appointment
	if err := h.db.
		Where(
			"staff_id = ? AND scheduled_start >= ? AND scheduled_start < ?",
			staffID, start, end,
		).
		Order("scheduled_start ASC").
		Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	httpresp.List(c, aps)
}

func (h *SchedulingHandler) ListByMonth(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	loc := companyLocation(h.cfg)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	var aps []models.Appointment
	if err := h.db.
		Where(
			"staff_id = ? AND scheduled_start >= ? AND scheduled_start < ?",
			staffID, start, end,
		).
		Order("scheduled_start ASC").
		Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": aps,
	})
}

// ======================================================
// HELPERS
// ======================================================

func (h *SchedulingHandler) resolveBuffer(override *int, staff *models.StaffUser) int {
	if override != nil {
		return *override
	}
	if staff.DefaultBufferMinutes > 0 {
		return staff.DefaultBufferMinutes
	}
	return h.cfg.DefaultBufferMinutes
}

func writeSchedulingError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "invalid_duration"),
		httperr.IsBusiness(err, "invalid_buffer"),
		httperr.IsBusiness(err, "start_in_past"),
		httperr.IsBusiness(err, "out_of_business_hours"),
		httperr.IsBusiness(err, "invalid_transition"),
		httperr.IsBusiness(err, "already_terminal"),
		httperr.IsBusiness(err, "appointment_not_started"):
		httperr.BadRequest(c, businessCode(err), "Request rejected.")

	case httperr.IsBusiness(err, "slot_unavailable"),
		httperr.IsBusiness(err, "stale_version"):
		httperr.Conflict(c, businessCode(err), "Scheduling conflict, reload and retry.")

	case httperr.IsBusiness(err, "appointment_not_found"):
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")

	default:
		httperr.Internal(c, "scheduling_error", "Unexpected scheduling failure.")
	}
}

func businessCode(err error) string {
	return err.Error()
}
