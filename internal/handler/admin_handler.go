package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fixlab-academy-api/internal/models"
	"github.com/noah-isme/fixlab-academy-api/internal/service"
	appErrors "github.com/noah-isme/fixlab-academy-api/pkg/errors"
	"github.com/noah-isme/fixlab-academy-api/pkg/response"
)

type registrationAdmin interface {
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, *models.Pagination, error)
	Export(ctx context.Context, filter models.RegistrationFilter, format string) ([]byte, string, error)
}

type reminderRunner interface {
	SweepStalePending(ctx context.Context, threshold time.Duration) (*service.SweepResult, error)
}

// AdminHandler serves staff registration tooling.
type AdminHandler struct {
	registrations registrationAdmin
	reminders     reminderRunner
	now           func() time.Time
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(registrations registrationAdmin, reminders reminderRunner) *AdminHandler {
	return &AdminHandler{registrations: registrations, reminders: reminders, now: time.Now}
}

// ListRegistrations godoc
// @Summary List registrations
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, completed or failed"
// @Param email query string false "Student email"
// @Param course_id query string false "Course ID"
// @Param search query string false "Name or reference"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/registrations [get]
func (h *AdminHandler) ListRegistrations(c *gin.Context) {
	filter, err := registrationFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, pagination, err := h.registrations.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// ExportRegistrations godoc
// @Summary Export registrations
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /admin/registrations/export [get]
func (h *AdminHandler) ExportRegistrations(c *gin.Context) {
	filter, err := registrationFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.registrations.Export(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	ext := "csv"
	if contentType == "application/pdf" {
		ext = "pdf"
	}
	filename := fmt.Sprintf("registrations-%s.%s", h.now().UTC().Format("20060102-150405"), ext)
	response.File(c, filename, contentType, payload)
}

// SweepReminders godoc
// @Summary Send pending payment reminders now
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param threshold query string false "Go duration, e.g. 96h"
// @Success 200 {object} response.Envelope
// @Router /admin/reminders/sweep [post]
func (h *AdminHandler) SweepReminders(c *gin.Context) {
	var threshold time.Duration
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, appErrors.Validation("invalid threshold", map[string]string{"threshold": "must be a positive duration such as 96h"}))
			return
		}
		threshold = parsed
	}
	result, err := h.reminders.SweepStalePending(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func registrationFilter(c *gin.Context) (models.RegistrationFilter, error) {
	filter := models.RegistrationFilter{
		Email:    c.Query("email"),
		CourseID: c.Query("course_id"),
		Search:   c.Query("search"),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.PaymentStatus(raw)
		switch status {
		case models.PaymentPending, models.PaymentCompleted, models.PaymentFailed:
			filter.Status = &status
		default:
			return filter, appErrors.Validation("invalid filter", map[string]string{"status": "must be one of [pending completed failed]"})
		}
	}
	return filter, nil
}

func queryInt(c *gin.Context, key string) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return value
}
