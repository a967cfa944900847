package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusops/faculty-leave-api/internal/service"
	appErrors "github.com/campusops/faculty-leave-api/pkg/errors"
	"github.com/campusops/faculty-leave-api/pkg/response"
)

// LectureHandler manages lecture templates and the projected schedule.
type LectureHandler struct {
	schedule *service.ScheduleService
	imports  *service.ImportService
	metrics  *service.MetricsService
}

// NewLectureHandler constructs a LectureHandler.
func NewLectureHandler(schedule *service.ScheduleService, imports *service.ImportService, metrics *service.MetricsService) *LectureHandler {
	return &LectureHandler{schedule: schedule, imports: imports, metrics: metrics}
}

// List godoc
// @Summary List lecture templates
// @Tags Lectures
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /lectures [get]
func (h *LectureHandler) List(c *gin.Context) {
	templates, err := h.schedule.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, templates, nil)
}

// Create godoc
// @Summary Create a lecture template
// @Tags Lectures
// @Accept json
// @Produce json
// @Param payload body service.LectureTemplateRequest true "Lecture template"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /lectures [post]
func (h *LectureHandler) Create(c *gin.Context) {
	var req service.LectureTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lecture payload"))
		return
	}
	template, err := h.schedule.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, template)
}

// Update godoc
// @Summary Update a lecture template
// @Tags Lectures
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param payload body service.LectureTemplateRequest true "Lecture template"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /lectures/{id} [put]
func (h *LectureHandler) Update(c *gin.Context) {
	var req service.LectureTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lecture payload"))
		return
	}
	template, err := h.schedule.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}

// Delete godoc
// @Summary Delete a lecture template
// @Tags Lectures
// @Param id path string true "Template ID"
// @Success 204
// @Security BearerAuth
// @Router /lectures/{id} [delete]
func (h *LectureHandler) Delete(c *gin.Context) {
	if err := h.schedule.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Projection godoc
// @Summary Project lecture templates onto concrete dates
// @Description Expands weekly templates into dated lectures over the requested window.
// @Tags Lectures
// @Produce json
// @Param start query string false "Window start (YYYY-MM-DD, defaults to today)"
// @Param days query int false "Window length in days"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /lectures/projection [get]
func (h *LectureHandler) Projection(c *gin.Context) {
	start, days, err := projectionWindow(c, h.schedule.WindowDays())
	if err != nil {
		response.Error(c, err)
		return
	}
	lectures, err := h.schedule.Projection(c.Request.Context(), start, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lectures, nil)
}

// MySchedule godoc
// @Summary Projected schedule for the authenticated faculty member
// @Tags Lectures
// @Produce json
// @Param start query string false "Window start (YYYY-MM-DD, defaults to today)"
// @Param days query int false "Window length in days"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /me/schedule [get]
func (h *LectureHandler) MySchedule(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start, days, err := projectionWindow(c, h.schedule.WindowDays())
	if err != nil {
		response.Error(c, err)
		return
	}
	lectures, err := h.schedule.ProjectionForEmail(c.Request.Context(), claims.Email, start, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lectures, nil)
}

// Import godoc
// @Summary Upload the lecture schedule CSV
// @Description Validates every row first; any error rejects the whole file and the existing templates are kept.
// @Tags Lectures
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /lectures/import [post]
func (h *LectureHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing csv file"))
		return
	}
	defer file.Close()

	result, err := h.imports.ImportLectures(c.Request.Context(), file)
	if h.metrics != nil && result != nil {
		h.metrics.ObserveImport("lectures", result.Imported, len(result.Errors))
	}
	if err != nil {
		respondImportError(c, result, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func projectionWindow(c *gin.Context, defaultDays int) (time.Time, int, error) {
	start := time.Now()
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return time.Time{}, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "start must be YYYY-MM-DD")
		}
		start = parsed
	}
	days := defaultDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return time.Time{}, 0, appErrors.Clone(appErrors.ErrValidation, "days must be a positive integer")
		}
		days = parsed
	}
	return start, days, nil
}
