package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusops/faculty-leave-api/internal/models"
	"github.com/campusops/faculty-leave-api/internal/service"
	"github.com/campusops/faculty-leave-api/pkg/response"
)

// ReportHandler serves the leave-balance report and its downloads.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// LeaveBalance godoc
// @Summary Leave balance report for all faculty
// @Description Entitlements minus availed days per leave type, one row per faculty member.
// @Tags Reports
// @Produce json
// @Param department query string false "Exact department filter"
// @Param email query string false "Email substring filter"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reports/leave-balance [get]
func (h *ReportHandler) LeaveBalance(c *gin.Context) {
	filter := models.FacultyFilter{
		Department: c.Query("department"),
		Email:      c.Query("email"),
	}
	rows, err := h.reports.BuildReport(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Export godoc
// @Summary Download the leave balance report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param department query string false "Exact department filter"
// @Param email query string false "Email substring filter"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /reports/leave-balance/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	filter := models.FacultyFilter{
		Department: c.Query("department"),
		Email:      c.Query("email"),
	}
	format := c.DefaultQuery("format", "csv")

	out, contentType, err := h.reports.Export(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	ext := "csv"
	if strings.Contains(contentType, "pdf") {
		ext = "pdf"
	}
	filename := fmt.Sprintf("leave-balance-%s.%s", time.Now().Format("20060102"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, out)
}

// MyBalance godoc
// @Summary Leave balance for the authenticated faculty member
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /me/balance [get]
func (h *ReportHandler) MyBalance(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	row, err := h.reports.SelfRow(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, row, nil)
}
