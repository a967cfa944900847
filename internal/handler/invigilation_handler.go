package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusops/faculty-leave-api/internal/service"
	appErrors "github.com/campusops/faculty-leave-api/pkg/errors"
	"github.com/campusops/faculty-leave-api/pkg/response"
)

// InvigilationHandler manages exam invigilation duty assignments.
type InvigilationHandler struct {
	duties  *service.InvigilationService
	imports *service.ImportService
	metrics *service.MetricsService
}

// NewInvigilationHandler constructs an InvigilationHandler.
func NewInvigilationHandler(duties *service.InvigilationService, imports *service.ImportService, metrics *service.MetricsService) *InvigilationHandler {
	return &InvigilationHandler{duties: duties, imports: imports, metrics: metrics}
}

// List godoc
// @Summary List invigilation duties
// @Tags Invigilation
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /invigilation [get]
func (h *InvigilationHandler) List(c *gin.Context) {
	duties, err := h.duties.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, duties, nil)
}

// Create godoc
// @Summary Create an invigilation duty
// @Tags Invigilation
// @Accept json
// @Produce json
// @Param payload body service.InvigilationDutyRequest true "Invigilation duty"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /invigilation [post]
func (h *InvigilationHandler) Create(c *gin.Context) {
	var req service.InvigilationDutyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid invigilation payload"))
		return
	}
	duty, err := h.duties.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, duty)
}

// Update godoc
// @Summary Update an invigilation duty
// @Tags Invigilation
// @Accept json
// @Produce json
// @Param id path string true "Duty ID"
// @Param payload body service.InvigilationDutyRequest true "Invigilation duty"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /invigilation/{id} [put]
func (h *InvigilationHandler) Update(c *gin.Context) {
	var req service.InvigilationDutyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid invigilation payload"))
		return
	}
	duty, err := h.duties.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, duty, nil)
}

// Delete godoc
// @Summary Delete an invigilation duty
// @Tags Invigilation
// @Param id path string true "Duty ID"
// @Success 204
// @Security BearerAuth
// @Router /invigilation/{id} [delete]
func (h *InvigilationHandler) Delete(c *gin.Context) {
	if err := h.duties.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// MyDuties godoc
// @Summary Invigilation duties for the authenticated faculty member
// @Tags Invigilation
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /me/invigilation [get]
func (h *InvigilationHandler) MyDuties(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	duties, err := h.duties.ListByEmail(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, duties, nil)
}

// Import godoc
// @Summary Upload the invigilation duty CSV
// @Tags Invigilation
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /invigilation/import [post]
func (h *InvigilationHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing csv file"))
		return
	}
	defer file.Close()

	result, err := h.imports.ImportInvigilation(c.Request.Context(), file)
	if h.metrics != nil && result != nil {
		h.metrics.ObserveImport("invigilation", result.Imported, len(result.Errors))
	}
	if err != nil {
		respondImportError(c, result, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
