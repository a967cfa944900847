package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusops/faculty-leave-api/internal/service"
	appErrors "github.com/campusops/faculty-leave-api/pkg/errors"
	"github.com/campusops/faculty-leave-api/pkg/response"
)

// FacultyHandler wires faculty master records to HTTP routes.
type FacultyHandler struct {
	faculty *service.FacultyService
	imports *service.ImportService
	metrics *service.MetricsService
}

// NewFacultyHandler constructs a FacultyHandler.
func NewFacultyHandler(faculty *service.FacultyService, imports *service.ImportService, metrics *service.MetricsService) *FacultyHandler {
	return &FacultyHandler{faculty: faculty, imports: imports, metrics: metrics}
}

// List godoc
// @Summary List faculty master records
// @Tags Faculty
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /faculty [get]
func (h *FacultyHandler) List(c *gin.Context) {
	records, err := h.faculty.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Get godoc
// @Summary Get one faculty master record
// @Tags Faculty
// @Produce json
// @Param key path string true "Faculty key"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /faculty/{key} [get]
func (h *FacultyHandler) Get(c *gin.Context) {
	record, err := h.faculty.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Save godoc
// @Summary Create or overwrite a faculty master record
// @Tags Faculty
// @Accept json
// @Produce json
// @Param payload body service.SaveFacultyRequest true "Faculty payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /faculty [put]
func (h *FacultyHandler) Save(c *gin.Context) {
	var req service.SaveFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid faculty payload"))
		return
	}
	record, err := h.faculty.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete a faculty master record
// @Tags Faculty
// @Param key path string true "Faculty key"
// @Success 204
// @Security BearerAuth
// @Router /faculty/{key} [delete]
func (h *FacultyHandler) Delete(c *gin.Context) {
	if err := h.faculty.Delete(c.Request.Context(), c.Param("key")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Import godoc
// @Summary Upload the faculty entitlement CSV
// @Tags Faculty
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /faculty/import [post]
func (h *FacultyHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing csv file"))
		return
	}
	defer file.Close()

	result, err := h.imports.ImportFaculty(c.Request.Context(), file)
	if h.metrics != nil && result != nil {
		h.metrics.ObserveImport("faculty", result.Imported, len(result.Errors))
	}
	if err != nil {
		respondImportError(c, result, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
