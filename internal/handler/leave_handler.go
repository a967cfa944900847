package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusops/faculty-leave-api/internal/service"
	appErrors "github.com/campusops/faculty-leave-api/pkg/errors"
	"github.com/campusops/faculty-leave-api/pkg/response"
)

// LeaveHandler exposes leave request submission and the raw ledger.
type LeaveHandler struct {
	leave *service.LeaveService
}

// NewLeaveHandler constructs a LeaveHandler.
func NewLeaveHandler(leave *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leave: leave}
}

// Submit godoc
// @Summary Submit a leave request
// @Description Expands the date range into per-day ledger entries and notifies the faculty member.
// @Tags Leave
// @Accept json
// @Produce json
// @Param payload body service.LeaveRequest true "Leave request"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /leave/requests [post]
func (h *LeaveHandler) Submit(c *gin.Context) {
	var req service.LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid leave request payload"))
		return
	}
	entries, err := h.leave.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entries)
}

// Ledger godoc
// @Summary List ledger entries
// @Tags Leave
// @Produce json
// @Param email query string false "Filter by faculty email"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /leave/ledger [get]
func (h *LeaveHandler) Ledger(c *gin.Context) {
	var (
		entries interface{}
		err     error
	)
	if email := c.Query("email"); email != "" {
		entries, err = h.leave.ListByEmail(c.Request.Context(), email)
	} else {
		entries, err = h.leave.ListAll(c.Request.Context())
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// MyLedger godoc
// @Summary List the caller's own ledger entries
// @Tags Leave
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /me/leave [get]
func (h *LeaveHandler) MyLedger(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	entries, err := h.leave.ListByEmail(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Delete godoc
// @Summary Delete a ledger entry
// @Tags Leave
// @Param id path string true "Ledger entry ID"
// @Success 204
// @Security BearerAuth
// @Router /leave/ledger/{id} [delete]
func (h *LeaveHandler) Delete(c *gin.Context) {
	if err := h.leave.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func respondImportError(c *gin.Context, result *service.ImportResult, err error) {
	if result != nil && len(result.Errors) > 0 {
		appErr := appErrors.FromError(err)
		c.JSON(appErr.Status, response.Envelope{Error: appErr, Data: result})
		return
	}
	response.Error(c, err)
}
