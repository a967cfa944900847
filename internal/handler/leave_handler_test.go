package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/faculty-leave-api/internal/middleware"
	"github.com/campusops/faculty-leave-api/internal/models"
	"github.com/campusops/faculty-leave-api/internal/service"
	"github.com/campusops/faculty-leave-api/pkg/response"
)

type ledgerRepoStub struct {
	entries  []models.LedgerEntry
	inserted []models.LedgerEntry
	byEmail  []string
}

func (s *ledgerRepoStub) ListAll(ctx context.Context) ([]models.LedgerEntry, error) {
	return s.entries, nil
}

func (s *ledgerRepoStub) ListByEmail(ctx context.Context, email string) ([]models.LedgerEntry, error) {
	s.byEmail = append(s.byEmail, email)
	return s.entries, nil
}

func (s *ledgerRepoStub) FindByID(ctx context.Context, id string) (*models.LedgerEntry, error) {
	return &models.LedgerEntry{ID: id}, nil
}

func (s *ledgerRepoStub) InsertBatch(ctx context.Context, entries []models.LedgerEntry) error {
	s.inserted = append(s.inserted, entries...)
	return nil
}

func (s *ledgerRepoStub) Delete(ctx context.Context, id string) error {
	return nil
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestLeaveHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &ledgerRepoStub{}
	handler := NewLeaveHandler(service.NewLeaveService(repo, nil, nil, nil))

	payload, _ := json.Marshal(service.LeaveRequest{
		FacultyEmail: "jane.doe@college.edu",
		LeaveType:    models.LeaveEL,
		Session:      models.SessionFull,
		FromDate:     "2025-03-10",
		ToDate:       "2025-03-12",
	})
	c, w := newGinContext(http.MethodPost, "/leave/requests", payload)

	handler.Submit(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, repo.inserted, 3)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Error)
}

func TestLeaveHandlerSubmitRejectsInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewLeaveHandler(service.NewLeaveService(&ledgerRepoStub{}, nil, nil, nil))

	c, w := newGinContext(http.MethodPost, "/leave/requests", []byte("{not json"))
	handler.Submit(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	payload, _ := json.Marshal(service.LeaveRequest{
		FacultyEmail: "jane.doe@college.edu",
		LeaveType:    "XX",
		Session:      models.SessionFN,
		FromDate:     "2025-03-10",
	})
	c, w = newGinContext(http.MethodPost, "/leave/requests", payload)
	handler.Submit(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaveHandlerMyLedgerUsesTokenIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &ledgerRepoStub{}
	handler := NewLeaveHandler(service.NewLeaveService(repo, nil, nil, nil))

	c, w := newGinContext(http.MethodGet, "/me/leave", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Email: "jane.doe@college.edu", Role: models.RoleFaculty})

	handler.MyLedger(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"jane.doe@college.edu"}, repo.byEmail)
}

func TestLeaveHandlerMyLedgerWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewLeaveHandler(service.NewLeaveService(&ledgerRepoStub{}, nil, nil, nil))

	c, w := newGinContext(http.MethodGet, "/me/leave", nil)
	handler.MyLedger(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
