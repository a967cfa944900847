package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusops/faculty-leave-api/internal/models"
	appErrors "github.com/campusops/faculty-leave-api/pkg/errors"
)

type invigilationRepository interface {
	ListAll(ctx context.Context) ([]models.InvigilationDuty, error)
	ListByEmail(ctx context.Context, email string) ([]models.InvigilationDuty, error)
	FindByID(ctx context.Context, id string) (*models.InvigilationDuty, error)
	Create(ctx context.Context, duty *models.InvigilationDuty) error
	Update(ctx context.Context, duty *models.InvigilationDuty) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, duties []models.InvigilationDuty) error
}

// InvigilationDutyRequest is the payload for creating or updating a duty.
// Each duty is already a concrete dated instance, no recurrence applies.
type InvigilationDutyRequest struct {
	Date         string `json:"date" validate:"required"`
	Time         string `json:"time" validate:"required"`
	FacultyID    string `json:"faculty_id"`
	FacultyEmail string `json:"faculty_email" validate:"required,email"`
	Exam         string `json:"exam" validate:"required"`
	Room         string `json:"room"`
}

// InvigilationService owns exam invigilation assignments.
type InvigilationService struct {
	repo      invigilationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInvigilationService constructs an InvigilationService.
func NewInvigilationService(repo invigilationRepository, validate *validator.Validate, logger *zap.Logger) *InvigilationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvigilationService{repo: repo, validator: validate, logger: logger}
}

// List returns all duties.
func (s *InvigilationService) List(ctx context.Context) ([]models.InvigilationDuty, error) {
	duties, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list invigilation duties")
	}
	return duties, nil
}

// ListByEmail returns a faculty member's duties.
func (s *InvigilationService) ListByEmail(ctx context.Context, email string) ([]models.InvigilationDuty, error) {
	duties, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list invigilation duties")
	}
	return duties, nil
}

// Create adds one duty.
func (s *InvigilationService) Create(ctx context.Context, req InvigilationDutyRequest) (*models.InvigilationDuty, error) {
	duty, err := s.dutyFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, duty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create invigilation duty")
	}
	return duty, nil
}

// Update modifies one duty.
func (s *InvigilationService) Update(ctx context.Context, id string, req InvigilationDutyRequest) (*models.InvigilationDuty, error) {
	updated, err := s.dutyFromRequest(req)
	if err != nil {
		return nil, err
	}

	duty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invigilation duty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invigilation duty")
	}

	duty.Date = updated.Date
	duty.Time = updated.Time
	duty.FacultyID = updated.FacultyID
	duty.FacultyEmail = updated.FacultyEmail
	duty.Exam = updated.Exam
	duty.Room = updated.Room

	if err := s.repo.Update(ctx, duty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update invigilation duty")
	}
	return duty, nil
}

// Delete removes one duty.
func (s *InvigilationService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "invigilation duty not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invigilation duty")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete invigilation duty")
	}
	return nil
}

func (s *InvigilationService) dutyFromRequest(req InvigilationDutyRequest) (*models.InvigilationDuty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid invigilation payload")
	}
	if _, err := time.Parse(time.DateOnly, req.Date); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}

	return &models.InvigilationDuty{
		Date:         req.Date,
		Time:         strings.TrimSpace(req.Time),
		FacultyID:    strings.TrimSpace(req.FacultyID),
		FacultyEmail: strings.ToLower(strings.TrimSpace(req.FacultyEmail)),
		Exam:         strings.TrimSpace(req.Exam),
		Room:         strings.TrimSpace(req.Room),
	}, nil
}
