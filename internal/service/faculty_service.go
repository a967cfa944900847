package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusops/faculty-leave-api/internal/facultykey"
	"github.com/campusops/faculty-leave-api/internal/models"
	appErrors "github.com/campusops/faculty-leave-api/pkg/errors"
)

type facultyRepository interface {
	ListAll(ctx context.Context) ([]models.FacultyMaster, error)
	FindByKey(ctx context.Context, key string) (*models.FacultyMaster, error)
	Upsert(ctx context.Context, record *models.FacultyMaster) error
	Delete(ctx context.Context, key string) error
}

// SaveFacultyRequest is the payload for saving one master record.
// Entitlements default to zero when omitted.
type SaveFacultyRequest struct {
	EmployeeID   string  `json:"employee_id" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Department   string  `json:"department" validate:"required"`
	FacultyEmail string  `json:"faculty_email" validate:"required,email"`
	CL           float64 `json:"cl" validate:"gte=0"`
	EL           float64 `json:"el" validate:"gte=0"`
	HPL          float64 `json:"hpl" validate:"gte=0"`
	OD           float64 `json:"od" validate:"gte=0"`
	CCL          float64 `json:"ccl" validate:"gte=0"`
	LOP          float64 `json:"lop" validate:"gte=0"`
	ML           float64 `json:"ml" validate:"gte=0"`
	TotalLeaves  float64 `json:"total_leaves" validate:"gte=0"`
}

// FacultyService owns the master entitlement records.
type FacultyService struct {
	repo      facultyRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacultyService constructs a FacultyService.
func NewFacultyService(repo facultyRepository, validate *validator.Validate, logger *zap.Logger) *FacultyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyService{repo: repo, validator: validate, logger: logger}
}

// List returns all master records.
func (s *FacultyService) List(ctx context.Context) ([]models.FacultyMaster, error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	return records, nil
}

// Get fetches one master record by sanitized key.
func (s *FacultyService) Get(ctx context.Context, key string) (*models.FacultyMaster, error) {
	record, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty record")
	}
	return record, nil
}

// Save writes one master record wholesale. The storage key is derived from
// the email, so two emails that sanitize identically overwrite each other;
// last write wins while created_at survives.
func (s *FacultyService) Save(ctx context.Context, req SaveFacultyRequest) (*models.FacultyMaster, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}

	record := MasterFromRequest(req)
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save faculty record")
	}
	return record, nil
}

// Delete removes one master record by key.
func (s *FacultyService) Delete(ctx context.Context, key string) error {
	if _, err := s.repo.FindByKey(ctx, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "faculty record not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty record")
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete faculty record")
	}
	return nil
}

// MasterFromRequest builds a master record from a save request, deriving
// the storage key from the lowercased email.
func MasterFromRequest(req SaveFacultyRequest) *models.FacultyMaster {
	email := strings.ToLower(strings.TrimSpace(req.FacultyEmail))
	return &models.FacultyMaster{
		FacultyKey:   facultykey.Encode(email),
		EmployeeID:   strings.TrimSpace(req.EmployeeID),
		Name:         strings.TrimSpace(req.Name),
		Department:   strings.TrimSpace(req.Department),
		FacultyEmail: email,
		CL:           decimalFromFloat(req.CL),
		EL:           decimalFromFloat(req.EL),
		HPL:          decimalFromFloat(req.HPL),
		OD:           decimalFromFloat(req.OD),
		CCL:          decimalFromFloat(req.CCL),
		LOP:          decimalFromFloat(req.LOP),
		ML:           decimalFromFloat(req.ML),
		TotalLeaves:  decimalFromFloat(req.TotalLeaves),
	}
}
