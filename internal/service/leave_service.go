package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/campusops/faculty-leave-api/internal/facultykey"
	"github.com/campusops/faculty-leave-api/internal/models"
	appErrors "github.com/campusops/faculty-leave-api/pkg/errors"
	"github.com/campusops/faculty-leave-api/pkg/notify"
)

type leaveLedgerRepository interface {
	ListAll(ctx context.Context) ([]models.LedgerEntry, error)
	ListByEmail(ctx context.Context, email string) ([]models.LedgerEntry, error)
	FindByID(ctx context.Context, id string) (*models.LedgerEntry, error)
	InsertBatch(ctx context.Context, entries []models.LedgerEntry) error
	Delete(ctx context.Context, id string) error
}

// LeaveRequest is a leave submission spanning an inclusive date range. When
// ToDate is empty it defaults to FromDate. Sessions other than FN/AN/FULL
// must carry an explicit positive Days value.
type LeaveRequest struct {
	FacultyEmail string           `json:"faculty_email" validate:"required,email"`
	LeaveType    models.LeaveType `json:"leave_type" validate:"required"`
	Session      models.Session   `json:"session" validate:"required"`
	FromDate     string           `json:"from_date" validate:"required"`
	ToDate       string           `json:"to_date"`
	Reason       string           `json:"reason"`
	Days         *float64         `json:"days"`
}

// LeaveService expands leave requests into daily ledger entries and owns the
// ledger lifecycle.
type LeaveService struct {
	repo      leaveLedgerRepository
	gateway   notify.Gateway
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeaveService constructs a LeaveService.
func NewLeaveService(repo leaveLedgerRepository, gateway notify.Gateway, validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if gateway == nil {
		gateway = notify.Noop{}
	}
	return &LeaveService{repo: repo, gateway: gateway, validator: validate, logger: logger}
}

// Expand turns a request into one ledger entry per calendar day in the
// inclusive [FromDate, ToDate] range. It performs all validation and writes
// nothing. For FN/AN sessions each entry carries 0.5 days, for FULL 1.0;
// any other session repeats the request's explicit Days value on every
// generated entry. That repetition (rather than dividing a total across the
// range) mirrors the entitlement sheet this system ingests.
func (s *LeaveService) Expand(req LeaveRequest) ([]models.LedgerEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave request")
	}
	if !req.LeaveType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidLeaveType, fmt.Sprintf("unrecognized leave type %q", req.LeaveType))
	}

	from, err := time.Parse(time.DateOnly, req.FromDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "from_date must be YYYY-MM-DD")
	}
	toRaw := req.ToDate
	if toRaw == "" {
		toRaw = req.FromDate
	}
	to, err := time.Parse(time.DateOnly, toRaw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "to_date must be YYYY-MM-DD")
	}
	if from.After(to) {
		return nil, appErrors.Clone(appErrors.ErrInvalidDateRange, "")
	}

	perDay, err := s.daysPerEntry(req)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.FacultyEmail))
	key := facultykey.Encode(email)

	var entries []models.LedgerEntry
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		entries = append(entries, models.LedgerEntry{
			FacultyEmail: email,
			FacultyKey:   key,
			LeaveType:    req.LeaveType,
			Session:      req.Session,
			Days:         perDay,
			Date:         d.Format(time.DateOnly),
			Reason:       req.Reason,
		})
	}
	return entries, nil
}

func (s *LeaveService) daysPerEntry(req LeaveRequest) (decimal.Decimal, error) {
	switch req.Session {
	case models.SessionFN, models.SessionAN:
		return decimal.NewFromFloat(0.5), nil
	case models.SessionFull:
		return decimal.NewFromInt(1), nil
	}
	if req.Days == nil || *req.Days <= 0 {
		return decimal.Zero, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("session %q requires an explicit positive days value", req.Session))
	}
	return decimal.NewFromFloat(*req.Days), nil
}

// Submit validates and expands a request, commits the daily entries in one
// transaction, and notifies the faculty member once per request. Delivery
// failure never fails the submission.
func (s *LeaveService) Submit(ctx context.Context, req LeaveRequest) ([]models.LedgerEntry, error) {
	entries, err := s.Expand(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.InsertBatch(ctx, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record leave request")
	}

	payload := notify.Payload{
		Title: "Leave recorded",
		Body:  fmt.Sprintf("%s leave recorded for %d day(s) starting %s", req.LeaveType, len(entries), entries[0].Date),
	}
	if delivered, err := s.gateway.Notify(ctx, entries[0].FacultyEmail, payload); err != nil || !delivered {
		s.logger.Warn("leave notification not delivered",
			zap.String("faculty_email", entries[0].FacultyEmail),
			zap.Error(err),
		)
	}

	return entries, nil
}

// ListByEmail returns the leave history for one faculty member, newest
// first.
func (s *LeaveService) ListByEmail(ctx context.Context, email string) ([]models.LedgerEntry, error) {
	entries, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave entries")
	}
	return entries, nil
}

// ListAll returns the full ledger.
func (s *LeaveService) ListAll(ctx context.Context) ([]models.LedgerEntry, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave ledger")
	}
	return entries, nil
}

// Delete removes one ledger entry. Ledger rows are immutable; admin delete
// plus resubmission is the only correction path.
func (s *LeaveService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "ledger entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ledger entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete ledger entry")
	}
	return nil
}
