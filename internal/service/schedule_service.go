package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusops/faculty-leave-api/internal/models"
	appErrors "github.com/campusops/faculty-leave-api/pkg/errors"
)

type lectureRepository interface {
	ListAll(ctx context.Context) ([]models.LectureTemplate, error)
	FindByID(ctx context.Context, id string) (*models.LectureTemplate, error)
	Create(ctx context.Context, template *models.LectureTemplate) error
	Update(ctx context.Context, template *models.LectureTemplate) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, templates []models.LectureTemplate) error
}

// LectureTemplateRequest is the payload for creating or updating a template.
type LectureTemplateRequest struct {
	Day          string `json:"day" validate:"required"`
	Time         string `json:"time" validate:"required"`
	Name         string `json:"name" validate:"required"`
	FacultyID    string `json:"faculty_id"`
	FacultyEmail string `json:"faculty_email" validate:"required,email"`
	Subject      string `json:"subject" validate:"required"`
	Room         string `json:"room"`
}

// ScheduleService owns lecture templates and projects them into dated
// lecture instances for dashboard views.
type ScheduleService struct {
	repo       lectureRepository
	windowDays int
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewScheduleService constructs a ScheduleService. windowDays is the default
// projection window length.
func NewScheduleService(repo lectureRepository, windowDays int, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if windowDays <= 0 {
		windowDays = 14
	}
	return &ScheduleService{repo: repo, windowDays: windowDays, validator: validate, logger: logger}
}

// WindowDays exposes the configured default projection window.
func (s *ScheduleService) WindowDays() int {
	return s.windowDays
}

// Project expands weekly templates into dated instances over
// [start, start+windowDays). A template matches a date when its day field,
// lowercased and trimmed, equals the date's full weekday name or its
// 3-letter form. Templates whose day matches neither form are silently
// excluded. Output is sorted by (date, time) as strings; ISO dates and
// 24-hour times order correctly that way, and an empty time sorts first
// within its date. The projection is recomputed on every call and never
// stored.
func Project(templates []models.LectureTemplate, start time.Time, windowDays int) []models.ProjectedLecture {
	var out []models.ProjectedLecture
	for i := 0; i < windowDays; i++ {
		date := start.AddDate(0, 0, i)
		full := strings.ToLower(date.Weekday().String())
		abbr := full[:3]
		iso := date.Format(time.DateOnly)

		for _, t := range templates {
			day := strings.ToLower(strings.TrimSpace(t.Day))
			if day != full && day != abbr {
				continue
			}
			out = append(out, models.ProjectedLecture{
				TemplateID:   t.ID,
				Date:         iso,
				Day:          t.Day,
				Time:         t.Time,
				Name:         t.Name,
				FacultyID:    t.FacultyID,
				FacultyEmail: t.FacultyEmail,
				Subject:      t.Subject,
				Room:         t.Room,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})

	return out
}

// Projection fetches all templates and projects them from start over days.
// Non-positive days falls back to the configured window.
func (s *ScheduleService) Projection(ctx context.Context, start time.Time, days int) ([]models.ProjectedLecture, error) {
	if days <= 0 {
		days = s.windowDays
	}
	templates, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecture templates")
	}
	return Project(templates, start, days), nil
}

// ProjectionForEmail narrows the projection to one faculty member.
func (s *ScheduleService) ProjectionForEmail(ctx context.Context, email string, start time.Time, days int) ([]models.ProjectedLecture, error) {
	all, err := s.Projection(ctx, start, days)
	if err != nil {
		return nil, err
	}
	target := strings.ToLower(email)
	var out []models.ProjectedLecture
	for _, p := range all {
		if strings.ToLower(p.FacultyEmail) == target {
			out = append(out, p)
		}
	}
	return out, nil
}

// List returns every template.
func (s *ScheduleService) List(ctx context.Context) ([]models.LectureTemplate, error) {
	templates, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lecture templates")
	}
	return templates, nil
}

// Create adds one template.
func (s *ScheduleService) Create(ctx context.Context, req LectureTemplateRequest) (*models.LectureTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lecture payload")
	}

	template := &models.LectureTemplate{
		Day:          strings.TrimSpace(req.Day),
		Time:         strings.TrimSpace(req.Time),
		Name:         strings.TrimSpace(req.Name),
		FacultyID:    strings.TrimSpace(req.FacultyID),
		FacultyEmail: strings.ToLower(strings.TrimSpace(req.FacultyEmail)),
		Subject:      strings.TrimSpace(req.Subject),
		Room:         strings.TrimSpace(req.Room),
	}
	if err := s.repo.Create(ctx, template); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lecture template")
	}
	return template, nil
}

// Update modifies one template.
func (s *ScheduleService) Update(ctx context.Context, id string, req LectureTemplateRequest) (*models.LectureTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lecture payload")
	}

	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecture template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecture template")
	}

	template.Day = strings.TrimSpace(req.Day)
	template.Time = strings.TrimSpace(req.Time)
	template.Name = strings.TrimSpace(req.Name)
	template.FacultyID = strings.TrimSpace(req.FacultyID)
	template.FacultyEmail = strings.ToLower(strings.TrimSpace(req.FacultyEmail))
	template.Subject = strings.TrimSpace(req.Subject)
	template.Room = strings.TrimSpace(req.Room)

	if err := s.repo.Update(ctx, template); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lecture template")
	}
	return template, nil
}

// Delete removes one template.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "lecture template not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecture template")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lecture template")
	}
	return nil
}
