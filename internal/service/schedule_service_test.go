package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/faculty-leave-api/internal/models"
)

type lectureRepoMock struct {
	templates []models.LectureTemplate
}

func (m *lectureRepoMock) ListAll(ctx context.Context) ([]models.LectureTemplate, error) {
	return m.templates, nil
}

func (m *lectureRepoMock) FindByID(ctx context.Context, id string) (*models.LectureTemplate, error) {
	for i := range m.templates {
		if m.templates[i].ID == id {
			return &m.templates[i], nil
		}
	}
	return nil, assert.AnError
}

func (m *lectureRepoMock) Create(ctx context.Context, template *models.LectureTemplate) error {
	m.templates = append(m.templates, *template)
	return nil
}

func (m *lectureRepoMock) Update(ctx context.Context, template *models.LectureTemplate) error {
	return nil
}

func (m *lectureRepoMock) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *lectureRepoMock) ReplaceAll(ctx context.Context, templates []models.LectureTemplate) error {
	m.templates = templates
	return nil
}

func tmpl(id, day, at, email string) models.LectureTemplate {
	return models.LectureTemplate{
		ID:           id,
		Day:          day,
		Time:         at,
		Name:         "Lecture " + id,
		FacultyEmail: email,
		Subject:      "Subject " + id,
	}
}

func TestProjectMatchesFullAndShortWeekday(t *testing.T) {
	// 2025-03-02 is a Sunday; the 7-day window holds exactly one Monday
	start := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	templates := []models.LectureTemplate{
		tmpl("1", "Monday", "09:00", "a@x.edu"),
		tmpl("2", "mon", "11:00", "a@x.edu"),
		tmpl("3", "MONDAY ", "10:00", "a@x.edu"),
	}

	out := Project(templates, start, 7)
	require.Len(t, out, 3)
	for _, p := range out {
		assert.Equal(t, "2025-03-03", p.Date)
	}
	assert.Equal(t, "09:00", out[0].Time)
	assert.Equal(t, "10:00", out[1].Time)
	assert.Equal(t, "11:00", out[2].Time)
}

func TestProjectExcludesNonMatchingDays(t *testing.T) {
	start := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	templates := []models.LectureTemplate{
		tmpl("1", "Funday", "09:00", "a@x.edu"),
		tmpl("2", "mo", "09:00", "a@x.edu"),
		tmpl("3", "", "09:00", "a@x.edu"),
	}
	assert.Empty(t, Project(templates, start, 7))
}

func TestProjectRepeatsAcrossWeeks(t *testing.T) {
	start := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	templates := []models.LectureTemplate{tmpl("1", "Monday", "09:00", "a@x.edu")}

	out := Project(templates, start, 14)
	require.Len(t, out, 2)
	assert.Equal(t, "2025-03-03", out[0].Date)
	assert.Equal(t, "2025-03-10", out[1].Date)
}

func TestProjectSortsByDateThenTime(t *testing.T) {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC) // Monday
	templates := []models.LectureTemplate{
		tmpl("1", "Tuesday", "08:00", "a@x.edu"),
		tmpl("2", "Monday", "14:00", "a@x.edu"),
		tmpl("3", "Monday", "09:00", "a@x.edu"),
		tmpl("4", "Monday", "", "a@x.edu"),
	}

	out := Project(templates, start, 2)
	require.Len(t, out, 4)
	// empty time sorts first within its date
	assert.Equal(t, "", out[0].Time)
	assert.Equal(t, "09:00", out[1].Time)
	assert.Equal(t, "14:00", out[2].Time)
	assert.Equal(t, "2025-03-04", out[3].Date)
}

func TestProjectIsIdempotent(t *testing.T) {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	templates := []models.LectureTemplate{
		tmpl("1", "Monday", "09:00", "a@x.edu"),
		tmpl("2", "Wednesday", "11:00", "b@x.edu"),
	}

	first := Project(templates, start, 14)
	second := Project(templates, start, 14)
	assert.Equal(t, first, second)
}

func TestProjectionForEmail(t *testing.T) {
	repo := &lectureRepoMock{templates: []models.LectureTemplate{
		tmpl("1", "Monday", "09:00", "a@x.edu"),
		tmpl("2", "Monday", "10:00", "b@x.edu"),
	}}
	svc := NewScheduleService(repo, 14, nil, nil)

	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	out, err := svc.ProjectionForEmail(context.Background(), "A@X.EDU", start, 7)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a@x.edu", out[0].FacultyEmail)
}

func TestProjectionDefaultsWindow(t *testing.T) {
	repo := &lectureRepoMock{templates: []models.LectureTemplate{tmpl("1", "Monday", "09:00", "a@x.edu")}}
	svc := NewScheduleService(repo, 14, nil, nil)

	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	out, err := svc.Projection(context.Background(), start, 0)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestScheduleCreateValidates(t *testing.T) {
	svc := NewScheduleService(&lectureRepoMock{}, 14, nil, nil)

	_, err := svc.Create(context.Background(), LectureTemplateRequest{Day: "Monday"})
	require.Error(t, err)

	created, err := svc.Create(context.Background(), LectureTemplateRequest{
		Day:          " Monday ",
		Time:         "09:00",
		Name:         "Algorithms",
		FacultyEmail: "A@X.EDU",
		Subject:      "CS201",
	})
	require.NoError(t, err)
	assert.Equal(t, "Monday", created.Day)
	assert.Equal(t, "a@x.edu", created.FacultyEmail)
}
