package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusops/faculty-leave-api/internal/models"
)

// LectureRepository manages persistence for weekly lecture templates.
type LectureRepository struct {
	db *sqlx.DB
}

// NewLectureRepository constructs a LectureRepository.
func NewLectureRepository(db *sqlx.DB) *LectureRepository {
	return &LectureRepository{db: db}
}

const lectureColumns = `id, day, "time", name, faculty_id, faculty_email, subject, room, created_at, updated_at`

// ListAll returns every template. Projection reads the full collection.
func (r *LectureRepository) ListAll(ctx context.Context) ([]models.LectureTemplate, error) {
	query := fmt.Sprintf("SELECT %s FROM lecture_templates ORDER BY day, \"time\"", lectureColumns)
	var templates []models.LectureTemplate
	if err := r.db.SelectContext(ctx, &templates, query); err != nil {
		return nil, fmt.Errorf("list lecture templates: %w", err)
	}
	return templates, nil
}

// FindByID fetches one template.
func (r *LectureRepository) FindByID(ctx context.Context, id string) (*models.LectureTemplate, error) {
	query := fmt.Sprintf("SELECT %s FROM lecture_templates WHERE id = $1", lectureColumns)
	var template models.LectureTemplate
	if err := r.db.GetContext(ctx, &template, query, id); err != nil {
		return nil, err
	}
	return &template, nil
}

// Create inserts one template.
func (r *LectureRepository) Create(ctx context.Context, template *models.LectureTemplate) error {
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	const query = `INSERT INTO lecture_templates (id, day, "time", name, faculty_id, faculty_email, subject, room, created_at, updated_at)
		VALUES (:id, :day, :time, :name, :faculty_id, :faculty_email, :subject, :room, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, template); err != nil {
		return fmt.Errorf("create lecture template: %w", err)
	}
	return nil
}

// Update modifies one template.
func (r *LectureRepository) Update(ctx context.Context, template *models.LectureTemplate) error {
	template.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lecture_templates SET day = :day, "time" = :time, name = :name, faculty_id = :faculty_id, faculty_email = :faculty_email, subject = :subject, room = :room, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, template); err != nil {
		return fmt.Errorf("update lecture template: %w", err)
	}
	return nil
}

// Delete removes one template.
func (r *LectureRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM lecture_templates WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete lecture template: %w", err)
	}
	return nil
}

// ReplaceAll clears the collection and repopulates it from a CSV upload,
// all in one transaction.
func (r *LectureRepository) ReplaceAll(ctx context.Context, templates []models.LectureTemplate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin lecture replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM lecture_templates"); err != nil {
		return fmt.Errorf("clear lecture templates: %w", err)
	}

	now := time.Now().UTC()
	const query = `INSERT INTO lecture_templates (id, day, "time", name, faculty_id, faculty_email, subject, room, created_at, updated_at)
		VALUES (:id, :day, :time, :name, :faculty_id, :faculty_email, :subject, :room, :created_at, :updated_at)`
	for i := range templates {
		if templates[i].ID == "" {
			templates[i].ID = uuid.NewString()
		}
		templates[i].CreatedAt = now
		templates[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, &templates[i]); err != nil {
			return fmt.Errorf("insert lecture template: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit lecture replace: %w", err)
	}
	return nil
}
