package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusops/faculty-leave-api/internal/models"
)

// InvigilationRepository manages persistence for exam invigilation duties.
type InvigilationRepository struct {
	db *sqlx.DB
}

// NewInvigilationRepository constructs an InvigilationRepository.
func NewInvigilationRepository(db *sqlx.DB) *InvigilationRepository {
	return &InvigilationRepository{db: db}
}

const invigilationColumns = `id, to_char(date, 'YYYY-MM-DD') AS date, "time", faculty_id, faculty_email, exam, room, created_at, updated_at`

// ListAll returns every duty ordered by date then time.
func (r *InvigilationRepository) ListAll(ctx context.Context) ([]models.InvigilationDuty, error) {
	query := fmt.Sprintf("SELECT %s FROM invigilation_duties ORDER BY date, \"time\"", invigilationColumns)
	var duties []models.InvigilationDuty
	if err := r.db.SelectContext(ctx, &duties, query); err != nil {
		return nil, fmt.Errorf("list invigilation duties: %w", err)
	}
	return duties, nil
}

// ListByEmail returns duties assigned to one faculty member.
func (r *InvigilationRepository) ListByEmail(ctx context.Context, email string) ([]models.InvigilationDuty, error) {
	query := fmt.Sprintf("SELECT %s FROM invigilation_duties WHERE LOWER(faculty_email) = LOWER($1) ORDER BY date, \"time\"", invigilationColumns)
	var duties []models.InvigilationDuty
	if err := r.db.SelectContext(ctx, &duties, query, email); err != nil {
		return nil, fmt.Errorf("list invigilation duties by email: %w", err)
	}
	return duties, nil
}

// FindByID fetches one duty.
func (r *InvigilationRepository) FindByID(ctx context.Context, id string) (*models.InvigilationDuty, error) {
	query := fmt.Sprintf("SELECT %s FROM invigilation_duties WHERE id = $1", invigilationColumns)
	var duty models.InvigilationDuty
	if err := r.db.GetContext(ctx, &duty, query, id); err != nil {
		return nil, err
	}
	return &duty, nil
}

// Create inserts one duty.
func (r *InvigilationRepository) Create(ctx context.Context, duty *models.InvigilationDuty) error {
	if duty.ID == "" {
		duty.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	duty.CreatedAt = now
	duty.UpdatedAt = now

	const query = `INSERT INTO invigilation_duties (id, date, "time", faculty_id, faculty_email, exam, room, created_at, updated_at)
		VALUES (:id, :date, :time, :faculty_id, :faculty_email, :exam, :room, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, duty); err != nil {
		return fmt.Errorf("create invigilation duty: %w", err)
	}
	return nil
}

// Update modifies one duty.
func (r *InvigilationRepository) Update(ctx context.Context, duty *models.InvigilationDuty) error {
	duty.UpdatedAt = time.Now().UTC()
	const query = `UPDATE invigilation_duties SET date = :date, "time" = :time, faculty_id = :faculty_id, faculty_email = :faculty_email, exam = :exam, room = :room, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, duty); err != nil {
		return fmt.Errorf("update invigilation duty: %w", err)
	}
	return nil
}

// Delete removes one duty.
func (r *InvigilationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM invigilation_duties WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete invigilation duty: %w", err)
	}
	return nil
}

// ReplaceAll clears the collection and repopulates it from a CSV upload.
func (r *InvigilationRepository) ReplaceAll(ctx context.Context, duties []models.InvigilationDuty) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin invigilation replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM invigilation_duties"); err != nil {
		return fmt.Errorf("clear invigilation duties: %w", err)
	}

	now := time.Now().UTC()
	const query = `INSERT INTO invigilation_duties (id, date, "time", faculty_id, faculty_email, exam, room, created_at, updated_at)
		VALUES (:id, :date, :time, :faculty_id, :faculty_email, :exam, :room, :created_at, :updated_at)`
	for i := range duties {
		if duties[i].ID == "" {
			duties[i].ID = uuid.NewString()
		}
		duties[i].CreatedAt = now
		duties[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, &duties[i]); err != nil {
			return fmt.Errorf("insert invigilation duty: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit invigilation replace: %w", err)
	}
	return nil
}
