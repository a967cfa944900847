package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campusops/faculty-leave-api/internal/models"
)

// FacultyRepository manages persistence for faculty master records.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

const facultyColumns = "faculty_key, employee_id, name, department, faculty_email, cl, el, hpl, od, ccl, lop, ml, total_leaves, created_at, updated_at"

// ListAll returns every master record ordered by email. The balance report
// works over the full snapshot and filters in memory.
func (r *FacultyRepository) ListAll(ctx context.Context) ([]models.FacultyMaster, error) {
	query := fmt.Sprintf("SELECT %s FROM faculty_leave_master ORDER BY LOWER(faculty_email)", facultyColumns)
	var records []models.FacultyMaster
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list faculty master: %w", err)
	}
	return records, nil
}

// FindByKey fetches a master record by its sanitized key.
func (r *FacultyRepository) FindByKey(ctx context.Context, key string) (*models.FacultyMaster, error) {
	query := fmt.Sprintf("SELECT %s FROM faculty_leave_master WHERE faculty_key = $1", facultyColumns)
	var record models.FacultyMaster
	if err := r.db.GetContext(ctx, &record, query, key); err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert writes a master record wholesale. A colliding key is overwritten
// (last write wins) while created_at is preserved.
func (r *FacultyRepository) Upsert(ctx context.Context, record *models.FacultyMaster) error {
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO faculty_leave_master (faculty_key, employee_id, name, department, faculty_email, cl, el, hpl, od, ccl, lop, ml, total_leaves, created_at, updated_at)
		VALUES (:faculty_key, :employee_id, :name, :department, :faculty_email, :cl, :el, :hpl, :od, :ccl, :lop, :ml, :total_leaves, :created_at, :updated_at)
		ON CONFLICT (faculty_key) DO UPDATE SET
			employee_id = EXCLUDED.employee_id,
			name = EXCLUDED.name,
			department = EXCLUDED.department,
			faculty_email = EXCLUDED.faculty_email,
			cl = EXCLUDED.cl,
			el = EXCLUDED.el,
			hpl = EXCLUDED.hpl,
			od = EXCLUDED.od,
			ccl = EXCLUDED.ccl,
			lop = EXCLUDED.lop,
			ml = EXCLUDED.ml,
			total_leaves = EXCLUDED.total_leaves,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("upsert faculty master: %w", err)
	}
	return nil
}

// UpsertBatch writes multiple master records in one transaction. CSV import
// validates the full file first, so a failure here aborts the whole upload.
func (r *FacultyRepository) UpsertBatch(ctx context.Context, records []models.FacultyMaster) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin faculty upsert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	const query = `INSERT INTO faculty_leave_master (faculty_key, employee_id, name, department, faculty_email, cl, el, hpl, od, ccl, lop, ml, total_leaves, created_at, updated_at)
		VALUES (:faculty_key, :employee_id, :name, :department, :faculty_email, :cl, :el, :hpl, :od, :ccl, :lop, :ml, :total_leaves, :created_at, :updated_at)
		ON CONFLICT (faculty_key) DO UPDATE SET
			employee_id = EXCLUDED.employee_id,
			name = EXCLUDED.name,
			department = EXCLUDED.department,
			faculty_email = EXCLUDED.faculty_email,
			cl = EXCLUDED.cl,
			el = EXCLUDED.el,
			hpl = EXCLUDED.hpl,
			od = EXCLUDED.od,
			ccl = EXCLUDED.ccl,
			lop = EXCLUDED.lop,
			ml = EXCLUDED.ml,
			total_leaves = EXCLUDED.total_leaves,
			updated_at = EXCLUDED.updated_at`
	for i := range records {
		if records[i].CreatedAt.IsZero() {
			records[i].CreatedAt = now
		}
		records[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, &records[i]); err != nil {
			return fmt.Errorf("upsert faculty master %s: %w", records[i].FacultyKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit faculty upsert: %w", err)
	}
	return nil
}

// Delete removes a master record by key.
func (r *FacultyRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM faculty_leave_master WHERE faculty_key = $1", key); err != nil {
		return fmt.Errorf("delete faculty master: %w", err)
	}
	return nil
}
