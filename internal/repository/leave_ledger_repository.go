package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusops/faculty-leave-api/internal/models"
)

// LeaveLedgerRepository manages persistence for leave ledger entries.
type LeaveLedgerRepository struct {
	db *sqlx.DB
}

// NewLeaveLedgerRepository constructs a LeaveLedgerRepository.
func NewLeaveLedgerRepository(db *sqlx.DB) *LeaveLedgerRepository {
	return &LeaveLedgerRepository{db: db}
}

const ledgerColumns = "id, faculty_email, faculty_key, leave_type, session, days, to_char(date, 'YYYY-MM-DD') AS date, reason, created_at"

// ListAll returns the full ledger. The balance report aggregates over the
// whole collection in memory.
func (r *LeaveLedgerRepository) ListAll(ctx context.Context) ([]models.LedgerEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM leave_ledger ORDER BY date", ledgerColumns)
	var entries []models.LedgerEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list leave ledger: %w", err)
	}
	return entries, nil
}

// ListByEmail returns entries for one faculty member, newest date first.
func (r *LeaveLedgerRepository) ListByEmail(ctx context.Context, email string) ([]models.LedgerEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM leave_ledger WHERE LOWER(faculty_email) = LOWER($1) ORDER BY date DESC, created_at DESC", ledgerColumns)
	var entries []models.LedgerEntry
	if err := r.db.SelectContext(ctx, &entries, query, email); err != nil {
		return nil, fmt.Errorf("list leave ledger by email: %w", err)
	}
	return entries, nil
}

// FindByID fetches a single ledger entry.
func (r *LeaveLedgerRepository) FindByID(ctx context.Context, id string) (*models.LedgerEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM leave_ledger WHERE id = $1", ledgerColumns)
	var entry models.LedgerEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// InsertBatch writes the expanded daily entries of one leave request in a
// single transaction, so a multi-day request commits all-or-nothing.
func (r *LeaveLedgerRepository) InsertBatch(ctx context.Context, entries []models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger insert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	const query = `INSERT INTO leave_ledger (id, faculty_email, faculty_key, leave_type, session, days, date, reason, created_at)
		VALUES (:id, :faculty_email, :faculty_key, :leave_type, :session, :days, :date, :reason, :created_at)`
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		if entries[i].CreatedAt.IsZero() {
			entries[i].CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, query, &entries[i]); err != nil {
			return fmt.Errorf("insert ledger entry %s: %w", entries[i].Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger insert: %w", err)
	}
	return nil
}

// Delete removes one ledger entry. Entries are never updated in place.
func (r *LeaveLedgerRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM leave_ledger WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete ledger entry: %w", err)
	}
	return nil
}
