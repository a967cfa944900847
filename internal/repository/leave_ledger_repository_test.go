package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/faculty-leave-api/internal/models"
)

func ledgerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "faculty_email", "faculty_key", "leave_type", "session", "days", "date", "reason", "created_at",
	})
}

func TestLeaveLedgerRepositoryListByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveLedgerRepository(db)

	rows := ledgerRows().
		AddRow("l2", "anna@college.edu", "anna_college_edu", "CL", "FULL", "1", "2025-03-11", "", time.Now()).
		AddRow("l1", "anna@college.edu", "anna_college_edu", "CL", "FULL", "1", "2025-03-10", "", time.Now())
	mock.ExpectQuery("SELECT .+ FROM leave_ledger WHERE LOWER\\(faculty_email\\) = LOWER\\(\\$1\\) ORDER BY date DESC").
		WithArgs("anna@college.edu").
		WillReturnRows(rows)

	entries, err := repo.ListByEmail(context.Background(), "anna@college.edu")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// DATE is selected as an ISO string so it sorts and compares lexically
	assert.Equal(t, "2025-03-11", entries[0].Date)
	assert.True(t, entries[0].Days.Equal(decimal.NewFromInt(1)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveLedgerRepositoryInsertBatchSingleTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveLedgerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO leave_ledger").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO leave_ledger").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO leave_ledger").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	entries := []models.LedgerEntry{
		{FacultyEmail: "a@x.edu", FacultyKey: "a_x_edu", LeaveType: models.LeaveEL, Session: models.SessionFull, Days: decimal.NewFromInt(1), Date: "2025-03-10"},
		{FacultyEmail: "a@x.edu", FacultyKey: "a_x_edu", LeaveType: models.LeaveEL, Session: models.SessionFull, Days: decimal.NewFromInt(1), Date: "2025-03-11"},
		{FacultyEmail: "a@x.edu", FacultyKey: "a_x_edu", LeaveType: models.LeaveEL, Session: models.SessionFull, Days: decimal.NewFromInt(1), Date: "2025-03-12"},
	}
	require.NoError(t, repo.InsertBatch(context.Background(), entries))
	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.CreatedAt.IsZero())
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveLedgerRepositoryInsertBatchAbortsMidway(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveLedgerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO leave_ledger").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO leave_ledger").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	entries := []models.LedgerEntry{
		{FacultyEmail: "a@x.edu", Date: "2025-03-10"},
		{FacultyEmail: "a@x.edu", Date: "2025-03-11"},
	}
	require.Error(t, repo.InsertBatch(context.Background(), entries))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveLedgerRepositoryInsertBatchEmptyIsNoop(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveLedgerRepository(db)

	require.NoError(t, repo.InsertBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveLedgerRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveLedgerRepository(db)

	mock.ExpectExec("DELETE FROM leave_ledger WHERE id = \\$1").
		WithArgs("l1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "l1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
