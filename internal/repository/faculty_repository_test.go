package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/faculty-leave-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func facultyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"faculty_key", "employee_id", "name", "department", "faculty_email",
		"cl", "el", "hpl", "od", "ccl", "lop", "ml", "total_leaves",
		"created_at", "updated_at",
	})
}

func TestFacultyRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	rows := facultyRows().
		AddRow("anna_college_edu", "E1", "Prof Anna", "CSE", "anna@college.edu",
			"12", "10", "5", "3", "2", "0", "0", "32", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT faculty_key, employee_id, name, department, faculty_email, cl, el, hpl, od, ccl, lop, ml, total_leaves, created_at, updated_at FROM faculty_leave_master ORDER BY LOWER(faculty_email)")).
		WillReturnRows(rows)

	records, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "anna_college_edu", records[0].FacultyKey)
	assert.True(t, records[0].CL.Equal(decimal.NewFromInt(12)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryFindByKey(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	rows := facultyRows().
		AddRow("anna_college_edu", "E1", "Prof Anna", "CSE", "anna@college.edu",
			"12", "10", "5", "3", "2", "0", "0", "32", time.Now(), time.Now())
	mock.ExpectQuery("SELECT .+ FROM faculty_leave_master WHERE faculty_key = \\$1").
		WithArgs("anna_college_edu").
		WillReturnRows(rows)

	record, err := repo.FindByKey(context.Background(), "anna_college_edu")
	require.NoError(t, err)
	assert.Equal(t, "anna@college.edu", record.FacultyEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectExec("INSERT INTO faculty_leave_master").
		WillReturnResult(sqlmock.NewResult(0, 1))

	record := &models.FacultyMaster{
		FacultyKey:   "anna_college_edu",
		EmployeeID:   "E1",
		Name:         "Prof Anna",
		Department:   "CSE",
		FacultyEmail: "anna@college.edu",
		CL:           decimal.NewFromInt(12),
	}
	require.NoError(t, repo.Upsert(context.Background(), record))
	assert.False(t, record.CreatedAt.IsZero())
	assert.False(t, record.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryUpsertPreservesCreatedAt(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectExec("INSERT INTO faculty_leave_master").
		WillReturnResult(sqlmock.NewResult(0, 1))

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	record := &models.FacultyMaster{FacultyKey: "k", FacultyEmail: "a@x.edu", CreatedAt: created}
	require.NoError(t, repo.Upsert(context.Background(), record))
	assert.Equal(t, created, record.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryUpsertBatchRunsInOneTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO faculty_leave_master").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO faculty_leave_master").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	records := []models.FacultyMaster{
		{FacultyKey: "a_x_edu", FacultyEmail: "a@x.edu"},
		{FacultyKey: "b_x_edu", FacultyEmail: "b@x.edu"},
	}
	require.NoError(t, repo.UpsertBatch(context.Background(), records))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryUpsertBatchRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO faculty_leave_master").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO faculty_leave_master").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	records := []models.FacultyMaster{
		{FacultyKey: "a_x_edu", FacultyEmail: "a@x.edu"},
		{FacultyKey: "b_x_edu", FacultyEmail: "b@x.edu"},
	}
	require.Error(t, repo.UpsertBatch(context.Background(), records))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM faculty_leave_master WHERE faculty_key = $1")).
		WithArgs("anna_college_edu").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "anna_college_edu"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
