package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/faculty-leave-api/internal/facultykey"
	"github.com/campusops/faculty-leave-api/internal/models"
)

type facultyReaderMock struct {
	masters []models.FacultyMaster
	err     error
}

func (m *facultyReaderMock) ListAll(ctx context.Context) ([]models.FacultyMaster, error) {
	return m.masters, m.err
}

type ledgerReaderMock struct {
	entries []models.LedgerEntry
	err     error
}

func (m *ledgerReaderMock) ListAll(ctx context.Context) ([]models.LedgerEntry, error) {
	return m.entries, m.err
}

func master(email string, cl, el float64) models.FacultyMaster {
	return models.FacultyMaster{
		FacultyKey:   facultykey.Encode(email),
		EmployeeID:   "E-" + email,
		Name:         "Prof " + email,
		Department:   "CSE",
		FacultyEmail: email,
		CL:           decimal.NewFromFloat(cl),
		EL:           decimal.NewFromFloat(el),
	}
}

func entry(email string, lt models.LeaveType, days float64, date string) models.LedgerEntry {
	return models.LedgerEntry{
		FacultyEmail: email,
		FacultyKey:   facultykey.Encode(email),
		LeaveType:    lt,
		Session:      models.SessionFull,
		Days:         decimal.NewFromFloat(days),
		Date:         date,
	}
}

func TestReportReduceNoLedgerEqualsEntitlement(t *testing.T) {
	svc := NewReportService(nil, nil, 2, nil)

	rows := svc.Reduce([]models.FacultyMaster{master("a@x.edu", 12, 10)}, nil, models.FacultyFilter{})
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Balance[models.LeaveCL].Equal(decimal.NewFromInt(12)))
	assert.True(t, rows[0].Balance[models.LeaveEL].Equal(decimal.NewFromInt(10)))
	assert.True(t, rows[0].Availed[models.LeaveCL].IsZero())
}

func TestReportReduceSubtractsAvailedDays(t *testing.T) {
	svc := NewReportService(nil, nil, 2, nil)

	entries := []models.LedgerEntry{
		entry("a@x.edu", models.LeaveCL, 1, "2025-03-10"),
		entry("a@x.edu", models.LeaveCL, 0.5, "2025-03-11"),
		entry("a@x.edu", models.LeaveCL, 0.5, "2025-03-12"),
	}
	rows := svc.Reduce([]models.FacultyMaster{master("a@x.edu", 12, 10)}, entries, models.FacultyFilter{})
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Availed[models.LeaveCL].Equal(decimal.NewFromInt(2)))
	assert.True(t, rows[0].Balance[models.LeaveCL].Equal(decimal.NewFromInt(10)))
	assert.True(t, rows[0].Balance[models.LeaveEL].Equal(decimal.NewFromInt(10)))
}

func TestReportReduceExcludesMLFromSums(t *testing.T) {
	svc := NewReportService(nil, nil, 2, nil)

	entries := []models.LedgerEntry{
		entry("a@x.edu", models.LeaveML, 5, "2025-03-10"),
		entry("a@x.edu", models.LeaveCL, 1, "2025-03-11"),
	}
	rows := svc.Reduce([]models.FacultyMaster{master("a@x.edu", 12, 10)}, entries, models.FacultyFilter{})
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Balance[models.LeaveCL].Equal(decimal.NewFromInt(11)))
	// the ML entry still shows up in the per-faculty history
	assert.Len(t, rows[0].History, 2)
}

func TestReportReduceSurfacesNegativeBalances(t *testing.T) {
	svc := NewReportService(nil, nil, 2, nil)

	entries := []models.LedgerEntry{entry("a@x.edu", models.LeaveCL, 15, "2025-03-10")}
	rows := svc.Reduce([]models.FacultyMaster{master("a@x.edu", 12, 0)}, entries, models.FacultyFilter{})
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Balance[models.LeaveCL].Equal(decimal.NewFromInt(-3)))
}

func TestReportReduceLowBalanceThreshold(t *testing.T) {
	svc := NewReportService(nil, nil, 2, nil)

	low := master("low@x.edu", 1, 1)
	ok := master("ok@x.edu", 5, 5)
	rows := svc.Reduce([]models.FacultyMaster{low, ok}, nil, models.FacultyFilter{})
	require.Len(t, rows, 2)
	assert.True(t, rows[0].LowBalance)
	assert.False(t, rows[1].LowBalance)
}

func TestReportReduceFilters(t *testing.T) {
	svc := NewReportService(nil, nil, 2, nil)

	a := master("anna@x.edu", 12, 0)
	b := master("bob@y.edu", 12, 0)
	b.Department = "ECE"

	rows := svc.Reduce([]models.FacultyMaster{a, b}, nil, models.FacultyFilter{Department: "cse"})
	require.Len(t, rows, 1)
	assert.Equal(t, "anna@x.edu", rows[0].FacultyEmail)

	rows = svc.Reduce([]models.FacultyMaster{a, b}, nil, models.FacultyFilter{Email: "BOB"})
	require.Len(t, rows, 1)
	assert.Equal(t, "bob@y.edu", rows[0].FacultyEmail)

	// department match is exact, not substring
	rows = svc.Reduce([]models.FacultyMaster{a, b}, nil, models.FacultyFilter{Department: "cs"})
	assert.Empty(t, rows)
}

func TestReportReduceSortsByEmail(t *testing.T) {
	svc := NewReportService(nil, nil, 2, nil)

	rows := svc.Reduce([]models.FacultyMaster{
		master("zoe@x.edu", 1, 1),
		master("anna@x.edu", 1, 1),
		master("mike@x.edu", 1, 1),
	}, nil, models.FacultyFilter{})
	require.Len(t, rows, 3)
	assert.Equal(t, "anna@x.edu", rows[0].FacultyEmail)
	assert.Equal(t, "mike@x.edu", rows[1].FacultyEmail)
	assert.Equal(t, "zoe@x.edu", rows[2].FacultyEmail)
}

func TestReportReduceHistoryNewestFirst(t *testing.T) {
	svc := NewReportService(nil, nil, 2, nil)

	entries := []models.LedgerEntry{
		entry("a@x.edu", models.LeaveCL, 1, "2025-01-05"),
		entry("a@x.edu", models.LeaveCL, 1, "2025-03-10"),
		entry("a@x.edu", models.LeaveCL, 1, "2025-02-20"),
	}
	rows := svc.Reduce([]models.FacultyMaster{master("a@x.edu", 12, 0)}, entries, models.FacultyFilter{})
	require.Len(t, rows, 1)
	require.Len(t, rows[0].History, 3)
	assert.Equal(t, "2025-03-10", rows[0].History[0].Date)
	assert.Equal(t, "2025-02-20", rows[0].History[1].Date)
	assert.Equal(t, "2025-01-05", rows[0].History[2].Date)
}

func TestReportReduceFallsBackToEncodedEmail(t *testing.T) {
	svc := NewReportService(nil, nil, 2, nil)

	e := entry("a@x.edu", models.LeaveCL, 2, "2025-03-10")
	e.FacultyKey = ""
	rows := svc.Reduce([]models.FacultyMaster{master("a@x.edu", 12, 0)}, []models.LedgerEntry{e}, models.FacultyFilter{})
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Balance[models.LeaveCL].Equal(decimal.NewFromInt(10)))
}

func TestReportSelfRow(t *testing.T) {
	faculty := &facultyReaderMock{masters: []models.FacultyMaster{master("a@x.edu", 12, 0)}}
	ledger := &ledgerReaderMock{}
	svc := NewReportService(faculty, ledger, 2, nil)

	row, err := svc.SelfRow(context.Background(), "A@X.EDU")
	require.NoError(t, err)
	assert.Equal(t, "a@x.edu", row.FacultyEmail)

	_, err = svc.SelfRow(context.Background(), "missing@x.edu")
	require.Error(t, err)
}

func TestReportExportCSV(t *testing.T) {
	faculty := &facultyReaderMock{masters: []models.FacultyMaster{master("a@x.edu", 12, 10)}}
	ledger := &ledgerReaderMock{entries: []models.LedgerEntry{entry("a@x.edu", models.LeaveCL, 2, "2025-03-10")}}
	svc := NewReportService(faculty, ledger, 2, nil)

	out, contentType, err := svc.Export(context.Background(), models.FacultyFilter{}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(out), "a@x.edu")
	assert.Contains(t, string(out), "10")

	_, _, err = svc.Export(context.Background(), models.FacultyFilter{}, "xlsx")
	require.Error(t, err)
}
