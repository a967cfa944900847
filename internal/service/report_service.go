package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/campusops/faculty-leave-api/internal/facultykey"
	"github.com/campusops/faculty-leave-api/internal/models"
	appErrors "github.com/campusops/faculty-leave-api/pkg/errors"
	"github.com/campusops/faculty-leave-api/pkg/export"
)

type facultyReader interface {
	ListAll(ctx context.Context) ([]models.FacultyMaster, error)
}

type ledgerReader interface {
	ListAll(ctx context.Context) ([]models.LedgerEntry, error)
}

// ReportService computes the leave balance report: per-type availed totals
// folded from the ledger, subtracted from each faculty member's
// entitlements. Both collections are fetched wholesale and reduced in
// memory; the service holds no state between requests.
type ReportService struct {
	faculty   facultyReader
	ledger    ledgerReader
	threshold decimal.Decimal
	logger    *zap.Logger
}

// NewReportService constructs a ReportService. threshold is the low-balance
// display cutoff: a row is flagged when the sum of its six balances is at or
// below it.
func NewReportService(faculty facultyReader, ledger ledgerReader, threshold float64, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		faculty:   faculty,
		ledger:    ledger,
		threshold: decimal.NewFromFloat(threshold),
		logger:    logger,
	}
}

// BuildReport fetches both collections and reduces them into report rows.
func (s *ReportService) BuildReport(ctx context.Context, filter models.FacultyFilter) ([]models.BalanceRow, error) {
	masters, err := s.faculty.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty master")
	}
	entries, err := s.ledger.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave ledger")
	}
	return s.Reduce(masters, entries, filter), nil
}

// Reduce is the pure aggregation step.
//
// Availed totals are grouped by faculty_key, falling back to the encoded
// email when the denormalized key is absent. Only the six balance types
// participate; ML entries are recognized but excluded from the sums, which
// deliberately mirrors the entitlement sheet. Balances may go negative and
// are surfaced as-is.
func (s *ReportService) Reduce(masters []models.FacultyMaster, entries []models.LedgerEntry, filter models.FacultyFilter) []models.BalanceRow {
	availed := make(map[string]models.LeaveVector)
	balanceSet := make(map[models.LeaveType]struct{}, len(models.BalanceTypes))
	for _, t := range models.BalanceTypes {
		balanceSet[t] = struct{}{}
	}

	for _, e := range entries {
		if _, ok := balanceSet[e.LeaveType]; !ok {
			continue
		}
		key := e.FacultyKey
		if key == "" {
			key = facultykey.Encode(e.FacultyEmail)
		}
		vec, ok := availed[key]
		if !ok {
			vec = models.NewLeaveVector()
			availed[key] = vec
		}
		vec[e.LeaveType] = vec[e.LeaveType].Add(e.Days)
	}

	historyByEmail := make(map[string][]models.LedgerEntry)
	for _, e := range entries {
		email := strings.ToLower(e.FacultyEmail)
		historyByEmail[email] = append(historyByEmail[email], e)
	}
	for _, history := range historyByEmail {
		sort.SliceStable(history, func(i, j int) bool {
			return history[i].Date > history[j].Date
		})
	}

	department := strings.ToLower(strings.TrimSpace(filter.Department))
	emailSub := strings.ToLower(strings.TrimSpace(filter.Email))

	rows := make([]models.BalanceRow, 0, len(masters))
	for i := range masters {
		m := &masters[i]
		if department != "" && strings.ToLower(m.Department) != department {
			continue
		}
		email := strings.ToLower(m.FacultyEmail)
		if emailSub != "" && !strings.Contains(email, emailSub) {
			continue
		}

		entitlement := models.NewLeaveVector()
		balance := models.NewLeaveVector()
		used := availed[m.FacultyKey]
		availedVec := models.NewLeaveVector()
		for _, t := range models.BalanceTypes {
			entitlement[t] = m.Entitlement(t)
			if used != nil {
				availedVec[t] = used[t]
			}
			balance[t] = entitlement[t].Sub(availedVec[t])
		}

		rows = append(rows, models.BalanceRow{
			FacultyKey:   m.FacultyKey,
			EmployeeID:   m.EmployeeID,
			Name:         m.Name,
			Department:   m.Department,
			FacultyEmail: m.FacultyEmail,
			Entitlement:  entitlement,
			Availed:      availedVec,
			Balance:      balance,
			LowBalance:   balance.Sum().LessThanOrEqual(s.threshold),
			History:      historyByEmail[email],
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].FacultyEmail) < strings.ToLower(rows[j].FacultyEmail)
	})

	return rows
}

// SelfRow returns the report row for a single faculty member, or nil when
// no master record exists for that email.
func (s *ReportService) SelfRow(ctx context.Context, email string) (*models.BalanceRow, error) {
	rows, err := s.BuildReport(ctx, models.FacultyFilter{})
	if err != nil {
		return nil, err
	}
	target := strings.ToLower(email)
	for i := range rows {
		if strings.ToLower(rows[i].FacultyEmail) == target {
			return &rows[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no leave record for this account")
}

// Export renders the report in csv or pdf form for download.
func (s *ReportService) Export(ctx context.Context, filter models.FacultyFilter, format string) ([]byte, string, error) {
	rows, err := s.BuildReport(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	dataset := export.Dataset{
		Headers: []string{"Employee ID", "Name", "Department", "Email", "CL", "EL", "HPL", "OD", "CCL", "LOP", "Total Balance", "Status"},
	}
	for _, row := range rows {
		status := "ok"
		if row.LowBalance {
			status = "low"
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Employee ID":   row.EmployeeID,
			"Name":          row.Name,
			"Department":    row.Department,
			"Email":         row.FacultyEmail,
			"CL":            row.Balance[models.LeaveCL].String(),
			"EL":            row.Balance[models.LeaveEL].String(),
			"HPL":           row.Balance[models.LeaveHPL].String(),
			"OD":            row.Balance[models.LeaveOD].String(),
			"CCL":           row.Balance[models.LeaveCCL].String(),
			"LOP":           row.Balance[models.LeaveLOP].String(),
			"Total Balance": row.Balance.Sum().String(),
			"Status":        status,
		})
	}

	switch strings.ToLower(format) {
	case "", "csv":
		out, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return out, "text/csv", nil
	case "pdf":
		out, err := export.NewPDFExporter().Render(dataset, "Leave Balance Report")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return out, "application/pdf", nil
	}
	return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
}
