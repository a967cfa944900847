package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusops/faculty-leave-api/internal/models"
	appErrors "github.com/campusops/faculty-leave-api/pkg/errors"
)

// RowError describes one failed CSV row. Validation walks the whole file and
// reports every problem at once instead of failing on the first row.
type RowError struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ImportResult summarises one upload.
type ImportResult struct {
	Imported int        `json:"imported"`
	Errors   []RowError `json:"errors,omitempty"`
}

var facultyImportHeaders = []string{"employee_id", "name", "department", "faculty_email", "cl", "el", "hpl", "od", "ccl", "lop", "ml", "total_leaves"}
var lectureImportHeaders = []string{"day", "time", "name", "faculty_id", "faculty_email", "subject", "room"}
var invigilationImportHeaders = []string{"date", "time", "faculty_id", "faculty_email", "exam", "room"}

type facultyBatchWriter interface {
	UpsertBatch(ctx context.Context, records []models.FacultyMaster) error
}

type lectureBatchWriter interface {
	ReplaceAll(ctx context.Context, templates []models.LectureTemplate) error
}

type invigilationBatchWriter interface {
	ReplaceAll(ctx context.Context, duties []models.InvigilationDuty) error
}

// ImportService ingests CSV uploads for the three bulk-loaded collections.
// No row is written until the entire file validates.
type ImportService struct {
	faculty      facultyBatchWriter
	lectures     lectureBatchWriter
	invigilation invigilationBatchWriter
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewImportService constructs an ImportService.
func NewImportService(faculty facultyBatchWriter, lectures lectureBatchWriter, invigilation invigilationBatchWriter, validate *validator.Validate, logger *zap.Logger) *ImportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{
		faculty:      faculty,
		lectures:     lectures,
		invigilation: invigilation,
		validator:    validate,
		logger:       logger,
	}
}

// ImportFaculty parses and upserts the entitlement sheet. Existing records
// with matching keys are overwritten; created_at is preserved.
func (s *ImportService) ImportFaculty(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, rowErrs, err := s.parse(r, facultyImportHeaders)
	if err != nil {
		return nil, err
	}

	var records []models.FacultyMaster
	for _, row := range rows {
		req := SaveFacultyRequest{
			EmployeeID:   row.get("employee_id"),
			Name:         row.get("name"),
			Department:   row.get("department"),
			FacultyEmail: row.get("faculty_email"),
		}
		if s.validator.Var(req.FacultyEmail, "required,email") != nil {
			rowErrs = append(rowErrs, RowError{Row: row.number, Field: "faculty_email", Reason: "invalid email address"})
			continue
		}

		ok := true
		for _, field := range []string{"cl", "el", "hpl", "od", "ccl", "lop", "ml", "total_leaves"} {
			value, parseErr := parseNumeric(row.get(field))
			if parseErr != nil || value < 0 {
				rowErrs = append(rowErrs, RowError{Row: row.number, Field: field, Reason: "must be a non-negative number"})
				ok = false
				continue
			}
			switch field {
			case "cl":
				req.CL = value
			case "el":
				req.EL = value
			case "hpl":
				req.HPL = value
			case "od":
				req.OD = value
			case "ccl":
				req.CCL = value
			case "lop":
				req.LOP = value
			case "ml":
				req.ML = value
			case "total_leaves":
				req.TotalLeaves = value
			}
		}
		if !ok {
			continue
		}
		records = append(records, *MasterFromRequest(req))
	}

	if len(rowErrs) > 0 {
		return &ImportResult{Errors: rowErrs}, appErrors.Clone(appErrors.ErrInvalidCSV, fmt.Sprintf("%d row(s) failed validation", len(rowErrs)))
	}

	if err := s.faculty.UpsertBatch(ctx, records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import faculty records")
	}
	return &ImportResult{Imported: len(records)}, nil
}

// ImportLectures parses the timetable sheet and replaces the whole lecture
// template collection.
func (s *ImportService) ImportLectures(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, rowErrs, err := s.parse(r, lectureImportHeaders)
	if err != nil {
		return nil, err
	}

	var templates []models.LectureTemplate
	for _, row := range rows {
		if s.validator.Var(row.get("faculty_email"), "required,email") != nil {
			rowErrs = append(rowErrs, RowError{Row: row.number, Field: "faculty_email", Reason: "invalid email address"})
			continue
		}
		templates = append(templates, models.LectureTemplate{
			Day:          row.get("day"),
			Time:         row.get("time"),
			Name:         row.get("name"),
			FacultyID:    row.get("faculty_id"),
			FacultyEmail: strings.ToLower(row.get("faculty_email")),
			Subject:      row.get("subject"),
			Room:         row.get("room"),
		})
	}

	if len(rowErrs) > 0 {
		return &ImportResult{Errors: rowErrs}, appErrors.Clone(appErrors.ErrInvalidCSV, fmt.Sprintf("%d row(s) failed validation", len(rowErrs)))
	}

	if err := s.lectures.ReplaceAll(ctx, templates); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import lecture templates")
	}
	return &ImportResult{Imported: len(templates)}, nil
}

// ImportInvigilation parses the invigilation sheet and replaces the whole
// duty collection.
func (s *ImportService) ImportInvigilation(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, rowErrs, err := s.parse(r, invigilationImportHeaders)
	if err != nil {
		return nil, err
	}

	var duties []models.InvigilationDuty
	for _, row := range rows {
		if s.validator.Var(row.get("faculty_email"), "required,email") != nil {
			rowErrs = append(rowErrs, RowError{Row: row.number, Field: "faculty_email", Reason: "invalid email address"})
			continue
		}
		if !isISODate(row.get("date")) {
			rowErrs = append(rowErrs, RowError{Row: row.number, Field: "date", Reason: "must be YYYY-MM-DD"})
			continue
		}
		duties = append(duties, models.InvigilationDuty{
			Date:         row.get("date"),
			Time:         row.get("time"),
			FacultyID:    row.get("faculty_id"),
			FacultyEmail: strings.ToLower(row.get("faculty_email")),
			Exam:         row.get("exam"),
			Room:         row.get("room"),
		})
	}

	if len(rowErrs) > 0 {
		return &ImportResult{Errors: rowErrs}, appErrors.Clone(appErrors.ErrInvalidCSV, fmt.Sprintf("%d row(s) failed validation", len(rowErrs)))
	}

	if err := s.invigilation.ReplaceAll(ctx, duties); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import invigilation duties")
	}
	return &ImportResult{Imported: len(duties)}, nil
}

type csvRow struct {
	number int
	values map[string]string
}

func (r csvRow) get(field string) string {
	return strings.TrimSpace(r.values[field])
}

// parse reads the full file, checks the header set and collects rows with
// missing required values. Header order does not matter.
func (s *ImportService) parse(r io.Reader, headers []string) ([]csvRow, []RowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headerRecord, err := reader.Read()
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInvalidCSV.Code, appErrors.ErrInvalidCSV.Status, "missing csv header row")
	}

	index := make(map[string]int, len(headerRecord))
	for i, h := range headerRecord {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, h := range headers {
		if _, ok := index[h]; !ok {
			return nil, nil, appErrors.Clone(appErrors.ErrInvalidCSV, fmt.Sprintf("missing required column %q", h))
		}
	}

	var rows []csvRow
	var rowErrs []RowError
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: line, Reason: "malformed csv row"})
			continue
		}

		values := make(map[string]string, len(headers))
		for _, h := range headers {
			i := index[h]
			if i < len(record) {
				values[h] = record[i]
			}
		}
		row := csvRow{number: line, values: values}

		for _, h := range headers {
			if row.get(h) == "" && isRequiredColumn(h) {
				rowErrs = append(rowErrs, RowError{Row: line, Field: h, Reason: "required field is empty"})
			}
		}
		rows = append(rows, row)
	}

	return rows, rowErrs, nil
}

// room and faculty_id may legitimately be blank in source sheets.
func isRequiredColumn(name string) bool {
	switch name {
	case "room", "faculty_id", "reason":
		return false
	}
	return true
}

func parseNumeric(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func isISODate(raw string) bool {
	if len(raw) != 10 {
		return false
	}
	_, err := parseDate(raw)
	return err == nil
}
