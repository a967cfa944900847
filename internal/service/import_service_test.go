package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/faculty-leave-api/internal/models"
	appErrors "github.com/campusops/faculty-leave-api/pkg/errors"
)

type facultyWriterMock struct {
	batches [][]models.FacultyMaster
	err     error
}

func (m *facultyWriterMock) UpsertBatch(ctx context.Context, records []models.FacultyMaster) error {
	m.batches = append(m.batches, records)
	return m.err
}

type lectureWriterMock struct {
	replaced [][]models.LectureTemplate
}

func (m *lectureWriterMock) ReplaceAll(ctx context.Context, templates []models.LectureTemplate) error {
	m.replaced = append(m.replaced, templates)
	return nil
}

type invigilationWriterMock struct {
	replaced [][]models.InvigilationDuty
}

func (m *invigilationWriterMock) ReplaceAll(ctx context.Context, duties []models.InvigilationDuty) error {
	m.replaced = append(m.replaced, duties)
	return nil
}

const facultyCSVHeader = "employee_id,name,department,faculty_email,cl,el,hpl,od,ccl,lop,ml,total_leaves\n"

func TestImportFaculty(t *testing.T) {
	writer := &facultyWriterMock{}
	svc := NewImportService(writer, nil, nil, nil, nil)

	csv := facultyCSVHeader +
		"E1,Prof Anna,CSE,Anna@College.edu,12,10,5,3,2,0,0,32\n" +
		"E2,Prof Bob,ECE,bob@college.edu,8,6,4,2,1,0,0,21\n"

	result, err := svc.ImportFaculty(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Errors)
	require.Len(t, writer.batches, 1)
	require.Len(t, writer.batches[0], 2)
	assert.Equal(t, "anna_college_edu", writer.batches[0][0].FacultyKey)
	assert.Equal(t, "anna@college.edu", writer.batches[0][0].FacultyEmail)
	assert.Equal(t, "12", writer.batches[0][0].CL.String())
}

func TestImportFacultyRejectsFileWithAnyBadRow(t *testing.T) {
	writer := &facultyWriterMock{}
	svc := NewImportService(writer, nil, nil, nil, nil)

	csv := facultyCSVHeader +
		"E1,Prof Anna,CSE,anna@college.edu,12,10,5,3,2,0,0,32\n" +
		"E2,Prof Bob,ECE,not-an-email,8,6,4,2,1,0,0,21\n" +
		"E3,Prof Cara,CSE,cara@college.edu,twelve,10,5,3,2,0,0,32\n"

	result, err := svc.ImportFaculty(context.Background(), strings.NewReader(csv))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCSV.Code, appErrors.FromError(err).Code)
	// every problem is reported, and no rows were written
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "faculty_email", result.Errors[0].Field)
	assert.Equal(t, 4, result.Errors[1].Row)
	assert.Equal(t, "cl", result.Errors[1].Field)
	assert.Empty(t, writer.batches)
}

func TestImportFacultyAccumulatesBlankFieldErrors(t *testing.T) {
	writer := &facultyWriterMock{}
	svc := NewImportService(writer, nil, nil, nil, nil)

	csv := facultyCSVHeader +
		"E1,,CSE,anna@college.edu,12,10,5,3,2,0,0,32\n" +
		",Prof Bob,ECE,bob@college.edu,8,6,4,2,1,0,0,21\n"

	result, err := svc.ImportFaculty(context.Background(), strings.NewReader(csv))
	require.Error(t, err)
	fields := make([]string, 0, len(result.Errors))
	for _, re := range result.Errors {
		fields = append(fields, re.Field)
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "employee_id")
	assert.Empty(t, writer.batches)
}

func TestImportFacultyRejectsMissingColumn(t *testing.T) {
	writer := &facultyWriterMock{}
	svc := NewImportService(writer, nil, nil, nil, nil)

	csv := "employee_id,name,department,faculty_email,cl\nE1,Prof Anna,CSE,anna@college.edu,12\n"
	_, err := svc.ImportFaculty(context.Background(), strings.NewReader(csv))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCSV.Code, appErrors.FromError(err).Code)
	assert.Contains(t, appErrors.FromError(err).Message, "el")
	assert.Empty(t, writer.batches)
}

func TestImportFacultyHeaderOrderIrrelevant(t *testing.T) {
	writer := &facultyWriterMock{}
	svc := NewImportService(writer, nil, nil, nil, nil)

	csv := "faculty_email,name,employee_id,department,total_leaves,ml,lop,ccl,od,hpl,el,cl\n" +
		"anna@college.edu,Prof Anna,E1,CSE,32,0,0,2,3,5,10,12\n"

	result, err := svc.ImportFaculty(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, "12", writer.batches[0][0].CL.String())
}

func TestImportLecturesReplacesCollection(t *testing.T) {
	writer := &lectureWriterMock{}
	svc := NewImportService(nil, writer, nil, nil, nil)

	csv := "day,time,name,faculty_id,faculty_email,subject,room\n" +
		"Monday,09:00,Algorithms,F1,Anna@College.edu,CS201,A-101\n" +
		"Tuesday,11:00,Databases,,bob@college.edu,CS301,\n"

	result, err := svc.ImportLectures(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	require.Len(t, writer.replaced, 1)
	assert.Equal(t, "anna@college.edu", writer.replaced[0][0].FacultyEmail)
	// room and faculty_id may be blank
	assert.Empty(t, writer.replaced[0][1].Room)
}

func TestImportInvigilationValidatesDates(t *testing.T) {
	writer := &invigilationWriterMock{}
	svc := NewImportService(nil, nil, writer, nil, nil)

	csv := "date,time,faculty_id,faculty_email,exam,room\n" +
		"2025-03-10,09:00,F1,anna@college.edu,Midterm,A-101\n" +
		"10/03/2025,09:00,F2,bob@college.edu,Midterm,A-102\n"

	result, err := svc.ImportInvigilation(context.Background(), strings.NewReader(csv))
	require.Error(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "date", result.Errors[0].Field)
	assert.Empty(t, writer.replaced)
}

func TestImportEmptyFile(t *testing.T) {
	svc := NewImportService(&facultyWriterMock{}, nil, nil, nil, nil)

	_, err := svc.ImportFaculty(context.Background(), strings.NewReader(""))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCSV.Code, appErrors.FromError(err).Code)
}
