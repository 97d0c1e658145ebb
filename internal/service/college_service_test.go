package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noExisting(string) (bool, error) { return false, nil }

func TestParseCandidateCSV(t *testing.T) {
	csvData := strings.Join([]string{
		"name,email,phone,program,graduation_year",
		"Jane Doe,jane@example.com,555-0100,Computer Science,2026",
		"John Roe,john@example.com,,Electrical Engineering,2025",
	}, "\n")

	report, batch, err := parseCandidateCSV(7, strings.NewReader(csvData), noExisting)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 0, report.Skipped)
	require.Len(t, batch, 2)
	assert.Equal(t, uint(7), batch[0].CollegeID)
	assert.Equal(t, "Jane Doe", batch[0].Name)
	assert.Equal(t, "jane@example.com", batch[0].Email)
	assert.Equal(t, "2026", batch[0].GraduationYear)
}

func TestParseCandidateCSVInvalidRows(t *testing.T) {
	csvData := strings.Join([]string{
		"name,email",
		",missing-name@example.com",
		"No Email,",
		"Bad Email,not-an-email",
		"Valid,valid@example.com",
		"Dupe,valid@example.com",
	}, "\n")

	report, batch, err := parseCandidateCSV(1, strings.NewReader(csvData), noExisting)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 4, report.Skipped)
	require.Len(t, report.Errors, 4)
	assert.Equal(t, "missing name", report.Errors[0].Reason)
	assert.Equal(t, 2, report.Errors[0].Row)
	assert.Equal(t, "duplicate email in file", report.Errors[3].Reason)
	require.Len(t, batch, 1)
}

func TestParseCandidateCSVHeaderVariants(t *testing.T) {
	// Header matching is case-insensitive and tolerates extra columns.
	csvData := strings.Join([]string{
		"Email, Name ,notes",
		"jane@example.com,Jane,ignore this",
	}, "\n")

	report, batch, err := parseCandidateCSV(1, strings.NewReader(csvData), noExisting)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	require.Len(t, batch, 1)
	assert.Equal(t, "Jane", batch[0].Name)
}

func TestParseCandidateCSVMissingColumns(t *testing.T) {
	_, _, err := parseCandidateCSV(1, strings.NewReader("name,phone\nJane,555"), noExisting)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestParseCandidateCSVAlreadyImported(t *testing.T) {
	csvData := "name,email\nJane,jane@example.com\nJohn,john@example.com"

	report, batch, err := parseCandidateCSV(1, strings.NewReader(csvData), func(email string) (bool, error) {
		return email == "jane@example.com", nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, batch, 1)
	assert.Equal(t, "john@example.com", batch[0].Email)
}

func TestParseCandidateCSVNormalizesEmail(t *testing.T) {
	report, batch, err := parseCandidateCSV(1, strings.NewReader("name,email\nJane,JANE@Example.COM"), noExisting)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, "jane@example.com", batch[0].Email)
}
