package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixfirst/internal/types"
)

func TestWriteCSVColumns(t *testing.T) {
	reports := []types.Report{
		{
			ID:          "rpt-1",
			Location:    types.Location{Address: "123 Main St", Lat: 39.78, Lng: -89.65},
			Timestamp:   time.Date(2026, 8, 27, 9, 30, 0, 0, time.UTC),
			User:        types.UserRef{Name: "Alex Chen"},
			Description: "deep pothole",
			Upvotes:     7,
			DangerScore: 8,
			DangerLevel: types.DangerHigh,
			Status:      types.StatusInProgress,
			Assignee:    &types.UserRef{Name: "John Doe"},
			Priority:    types.PriorityHigh,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, reports))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Len(t, rows[0], 13, "header column count is fixed")
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Assigned Worker", rows[0][12])

	row := rows[1]
	assert.Equal(t, "rpt-1", row[0])
	assert.Equal(t, "123 Main St", row[1])
	assert.Equal(t, "2026-08-27T09:30:00Z", row[4])
	assert.Equal(t, "Alex Chen", row[5])
	assert.Equal(t, "7", row[7])
	assert.Equal(t, "8.0", row[8])
	assert.Equal(t, "In Progress", row[11])
	assert.Equal(t, "John Doe", row[12])
}

func TestWriteCSVEscapesSpecialCharacters(t *testing.T) {
	reports := []types.Report{
		{
			ID:          "rpt-1",
			Location:    types.Location{Address: `Corner of "5th" Ave, Main St`},
			Description: "line one\nline two",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, reports))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, `Corner of "5th" Ave, Main St`, rows[1][1])
	assert.Equal(t, "line one\nline two", rows[1][6])
}

func TestWriteCSVUnassignedWorker(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []types.Report{{ID: "rpt-1"}}))
	assert.True(t, strings.Contains(buf.String(), "N/A"))
}

func TestWriteCSVEmptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 27, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "fixfirst_reports_2026-08-27.csv", Filename(now))
}
