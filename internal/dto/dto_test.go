package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/phdstats-api/internal/models"
)

func sampleSummary() models.ProgramSummary {
	avg := 5.457
	earliest := time.Date(2012, time.September, 1, 0, 0, 0, 0, time.UTC)
	return models.ProgramSummary{
		Program:                "Rutgers",
		TotalEntries:           12,
		CurrentlyActive:        4,
		PlacedCount:            3,
		PercentageOfPlacements: 37.5,
		AverageDurationYears:   &avg,
		EarliestSnapshotDate:   &earliest,
		NumberOfSnapshots:      9,
		ProgramLink:            "https://rutgers.example/people",
	}
}

func TestNewProgramIndexRow(t *testing.T) {
	row := NewProgramIndexRow(sampleSummary())

	assert.Equal(t, ProgramIndexRow{
		Program:          "Rutgers",
		TotalEntries:     "12",
		CurrentlyActive:  "4",
		PlacementRate:    "38%",
		AverageDuration:  "5.46",
		EarliestSnapshot: "09/01/2012",
	}, row)
}

func TestNewProgramIndexRowMissingValues(t *testing.T) {
	row := NewProgramIndexRow(models.ProgramSummary{Program: "NYU"})

	assert.Equal(t, "0%", row.PlacementRate)
	assert.Equal(t, "N/A", row.AverageDuration)
	assert.Equal(t, "N/A", row.EarliestSnapshot)
}

func TestProgramSummaryResponseWithoutStartDates(t *testing.T) {
	resp := NewProgramSummaryResponse(models.ProgramSummary{Program: "NYU", TotalEntries: 1})

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "earliest_snapshot_date")
	assert.NotContains(t, string(body), "0001-01-01")
	assert.Equal(t, LabeledValue{Label: "Earliest Record", Value: "N/A"}, resp.Rows[5])
}

func TestNewProgramIndexResponseColumns(t *testing.T) {
	resp := NewProgramIndexResponse([]models.ProgramSummary{sampleSummary()})

	labels := make([]string, 0, len(resp.Columns))
	for _, column := range resp.Columns {
		labels = append(labels, column.Label)
	}
	assert.Equal(t, []string{"Host Institution", "Total Students", "Currently Enrolled", "Placement Rate", "Time-to-Degree", "Earliest Record"}, labels)
	assert.Len(t, resp.Rows, 1)
}

func TestNewProgramSummaryResponseRows(t *testing.T) {
	resp := NewProgramSummaryResponse(sampleSummary())

	require.Len(t, resp.Rows, 8)
	assert.Equal(t, LabeledValue{Label: "Currently Enrolled", Value: "4"}, resp.Rows[0])
	assert.Equal(t, LabeledValue{Label: "Placement Rate", Value: "38%"}, resp.Rows[2])
	assert.Equal(t, LabeledValue{Label: "Earliest Record", Value: "09/01/2012"}, resp.Rows[5])
	assert.True(t, resp.Rows[6].Link)
	assert.False(t, resp.Rows[7].Link)
}

func TestNewStudentRow(t *testing.T) {
	placed := true
	record := models.StudentRecord{
		Name:           "Ada",
		University:     "Rutgers",
		Active:         false,
		Placement:      &placed,
		EnrollmentDate: models.Before(time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)),
		CompletionDate: models.ExactDate(time.Date(2020, time.March, 17, 0, 0, 0, 0, time.UTC)),
		DurationYears:  models.DurationEstimate{Years: 1.21, LowerBound: true},
	}

	row := NewStudentRow(record)

	assert.Equal(t, "< 01/01/2019", row.EnrollmentDate)
	assert.Equal(t, "03/17/2020", row.CompletionDate)
	assert.Equal(t, "> 1.21", row.TimeToDegree)
	assert.Equal(t, "No", row.Active)
	assert.Equal(t, "Yes", row.Placement)
}

func TestStudentTableHeaders(t *testing.T) {
	records := []models.StudentRecord{{Name: "Ada", University: "Rutgers"}}

	single := StudentTable(records, false)
	assert.Equal(t, []string{"Name", "Enrollment Date", "Completion Date", "Time-to-Degree", "Active", "Placement"}, single.Headers)

	mixed := StudentTable(records, true)
	assert.Equal(t, "Host Institution", mixed.Headers[1])
	assert.Equal(t, "Rutgers", mixed.Rows[0]["Host Institution"])
	assert.Equal(t, "N/A", mixed.Rows[0]["Placement"])
}

func TestProgramIndexTableUsesLabels(t *testing.T) {
	table := ProgramIndexTable([]models.ProgramSummary{sampleSummary()})

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Rutgers", table.Rows[0]["Host Institution"])
	assert.Equal(t, "38%", table.Rows[0]["Placement Rate"])
}

func TestSnapshotAndSummaryTables(t *testing.T) {
	points := []models.SnapshotPoint{{FormattedDate: "03/15/2020", SourceURL: "https://web.archive.org/web/20200315000000/x", AssociatedStudentCount: 4}}

	snapshots := SnapshotTable(points)
	assert.Equal(t, "4", snapshots.Rows[0]["Students"])

	summary := SummaryTable(sampleSummary())
	assert.Len(t, summary.Rows, 8)
	assert.Equal(t, "Total Students Recorded", summary.Rows[1]["Statistic"])
}

func TestNewStatisticsResponseLabel(t *testing.T) {
	assert.Equal(t, "Placement Rate", NewStatisticsResponse(models.MetricPlacement, nil).Label)
	assert.Equal(t, "Time-to-Degree", NewStatisticsResponse(models.MetricDuration, nil).Label)
}

func TestNewStatisticsResponseSummary(t *testing.T) {
	points := []models.StatisticsPoint{{Program: "A", Value: 75}, {Program: "B", Value: 50}}

	placement := NewStatisticsResponse(models.MetricPlacement, points)
	assert.Equal(t, 2, placement.Summary.TotalPrograms)
	assert.Equal(t, 62.5, placement.Summary.Mean)
	assert.Equal(t, LabeledValue{Label: "Median", Value: "75.00%"}, placement.SummaryRows[0])
	assert.Equal(t, LabeledValue{Label: "Standard Deviation", Value: "12.50%"}, placement.SummaryRows[2])
	assert.Equal(t, LabeledValue{Label: "Total Programs", Value: "2"}, placement.SummaryRows[5])

	duration := NewStatisticsResponse(models.MetricDuration, []models.StatisticsPoint{{Program: "A", Value: 5.25}})
	assert.Equal(t, "5.25", duration.SummaryRows[1].Value)

	empty := NewStatisticsResponse(models.MetricPlacement, nil)
	assert.Equal(t, "N/A", empty.SummaryRows[0].Value)
	assert.Equal(t, "0", empty.SummaryRows[5].Value)

	table := RankingSummaryTable(placement)
	assert.Equal(t, []string{"Statistic", "Placement Rate"}, table.Headers)
	assert.Equal(t, "62.50%", table.Rows[1]["Placement Rate"])
}

func TestNewStudentListResponseColumns(t *testing.T) {
	records := []models.StudentRecord{{Name: "Ada", University: "Rutgers"}}

	single := NewStudentListResponse("Rutgers", records, false)
	assert.Len(t, single.Columns, 6)
	assert.Equal(t, "Ada", single.Rows[0].Name)

	mixed := NewStudentListResponse("All Programs", records, true)
	require.Len(t, mixed.Columns, 7)
	assert.Equal(t, ColumnUniversity, mixed.Columns[1].ID)
	assert.NotEmpty(t, mixed.Columns[1].Description)
}
