package service

import (
	"time"

	"github.com/noah-isme/phdstats-api/internal/models"
)

const parquetDateLayout = "2006-01-02"

// ProgramParquetRow is one program summary in a Parquet export.
type ProgramParquetRow struct {
	Program              string   `parquet:"program"`
	TotalEntries         int64    `parquet:"total_entries"`
	CurrentlyActive      int64    `parquet:"currently_active"`
	PlacedCount          int64    `parquet:"placed_count"`
	PlacementRate        float64  `parquet:"placement_rate"`
	AverageDurationYears *float64 `parquet:"average_duration_years,optional"`
	EarliestRecord       string   `parquet:"earliest_record,optional"`
	NumberOfSnapshots    int64    `parquet:"number_of_snapshots"`
	ProgramLink          string   `parquet:"program_link"`
	PlacementLink        string   `parquet:"placement_link"`
}

// StudentParquetRow is one student in a Parquet export. Open-ended estimates
// keep their bound next to the anchor date.
type StudentParquetRow struct {
	Name               string  `parquet:"name"`
	University         string  `parquet:"university"`
	Department         string  `parquet:"department"`
	EnrollmentDate     string  `parquet:"enrollment_date,optional"`
	EnrollmentBound    string  `parquet:"enrollment_bound"`
	CompletionDate     string  `parquet:"completion_date,optional"`
	CompletionBound    string  `parquet:"completion_bound"`
	DurationYears      float64 `parquet:"duration_years"`
	DurationLowerBound bool    `parquet:"duration_lower_bound"`
	Active             bool    `parquet:"active"`
	Placement          *bool   `parquet:"placement,optional"`
}

// SnapshotParquetRow is one archive snapshot in a Parquet export.
type SnapshotParquetRow struct {
	Date     string `parquet:"date"`
	Students int64  `parquet:"students"`
	URL      string `parquet:"url"`
}

func newProgramParquetRows(summaries []models.ProgramSummary) []ProgramParquetRow {
	rows := make([]ProgramParquetRow, 0, len(summaries))
	for _, summary := range summaries {
		var earliest string
		if summary.EarliestSnapshotDate != nil {
			earliest = parquetDate(*summary.EarliestSnapshotDate)
		}
		rows = append(rows, ProgramParquetRow{
			Program:              summary.Program,
			TotalEntries:         int64(summary.TotalEntries),
			CurrentlyActive:      int64(summary.CurrentlyActive),
			PlacedCount:          int64(summary.PlacedCount),
			PlacementRate:        summary.PercentageOfPlacements,
			AverageDurationYears: summary.AverageDurationYears,
			EarliestRecord:       earliest,
			NumberOfSnapshots:    int64(summary.NumberOfSnapshots),
			ProgramLink:          summary.ProgramLink,
			PlacementLink:        summary.PlacementLink,
		})
	}
	return rows
}

func newStudentParquetRows(records []models.StudentRecord) []StudentParquetRow {
	rows := make([]StudentParquetRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, StudentParquetRow{
			Name:               record.Name,
			University:         record.University,
			Department:         record.Department,
			EnrollmentDate:     parquetDate(record.EnrollmentDate.Date),
			EnrollmentBound:    string(record.EnrollmentDate.Bound),
			CompletionDate:     parquetDate(record.CompletionDate.Date),
			CompletionBound:    string(record.CompletionDate.Bound),
			DurationYears:      record.DurationYears.Years,
			DurationLowerBound: record.DurationYears.LowerBound,
			Active:             record.Active,
			Placement:          record.Placement,
		})
	}
	return rows
}

func newSnapshotParquetRows(points []models.SnapshotPoint) []SnapshotParquetRow {
	rows := make([]SnapshotParquetRow, 0, len(points))
	for _, point := range points {
		rows = append(rows, SnapshotParquetRow{
			Date:     parquetDate(point.Date),
			Students: int64(point.AssociatedStudentCount),
			URL:      point.SourceURL,
		})
	}
	return rows
}

func parquetDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(parquetDateLayout)
}
