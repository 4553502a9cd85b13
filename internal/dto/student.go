package dto

import (
	"github.com/noah-isme/phdstats-api/internal/format"
	"github.com/noah-isme/phdstats-api/internal/models"
)

// Student table column identifiers, in display order. They double as sort keys.
const (
	ColumnName           = "name"
	ColumnUniversity     = "university"
	ColumnEnrollmentDate = "enrollment_date"
	ColumnCompletionDate = "completion_date"
	ColumnTimeToDegree   = "duration_years"
	ColumnActive         = "active"
	ColumnPlacement      = "placement"
)

// StudentColumns lists the per-program student table columns.
var StudentColumns = []string{
	ColumnName,
	ColumnEnrollmentDate,
	ColumnCompletionDate,
	ColumnTimeToDegree,
	ColumnActive,
	ColumnPlacement,
}

var studentColumnDescriptions = map[string]string{
	ColumnName:           "First and last name of the student",
	ColumnUniversity:     "The institution offering the graduate program",
	ColumnEnrollmentDate: "Estimated enrollment date: the midpoint of the two snapshots around the first sighting, or a \"before\" bound when no earlier snapshot exists",
	ColumnCompletionDate: "Estimated completion date: the midpoint of the two snapshots around the last sighting, or an \"after\" bound for active students",
	ColumnTimeToDegree:   "Years between estimated enrollment and completion; a leading > marks a lower bound",
	ColumnActive:         "Current enrollment status according to the latest snapshot",
	ColumnPlacement:      "Job placement status according to the placement page",
}

func studentColumnIDs(withUniversity bool) []string {
	if !withUniversity {
		return StudentColumns
	}
	ids := make([]string, 0, len(StudentColumns)+1)
	ids = append(ids, ColumnName, ColumnUniversity)
	return append(ids, StudentColumns[1:]...)
}

// StudentRow is one formatted line of the student table.
type StudentRow struct {
	Name           string `json:"name"`
	University     string `json:"university"`
	EnrollmentDate string `json:"enrollmentDate"`
	CompletionDate string `json:"completionDate"`
	TimeToDegree   string `json:"timeToDegree"`
	Active         string `json:"active"`
	Placement      string `json:"placement"`
}

// NewStudentRow formats one record.
func NewStudentRow(record models.StudentRecord) StudentRow {
	return StudentRow{
		Name:           record.Name,
		University:     record.University,
		EnrollmentDate: format.FormatValue(record.EnrollmentDate, ColumnEnrollmentDate),
		CompletionDate: format.FormatValue(record.CompletionDate, ColumnCompletionDate),
		TimeToDegree:   format.FormatValue(record.DurationYears, ColumnTimeToDegree),
		Active:         format.FormatValue(record.Active, ColumnActive),
		Placement:      format.FormatValue(record.Placement, ColumnPlacement),
	}
}

// Cells returns the row values keyed by column identifier.
func (r StudentRow) Cells() map[string]string {
	return map[string]string{
		ColumnName:           r.Name,
		ColumnUniversity:     r.University,
		ColumnEnrollmentDate: r.EnrollmentDate,
		ColumnCompletionDate: r.CompletionDate,
		ColumnTimeToDegree:   r.TimeToDegree,
		ColumnActive:         r.Active,
		ColumnPlacement:      r.Placement,
	}
}

// StudentListResponse is the student table payload.
type StudentListResponse struct {
	Program string       `json:"program"`
	Columns []Column     `json:"columns"`
	Rows    []StudentRow `json:"rows"`
}

// NewStudentListResponse formats student records. The university column is
// listed when the records span several programs.
func NewStudentListResponse(program string, records []models.StudentRecord, withUniversity bool) StudentListResponse {
	rows := make([]StudentRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, NewStudentRow(record))
	}
	return StudentListResponse{
		Program: program,
		Columns: columns(studentColumnIDs(withUniversity), studentColumnDescriptions),
		Rows:    rows,
	}
}

// SnapshotRow is one archived observation of a program page.
type SnapshotRow struct {
	Date     string `json:"date"`
	Students int    `json:"students"`
	URL      string `json:"url"`
}

// NewSnapshotRows formats deduplicated snapshot points.
func NewSnapshotRows(points []models.SnapshotPoint) []SnapshotRow {
	rows := make([]SnapshotRow, 0, len(points))
	for _, point := range points {
		rows = append(rows, SnapshotRow{
			Date:     point.FormattedDate,
			Students: point.AssociatedStudentCount,
			URL:      point.SourceURL,
		})
	}
	return rows
}
