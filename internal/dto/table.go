package dto

import (
	"github.com/noah-isme/phdstats-api/internal/format"
	"github.com/noah-isme/phdstats-api/internal/models"
	"github.com/noah-isme/phdstats-api/pkg/export"
)

// ProgramIndexTable renders the overview as a labelled table.
func ProgramIndexTable(summaries []models.ProgramSummary) export.Table {
	table := export.Table{Headers: labels(ProgramIndexColumns), Rows: make([]map[string]string, 0, len(summaries))}
	for _, summary := range summaries {
		table.Rows = append(table.Rows, relabel(NewProgramIndexRow(summary).Cells(), ProgramIndexColumns))
	}
	return table
}

// StudentTable renders student rows as a labelled table. The university
// column is included when the records span several programs.
func StudentTable(records []models.StudentRecord, withUniversity bool) export.Table {
	ids := studentColumnIDs(withUniversity)
	table := export.Table{Headers: labels(ids), Rows: make([]map[string]string, 0, len(records))}
	for _, record := range records {
		table.Rows = append(table.Rows, relabel(NewStudentRow(record).Cells(), ids))
	}
	return table
}

// SnapshotTable renders snapshot rows as a labelled table.
func SnapshotTable(points []models.SnapshotPoint) export.Table {
	headers := []string{"Date", "Students", "Snapshot"}
	table := export.Table{Headers: headers, Rows: make([]map[string]string, 0, len(points))}
	for _, row := range NewSnapshotRows(points) {
		table.Rows = append(table.Rows, map[string]string{
			"Date":     row.Date,
			"Students": format.FormatValue(row.Students, "students"),
			"Snapshot": row.URL,
		})
	}
	return table
}

// SummaryTable renders the summary card as a two column table.
func SummaryTable(summary models.ProgramSummary) export.Table {
	table := export.Table{Headers: []string{"Statistic", "Value"}}
	for _, row := range NewProgramSummaryResponse(summary).Rows {
		table.Rows = append(table.Rows, map[string]string{"Statistic": row.Label, "Value": row.Value})
	}
	return table
}

// RankingSummaryTable renders the distribution rows of a statistics response.
func RankingSummaryTable(resp StatisticsResponse) export.Table {
	table := export.Table{Headers: []string{"Statistic", resp.Label}}
	for _, row := range resp.SummaryRows {
		table.Rows = append(table.Rows, map[string]string{"Statistic": row.Label, resp.Label: row.Value})
	}
	return table
}

func labels(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, format.FormatColumnLabel(id))
	}
	return out
}

func relabel(cells map[string]string, ids []string) map[string]string {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		out[format.FormatColumnLabel(id)] = cells[id]
	}
	return out
}
