package dto

import (
	"strconv"

	"github.com/noah-isme/phdstats-api/internal/format"
	"github.com/noah-isme/phdstats-api/internal/models"
	"github.com/noah-isme/phdstats-api/internal/stats"
)

// Program index column identifiers, in display order.
const (
	ColumnProgram          = "program"
	ColumnTotalEntries     = "totalEntries"
	ColumnCurrentlyActive  = "currentlyActive"
	ColumnPlacementRate    = "percentageOfPlacements"
	ColumnAverageDuration  = "averageDuration"
	ColumnEarliestSnapshot = "earliestSnapshot"
)

// ProgramIndexColumns lists the overview table columns.
var ProgramIndexColumns = []string{
	ColumnProgram,
	ColumnTotalEntries,
	ColumnCurrentlyActive,
	ColumnPlacementRate,
	ColumnAverageDuration,
	ColumnEarliestSnapshot,
}

// Column describes one table column.
type Column struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// ProgramIndexRow is one line of the all-programs overview, already
// formatted for display.
type ProgramIndexRow struct {
	Program          string `json:"program"`
	TotalEntries     string `json:"totalEntries"`
	CurrentlyActive  string `json:"currentlyActive"`
	PlacementRate    string `json:"placementRate"`
	AverageDuration  string `json:"averageDuration"`
	EarliestSnapshot string `json:"earliestSnapshot"`
}

// NewProgramIndexRow formats a summary for the overview table.
func NewProgramIndexRow(summary models.ProgramSummary) ProgramIndexRow {
	return ProgramIndexRow{
		Program:          summary.Program,
		TotalEntries:     format.FormatValue(summary.TotalEntries, ColumnTotalEntries),
		CurrentlyActive:  format.FormatValue(summary.CurrentlyActive, ColumnCurrentlyActive),
		PlacementRate:    format.FormatValue(summary.PercentageOfPlacements, ColumnPlacementRate),
		AverageDuration:  format.FormatValue(summary.AverageDurationYears, ColumnAverageDuration),
		EarliestSnapshot: format.FormatValue(summary.EarliestSnapshotDate, ColumnEarliestSnapshot),
	}
}

// Cells returns the row values keyed by column identifier.
func (r ProgramIndexRow) Cells() map[string]string {
	return map[string]string{
		ColumnProgram:          r.Program,
		ColumnTotalEntries:     r.TotalEntries,
		ColumnCurrentlyActive:  r.CurrentlyActive,
		ColumnPlacementRate:    r.PlacementRate,
		ColumnAverageDuration:  r.AverageDuration,
		ColumnEarliestSnapshot: r.EarliestSnapshot,
	}
}

// ProgramIndexResponse is the overview payload.
type ProgramIndexResponse struct {
	Columns   []Column                `json:"columns"`
	Rows      []ProgramIndexRow       `json:"rows"`
	Summaries []models.ProgramSummary `json:"summaries"`
}

// NewProgramIndexResponse builds the overview payload.
func NewProgramIndexResponse(summaries []models.ProgramSummary) ProgramIndexResponse {
	rows := make([]ProgramIndexRow, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, NewProgramIndexRow(summary))
	}
	return ProgramIndexResponse{
		Columns:   columns(ProgramIndexColumns, nil),
		Rows:      rows,
		Summaries: summaries,
	}
}

// LabeledValue is one line of the program summary card.
type LabeledValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Link  bool   `json:"link,omitempty"`
}

// ProgramSummaryResponse pairs the raw summary with its display rows.
type ProgramSummaryResponse struct {
	Summary models.ProgramSummary `json:"summary"`
	Rows    []LabeledValue        `json:"rows"`
}

// NewProgramSummaryResponse builds the summary card rows.
func NewProgramSummaryResponse(summary models.ProgramSummary) ProgramSummaryResponse {
	return ProgramSummaryResponse{
		Summary: summary,
		Rows: []LabeledValue{
			{Label: "Currently Enrolled", Value: strconv.Itoa(summary.CurrentlyActive)},
			{Label: "Total Students Recorded", Value: strconv.Itoa(summary.TotalEntries)},
			{Label: "Placement Rate", Value: format.FormatValue(summary.PercentageOfPlacements, ColumnPlacementRate)},
			{Label: "Average Time-to-Degree", Value: format.FormatValue(summary.AverageDurationYears, ColumnAverageDuration)},
			{Label: "Number of Snapshots", Value: strconv.Itoa(summary.NumberOfSnapshots)},
			{Label: "Earliest Record", Value: format.FormatValue(summary.EarliestSnapshotDate, ColumnEarliestSnapshot)},
			{Label: "Program Page", Value: summary.ProgramLink, Link: summary.ProgramLink != ""},
			{Label: "Placement Page", Value: summary.PlacementLink, Link: summary.PlacementLink != ""},
		},
	}
}

// StatisticsResponse is the ranked chart payload.
type StatisticsResponse struct {
	Metric      models.StatisticsMetric  `json:"metric"`
	Label       string                   `json:"label"`
	Points      []models.StatisticsPoint `json:"points"`
	Summary     models.RankingStatistics `json:"summary"`
	SummaryRows []LabeledValue           `json:"summaryRows"`
}

// NewStatisticsResponse labels ranked chart points.
func NewStatisticsResponse(metric models.StatisticsMetric, points []models.StatisticsPoint) StatisticsResponse {
	label := format.FormatColumnLabel(ColumnPlacementRate)
	if metric == models.MetricDuration {
		label = format.FormatColumnLabel(ColumnAverageDuration)
	}
	summary := stats.DescribeRanking(points)
	return StatisticsResponse{
		Metric:  metric,
		Label:   label,
		Points:  points,
		Summary: summary,
		SummaryRows: []LabeledValue{
			{Label: "Median", Value: statisticValue(metric, summary.Median, summary.TotalPrograms)},
			{Label: "Mean", Value: statisticValue(metric, summary.Mean, summary.TotalPrograms)},
			{Label: "Standard Deviation", Value: statisticValue(metric, summary.StdDev, summary.TotalPrograms)},
			{Label: "Min", Value: statisticValue(metric, summary.Min, summary.TotalPrograms)},
			{Label: "Max", Value: statisticValue(metric, summary.Max, summary.TotalPrograms)},
			{Label: "Total Programs", Value: strconv.Itoa(summary.TotalPrograms)},
		},
	}
}

// statisticValue keeps two decimals for both metrics; placement values carry
// a % suffix.
func statisticValue(metric models.StatisticsMetric, v float64, total int) string {
	if total == 0 {
		return format.NotAvailable
	}
	text := strconv.FormatFloat(v, 'f', 2, 64)
	if metric == models.MetricPlacement {
		return text + "%"
	}
	return text
}

func columns(ids []string, descriptions map[string]string) []Column {
	out := make([]Column, 0, len(ids))
	for _, id := range ids {
		out = append(out, Column{ID: id, Label: format.FormatColumnLabel(id), Description: descriptions[id]})
	}
	return out
}
