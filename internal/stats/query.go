package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/noah-isme/phdstats-api/internal/models"
)

// Student columns accepted by SortStudents.
const (
	StudentSortName       = "name"
	StudentSortStart      = "start_date"
	StudentSortEnd        = "end_date"
	StudentSortActive     = "active"
	StudentSortPlacement  = "placement"
	StudentSortEnrollment = "enrollment_date"
	StudentSortCompletion = "completion_date"
	StudentSortDuration   = "duration_years"
)

// Snapshot columns accepted by SortSnapshots.
const (
	SnapshotSortDate  = "date"
	SnapshotSortCount = "count"
)

// SearchPrograms returns the distinct universities whose name contains query,
// ignoring case, sorted by name. An empty query lists every program.
func SearchPrograms(records []models.StudentRecord, query string) []string {
	needle := strings.ToLower(strings.TrimSpace(query))
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, record := range records {
		if _, ok := seen[record.University]; ok {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(record.University), needle) {
			continue
		}
		seen[record.University] = struct{}{}
		names = append(names, record.University)
	}
	sort.Strings(names)
	return names
}

// FilterProgram returns the records of one university, matched ignoring case
// and surrounding whitespace.
func FilterProgram(records []models.StudentRecord, program string) []models.StudentRecord {
	program = strings.TrimSpace(program)
	matches := make([]models.StudentRecord, 0)
	for _, record := range records {
		if strings.EqualFold(record.University, program) {
			matches = append(matches, record)
		}
	}
	return matches
}

// RankPrograms orders summaries by the selected metric, highest first.
// Programs whose metric is zero or unknown are left out of the chart.
func RankPrograms(summaries []models.ProgramSummary, metric models.StatisticsMetric) []models.StatisticsPoint {
	points := make([]models.StatisticsPoint, 0, len(summaries))
	for _, summary := range summaries {
		var value float64
		switch metric {
		case models.MetricDuration:
			if summary.AverageDurationYears == nil {
				continue
			}
			value = *summary.AverageDurationYears
		default:
			value = summary.PercentageOfPlacements
		}
		if value == 0 {
			continue
		}
		points = append(points, models.StatisticsPoint{Program: summary.Program, Value: value})
	}
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Value == points[j].Value {
			return points[i].Program < points[j].Program
		}
		return points[i].Value > points[j].Value
	})
	return points
}

// DescribeRanking summarises ranked values: population standard deviation,
// and for an even count the upper of the two middle values as the median.
// Empty input yields the zero value.
func DescribeRanking(points []models.StatisticsPoint) models.RankingStatistics {
	if len(points) == 0 {
		return models.RankingStatistics{}
	}
	values := make([]float64, 0, len(points))
	var sum float64
	for _, point := range points {
		values = append(values, point.Value)
		sum += point.Value
	}
	sort.Float64s(values)

	n := float64(len(values))
	mean := sum / n
	var squares float64
	for _, v := range values {
		squares += (v - mean) * (v - mean)
	}
	return models.RankingStatistics{
		TotalPrograms: len(values),
		Mean:          round2(mean),
		Median:        round2(values[len(values)/2]),
		StdDev:        round2(math.Sqrt(squares / n)),
		Min:           round2(values[0]),
		Max:           round2(values[len(values)-1]),
	}
}

// SortStudents returns a sorted copy of the records. Unknown columns keep the
// input order.
func SortStudents(records []models.StudentRecord, column string, order models.SortOrder) []models.StudentRecord {
	sorted := make([]models.StudentRecord, len(records))
	copy(sorted, records)
	less := studentLess(column)
	if less == nil {
		return sorted
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if order == models.SortDescending {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

func studentLess(column string) func(a, b models.StudentRecord) bool {
	switch column {
	case StudentSortName:
		return func(a, b models.StudentRecord) bool { return a.Name < b.Name }
	case StudentSortStart:
		return func(a, b models.StudentRecord) bool { return a.StartDate.Before(b.StartDate) }
	case StudentSortEnd:
		return func(a, b models.StudentRecord) bool { return a.EndDate.Before(b.EndDate) }
	case StudentSortActive:
		return func(a, b models.StudentRecord) bool { return !a.Active && b.Active }
	case StudentSortPlacement:
		return func(a, b models.StudentRecord) bool { return placementRank(a) < placementRank(b) }
	case StudentSortEnrollment:
		return func(a, b models.StudentRecord) bool { return a.EnrollmentDate.Date.Before(b.EnrollmentDate.Date) }
	case StudentSortCompletion:
		return func(a, b models.StudentRecord) bool { return a.CompletionDate.Date.Before(b.CompletionDate.Date) }
	case StudentSortDuration:
		return func(a, b models.StudentRecord) bool { return a.DurationYears.Years < b.DurationYears.Years }
	default:
		return nil
	}
}

func placementRank(record models.StudentRecord) int {
	switch {
	case record.Placement == nil:
		return 0
	case *record.Placement:
		return 2
	default:
		return 1
	}
}

// SortSnapshots returns a sorted copy of the points by date or student count.
func SortSnapshots(points []models.SnapshotPoint, column string, order models.SortOrder) []models.SnapshotPoint {
	sorted := make([]models.SnapshotPoint, len(points))
	copy(sorted, points)
	var less func(a, b models.SnapshotPoint) bool
	switch column {
	case SnapshotSortCount:
		less = func(a, b models.SnapshotPoint) bool { return a.AssociatedStudentCount < b.AssociatedStudentCount }
	case SnapshotSortDate:
		less = func(a, b models.SnapshotPoint) bool { return a.Date.Before(b.Date) }
	default:
		return sorted
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if order == models.SortDescending {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}
