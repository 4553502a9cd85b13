package models

import "time"

// ProgramSummary aggregates every student record sharing a university.
type ProgramSummary struct {
	Program                string    `json:"program"`
	TotalEntries           int       `json:"total_entries"`
	CurrentlyActive        int       `json:"currently_active"`
	PlacedCount            int       `json:"placed_count"`
	PercentageOfPlacements float64   `json:"percentage_of_placements"`
	AverageDurationYears   *float64  `json:"average_duration_years"`
	EarliestSnapshotDate   *time.Time `json:"earliest_snapshot_date,omitempty"`
	NumberOfSnapshots      int       `json:"number_of_snapshots"`
	ProgramLink            string    `json:"program_link"`
	PlacementLink          string    `json:"placement_link"`
}

// HasAverageDuration reports whether at least one concrete duration was folded in.
func (s ProgramSummary) HasAverageDuration() bool {
	return s.AverageDurationYears != nil
}

// SnapshotPoint is one archival observation, deduplicated by display date.
type SnapshotPoint struct {
	Date                   time.Time `json:"date"`
	FormattedDate          string    `json:"formatted_date"`
	SourceURL              string    `json:"source_url"`
	AssociatedStudentCount int       `json:"associated_student_count"`
}

// SortOrder selects ascending or descending ordering.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// StatisticsMetric selects the metric ranked by the statistics chart.
type StatisticsMetric string

const (
	MetricPlacement StatisticsMetric = "placement"
	MetricDuration  StatisticsMetric = "duration"
)

// StatisticsPoint is one bar of the per-program statistics chart.
type StatisticsPoint struct {
	Program string  `json:"program"`
	Value   float64 `json:"value"`
}

// RankingStatistics describes the distribution of ranked chart values.
type RankingStatistics struct {
	TotalPrograms int     `json:"total_programs"`
	Mean          float64 `json:"mean"`
	Median        float64 `json:"median"`
	StdDev        float64 `json:"std_dev"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
}

// SystemMetrics is a lightweight instrumentation snapshot.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DatasetLoads             uint64    `json:"dataset_loads"`
	DatasetLoadFailures      uint64    `json:"dataset_load_failures"`
	AggregationCount         uint64    `json:"aggregation_count"`
	AverageAggregationMicros float64   `json:"average_aggregation_micros"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
